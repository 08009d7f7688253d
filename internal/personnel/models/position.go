package models

import (
	"fmt"

	e "github.com/gartstein/personnel/internal/personnel/errors"
)

// Position is the job title of an employee. It is stored as its textual name.
type Position string

const (
	President Position = "PRESIDENT"
	Manager   Position = "MANAGER"
	Analyst   Position = "ANALYST"
	Clerk     Position = "CLERK"
	Salesman  Position = "SALESMAN"
	Developer Position = "DEVELOPER"
)

// Positions lists every known position.
var Positions = []Position{President, Manager, Analyst, Clerk, Salesman, Developer}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePosition converts stored text into a Position. Matching is exact.
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown position %q", e.ErrMapping, s)
	}
	return p, nil
}
