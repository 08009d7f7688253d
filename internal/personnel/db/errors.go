package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var kinds = []error{e.ErrConstraint, e.ErrConnectivity, e.ErrMapping, e.ErrStore, e.ErrNotFound, e.ErrInvalidInput}

// wrap attaches op to err and, unless err already carries a kind, the kind
// classify assigns to it.
func wrap(op string, err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", classify(err), op, err)
}

func classify(err error) error {
	var (
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
		liteErr sqlite3.Error
		netErr  net.Error
	)
	switch {
	case errors.As(err, &pgErr):
		// SQLSTATE class 23 is integrity constraint violation.
		if strings.HasPrefix(pgErr.Code, "23") {
			return e.ErrConstraint
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return e.ErrConnectivity
		}
		return e.ErrStore
	case errors.As(err, &liteErr):
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			return e.ErrConstraint
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return e.ErrConnectivity
		}
		return e.ErrStore
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &connErr),
		errors.As(err, &netErr):
		return e.ErrConnectivity
	default:
		return e.ErrStore
	}
}
