// Package models defines the core domain records for the personnel store:
// employees, departments and the value types they are built from.
package models

import (
	"github.com/shopspring/decimal"
)

// ID identifies an employee or a department. Identities are assigned by the
// caller, never generated by the store.
type ID int64

// Ref returns a reference to id, for use in the optional foreign-key fields.
func Ref(id ID) *ID {
	return &id
}

// FullName is the name of an employee.
type FullName struct {
	// First is the given name.
	First string
	// Last is the family name.
	Last string
	// Middle is optional; an empty value is stored as NULL.
	Middle string
}

// Employee defines the domain record for an employee.
type Employee struct {
	// ID is the unique identifier of the employee.
	ID ID
	// FullName holds the first, last and middle name.
	FullName FullName
	// Position is the job title, one of the known positions.
	Position Position
	// Hired is the calendar date the employee was hired on.
	Hired Date
	// Salary is an exact decimal amount.
	Salary decimal.Decimal
	// ManagerID references another employee. Nil means the employee has no manager.
	ManagerID *ID
	// DepartmentID references a department. Nil means no department is assigned.
	DepartmentID *ID
}
