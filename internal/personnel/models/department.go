package models

// Department defines the domain record for a department.
type Department struct {
	ID       ID
	Name     string
	Location string
}
