// Package events publishes and consumes personnel change events on Kafka.
package events

import (
	"fmt"
	"time"

	"github.com/gartstein/personnel/internal/personnel/models"
	"github.com/google/uuid"
)

type EventType string

const (
	EmployeeSaved     EventType = "employee_saved"
	EmployeeDeleted   EventType = "employee_deleted"
	DepartmentSaved   EventType = "department_saved"
	DepartmentDeleted EventType = "department_deleted"
)

// Event describes one change to a record. Exactly one of Employee and
// Department is set, matching Type.
type Event struct {
	ID         uuid.UUID
	Type       EventType
	Key        string
	OccurredAt time.Time
	Employee   *models.Employee   `json:",omitempty"`
	Department *models.Department `json:",omitempty"`
}

// NewEmployeeEvent returns an event of type t about employee.
func NewEmployeeEvent(t EventType, employee models.Employee) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		Key:        fmt.Sprintf("employee/%d", employee.ID),
		OccurredAt: time.Now().UTC(),
		Employee:   &employee,
	}
}

// NewDepartmentEvent returns an event of type t about department.
func NewDepartmentEvent(t EventType, department models.Department) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		Key:        fmt.Sprintf("department/%d", department.ID),
		OccurredAt: time.Now().UTC(),
		Department: &department,
	}
}
