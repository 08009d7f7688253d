// Package controller implements the service layer over the personnel DAOs:
// it forwards reads and writes, resolves the raw manager and department
// references of employees, and publishes a change event for every write.
package controller

import (
	"context"
	"fmt"

	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/events"
	"github.com/gartstein/personnel/internal/personnel/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// EmployeeDAO is the storage contract for employees.
type EmployeeDAO interface {
	GetByID(ctx context.Context, id models.ID) (models.Employee, bool, error)
	GetAll(ctx context.Context) ([]models.Employee, error)
	GetByDepartment(ctx context.Context, department models.Department) ([]models.Employee, error)
	GetByManager(ctx context.Context, manager models.Employee) ([]models.Employee, error)
	Save(ctx context.Context, employee models.Employee) (models.Employee, error)
	Delete(ctx context.Context, employee models.Employee) error
}

// DepartmentDAO is the storage contract for departments.
type DepartmentDAO interface {
	GetByID(ctx context.Context, id models.ID) (models.Department, bool, error)
	GetAll(ctx context.Context) ([]models.Department, error)
	Save(ctx context.Context, department models.Department) (models.Department, error)
	Delete(ctx context.Context, department models.Department) error
}

// Service coordinates the DAOs and the event producer.
type Service struct {
	employees   EmployeeDAO
	departments DepartmentDAO
	producer    EventProducer
	logger      *zap.Logger
}

// NewService constructs a Service. producer may be nil, in which case no
// events are published.
func NewService(employees EmployeeDAO, departments DepartmentDAO, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		employees:   employees,
		departments: departments,
		producer:    producer,
		logger:      logger.Named("personnel_service"),
	}
}

func (s *Service) publish(event events.Event) {
	if s.producer == nil {
		return
	}
	s.producer.Produce(event)
}

func (s *Service) GetEmployee(ctx context.Context, id models.ID) (models.Employee, bool, error) {
	employee, found, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, found, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// EmployeesByDepartment lists the employees of the department with the given id.
func (s *Service) EmployeesByDepartment(ctx context.Context, departmentID models.ID) ([]models.Employee, error) {
	employees, err := s.employees.GetByDepartment(ctx, models.Department{ID: departmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees of department %d: %w", departmentID, err)
	}
	return employees, nil
}

// EmployeesByManager lists the direct reports of the employee with the given id.
func (s *Service) EmployeesByManager(ctx context.Context, managerID models.ID) ([]models.Employee, error) {
	employees, err := s.employees.GetByManager(ctx, models.Employee{ID: managerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports of employee %d: %w", managerID, err)
	}
	return employees, nil
}

// SaveEmployee inserts employee and publishes EmployeeSaved.
func (s *Service) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	saved, err := s.employees.Save(ctx, employee)
	if err != nil {
		s.logger.Error("Save employee failed",
			zap.Error(err),
			zap.Int64("employee_id", int64(employee.ID)),
		)
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	s.publish(events.NewEmployeeEvent(events.EmployeeSaved, saved))
	return saved, nil
}

// DeleteEmployee removes the employee with the given id and publishes
// EmployeeDeleted. An absent id is not an error.
func (s *Service) DeleteEmployee(ctx context.Context, id models.ID) error {
	employee := models.Employee{ID: id}
	if err := s.employees.Delete(ctx, employee); err != nil {
		s.logger.Error("Delete employee failed",
			zap.Error(err),
			zap.Int64("employee_id", int64(id)),
		)
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	s.publish(events.NewEmployeeEvent(events.EmployeeDeleted, employee))
	return nil
}

// Manager resolves the manager of employee. It reports false when employee
// has no manager and ErrNotFound when the referenced manager does not exist.
func (s *Service) Manager(ctx context.Context, employee models.Employee) (models.Employee, bool, error) {
	if employee.ManagerID == nil {
		return models.Employee{}, false, nil
	}
	manager, found, err := s.employees.GetByID(ctx, *employee.ManagerID)
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to resolve manager of employee %d: %w", employee.ID, err)
	}
	if !found {
		return models.Employee{}, false, fmt.Errorf("manager %d of employee %d: %w", *employee.ManagerID, employee.ID, e.ErrNotFound)
	}
	return manager, true, nil
}

// Department resolves the department of employee, with the same contract
// as Manager.
func (s *Service) Department(ctx context.Context, employee models.Employee) (models.Department, bool, error) {
	if employee.DepartmentID == nil {
		return models.Department{}, false, nil
	}
	department, found, err := s.departments.GetByID(ctx, *employee.DepartmentID)
	if err != nil {
		return models.Department{}, false, fmt.Errorf("failed to resolve department of employee %d: %w", employee.ID, err)
	}
	if !found {
		return models.Department{}, false, fmt.Errorf("department %d of employee %d: %w", *employee.DepartmentID, employee.ID, e.ErrNotFound)
	}
	return department, true, nil
}

func (s *Service) GetDepartment(ctx context.Context, id models.ID) (models.Department, bool, error) {
	department, found, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return models.Department{}, false, fmt.Errorf("failed to get department: %w", err)
	}
	return department, found, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// SaveDepartment upserts department and publishes DepartmentSaved.
func (s *Service) SaveDepartment(ctx context.Context, department models.Department) (models.Department, error) {
	saved, err := s.departments.Save(ctx, department)
	if err != nil {
		s.logger.Error("Save department failed",
			zap.Error(err),
			zap.Int64("department_id", int64(department.ID)),
		)
		return models.Department{}, fmt.Errorf("failed to save department: %w", err)
	}
	s.publish(events.NewDepartmentEvent(events.DepartmentSaved, saved))
	return saved, nil
}

// DeleteDepartment removes the department with the given id and publishes
// DepartmentDeleted. Employees referencing it are left untouched.
func (s *Service) DeleteDepartment(ctx context.Context, id models.ID) error {
	department := models.Department{ID: id}
	if err := s.departments.Delete(ctx, department); err != nil {
		s.logger.Error("Delete department failed",
			zap.Error(err),
			zap.Int64("department_id", int64(id)),
		)
		return fmt.Errorf("failed to delete department: %w", err)
	}
	s.publish(events.NewDepartmentEvent(events.DepartmentDeleted, department))
	return nil
}
