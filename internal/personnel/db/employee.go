package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbmodels "github.com/gartstein/personnel/internal/personnel/db/models"
	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeRepository reads and writes rows of the EMPLOYEE table.
type EmployeeRepository struct {
	source *Source
}

func NewEmployeeRepository(source *Source) *EmployeeRepository {
	return &EmployeeRepository{source: source}
}

// GetByID returns the employee with the given id. The boolean is false when
// no such row exists.
func (r *EmployeeRepository) GetByID(ctx context.Context, id models.ID) (models.Employee, bool, error) {
	var row dbmodels.EmployeeRow
	found := true
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		err := tx.First(&row, "id = ?", int64(id)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return models.Employee{}, false, wrap("get employee", err)
	}
	if !found {
		return models.Employee{}, false, nil
	}

	employee, err := toEmployee(row)
	if err != nil {
		return models.Employee{}, false, wrap("get employee", err)
	}
	return employee, true, nil
}

// GetAll returns every employee in the store's natural row order.
func (r *EmployeeRepository) GetAll(ctx context.Context) ([]models.Employee, error) {
	return r.find(ctx, "list employees", func(tx *gorm.DB) *gorm.DB {
		return tx
	})
}

// GetByDepartment returns the employees whose department is d.
func (r *EmployeeRepository) GetByDepartment(ctx context.Context, d models.Department) ([]models.Employee, error) {
	return r.find(ctx, "list employees by department", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("department = ?", int64(d.ID))
	})
}

// GetByManager returns the employees whose manager is m.
func (r *EmployeeRepository) GetByManager(ctx context.Context, m models.Employee) ([]models.Employee, error) {
	return r.find(ctx, "list employees by manager", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("manager = ?", int64(m.ID))
	})
}

func (r *EmployeeRepository) find(ctx context.Context, op string, scope func(tx *gorm.DB) *gorm.DB) ([]models.Employee, error) {
	var rows []dbmodels.EmployeeRow
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return scope(tx).Find(&rows).Error
	})
	if err != nil {
		return nil, wrap(op, err)
	}

	employees := make([]models.Employee, 0, len(rows))
	for _, row := range rows {
		employee, err := toEmployee(row)
		if err != nil {
			return nil, wrap(op, err)
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

// Save inserts employee as a new row. It never updates: an id that is
// already taken fails with ErrConstraint. The input is returned unchanged.
func (r *EmployeeRepository) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	row := fromEmployee(employee)
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.Employee{}, wrap(fmt.Sprintf("save employee %d", employee.ID), err)
	}
	return employee, nil
}

// Delete removes the row of employee. Deleting an absent id is not an error.
func (r *EmployeeRepository) Delete(ctx context.Context, employee models.Employee) error {
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&dbmodels.EmployeeRow{}, "id = ?", int64(employee.ID)).Error
	})
	if err != nil {
		return wrap(fmt.Sprintf("delete employee %d", employee.ID), err)
	}
	return nil
}

func toEmployee(row dbmodels.EmployeeRow) (models.Employee, error) {
	switch {
	case !row.FirstName.Valid:
		return models.Employee{}, nullColumn(row.ID, "firstname")
	case !row.LastName.Valid:
		return models.Employee{}, nullColumn(row.ID, "lastname")
	case !row.Position.Valid:
		return models.Employee{}, nullColumn(row.ID, "position")
	case !row.HireDate.Valid:
		return models.Employee{}, nullColumn(row.ID, "hiredate")
	case !row.Salary.Valid:
		return models.Employee{}, nullColumn(row.ID, "salary")
	}

	position, err := models.ParsePosition(row.Position.String)
	if err != nil {
		return models.Employee{}, fmt.Errorf("employee %d: %w", row.ID, err)
	}

	return models.Employee{
		ID: models.ID(row.ID),
		FullName: models.FullName{
			First:  row.FirstName.String,
			Last:   row.LastName.String,
			Middle: row.MiddleName.String,
		},
		Position:     position,
		Hired:        models.DateOf(row.HireDate.Time),
		Salary:       row.Salary.Decimal,
		ManagerID:    toRef(row.Manager),
		DepartmentID: toRef(row.Department),
	}, nil
}

func fromEmployee(employee models.Employee) dbmodels.EmployeeRow {
	return dbmodels.EmployeeRow{
		ID:         int64(employee.ID),
		FirstName:  sql.NullString{String: employee.FullName.First, Valid: true},
		LastName:   sql.NullString{String: employee.FullName.Last, Valid: true},
		MiddleName: sql.NullString{String: employee.FullName.Middle, Valid: employee.FullName.Middle != ""},
		Position:   sql.NullString{String: string(employee.Position), Valid: true},
		HireDate:   sql.NullTime{Time: employee.Hired.Time(), Valid: true},
		Salary:     decimal.NullDecimal{Decimal: employee.Salary, Valid: true},
		Manager:    fromRef(employee.ManagerID),
		Department: fromRef(employee.DepartmentID),
	}
}

func toRef(v sql.NullInt64) *models.ID {
	if !v.Valid {
		return nil
	}
	return models.Ref(models.ID(v.Int64))
}

func fromRef(id *models.ID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func nullColumn(id int64, column string) error {
	return fmt.Errorf("%w: row %d: column %s is null", e.ErrMapping, id, column)
}
