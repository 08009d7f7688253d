package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbmodels "github.com/gartstein/personnel/internal/personnel/db/models"
	"github.com/gartstein/personnel/internal/personnel/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartmentRepository reads and writes rows of the DEPARTMENT table.
type DepartmentRepository struct {
	source *Source
}

func NewDepartmentRepository(source *Source) *DepartmentRepository {
	return &DepartmentRepository{source: source}
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id models.ID) (models.Department, bool, error) {
	var row dbmodels.DepartmentRow
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
		return models.Department{}, false, wrap("get department", err)
	}
	if !found {
		return models.Department{}, false, nil
	}

	department, err := toDepartment(row)
	if err != nil {
		return models.Department{}, false, wrap("get department", err)
	}
	return department, true, nil
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]models.Department, error) {
	var rows []dbmodels.DepartmentRow
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Find(&rows).Error
	})
	if err != nil {
		return nil, wrap("list departments", err)
	}

	departments := make([]models.Department, 0, len(rows))
	for _, row := range rows {
		department, err := toDepartment(row)
		if err != nil {
			return nil, wrap("list departments", err)
		}
		departments = append(departments, department)
	}
	return departments, nil
}

// Save inserts department, or overwrites name and location of the row that
// already has its id. Both cases are one INSERT ... ON CONFLICT statement.
func (r *DepartmentRepository) Save(ctx context.Context, department models.Department) (models.Department, error) {
	row := fromDepartment(department)
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "location"}),
		}).Create(&row).Error
	})
	if err != nil {
		return models.Department{}, wrap(fmt.Sprintf("save department %d", department.ID), err)
	}
	return department, nil
}

// Delete removes the row of department. Deleting an absent id is not an error.
func (r *DepartmentRepository) Delete(ctx context.Context, department models.Department) error {
	err := r.source.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&dbmodels.DepartmentRow{}, "id = ?", int64(department.ID)).Error
	})
	if err != nil {
		return wrap(fmt.Sprintf("delete department %d", department.ID), err)
	}
	return nil
}

func toDepartment(row dbmodels.DepartmentRow) (models.Department, error) {
	if !row.Name.Valid {
		return models.Department{}, nullColumn(row.ID, "name")
	}
	if !row.Location.Valid {
		return models.Department{}, nullColumn(row.ID, "location")
	}
	return models.Department{
		ID:       models.ID(row.ID),
		Name:     row.Name.String,
		Location: row.Location.String,
	}, nil
}

func fromDepartment(department models.Department) dbmodels.DepartmentRow {
	return dbmodels.DepartmentRow{
		ID:       int64(department.ID),
		Name:     sql.NullString{String: department.Name, Valid: true},
		Location: sql.NullString{String: department.Location, Valid: true},
	}
}
