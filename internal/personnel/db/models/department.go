package models

import (
	"database/sql"
)

// DepartmentRow is one row of the DEPARTMENT table.
type DepartmentRow struct {
	ID       int64          `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false"`
	Name     sql.NullString `gorm:"column:name;type:varchar(255)"`
	Location sql.NullString `gorm:"column:location;type:varchar(255)"`
}

func (DepartmentRow) TableName() string {
	return "department"
}
