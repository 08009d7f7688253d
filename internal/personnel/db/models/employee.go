// Package models contains the row models of the personnel tables,
// configured to work using GORM as the ORM. Column names are lower case so
// they resolve against unquoted upper-case DDL on PostgreSQL as well.
package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// EmployeeRow is one row of the EMPLOYEE table. Every column except the
// primary key is nullable at the row level; the DAO decides which NULLs are
// acceptable when mapping to the domain record.
type EmployeeRow struct {
	ID         int64               `gorm:"column:id;type:bigint;primaryKey;autoIncrement:false"`
	FirstName  sql.NullString      `gorm:"column:firstname;type:varchar(255)"`
	LastName   sql.NullString      `gorm:"column:lastname;type:varchar(255)"`
	MiddleName sql.NullString      `gorm:"column:middlename;type:varchar(255)"`
	Position   sql.NullString      `gorm:"column:position;type:varchar(64)"`
	HireDate   sql.NullTime        `gorm:"column:hiredate;type:date"`
	Salary     decimal.NullDecimal `gorm:"column:salary;type:decimal(15,2)"`
	Manager    sql.NullInt64       `gorm:"column:manager;type:bigint;index"`
	Department sql.NullInt64       `gorm:"column:department;type:bigint;index"`
}

// TableName overrides the pluralised table name GORM would derive.
func (EmployeeRow) TableName() string {
	return "employee"
}
