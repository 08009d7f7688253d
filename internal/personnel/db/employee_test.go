package db

import (
	"context"
	"testing"
	"time"

	dbmodels "github.com/gartstein/personnel/internal/personnel/db/models"
	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(id models.ID, departmentID, managerID *models.ID) models.Employee {
	return models.Employee{
		ID: id,
		FullName: models.FullName{
			First:  "Ada",
			Last:   "Lovelace",
			Middle: "King",
		},
		Position:     models.Developer,
		Hired:        models.Date{Year: 2020, Month: time.January, Day: 15},
		Salary:       decimal.RequireFromString("1000.00"),
		ManagerID:    managerID,
		DepartmentID: departmentID,
	}
}

// assertSameEmployee compares field by field; decimals compare by value.
func assertSameEmployee(t *testing.T, want, got models.Employee) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID, "ID should match")
	assert.Equal(t, want.FullName, got.FullName, "FullName should match")
	assert.Equal(t, want.Position, got.Position, "Position should match")
	assert.Equal(t, want.Hired, got.Hired, "Hired should match")
	assert.True(t, want.Salary.Equal(got.Salary), "Salary should match: want %s, got %s", want.Salary, got.Salary)
	assert.Equal(t, want.ManagerID, got.ManagerID, "ManagerID should match")
	assert.Equal(t, want.DepartmentID, got.DepartmentID, "DepartmentID should match")
}

func ids(employees []models.Employee) []models.ID {
	out := make([]models.ID, 0, len(employees))
	for _, emp := range employees {
		out = append(out, emp.ID)
	}
	return out
}

func TestEmployeeSaveAndGetByID(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	employee := newEmployee(10, models.Ref(2), models.Ref(5))

	saved, err := repo.Save(ctx, employee)
	require.NoError(t, err, "Save should succeed")
	assert.Equal(t, employee, saved, "Save should return its input unchanged")

	got, found, err := repo.GetByID(ctx, 10)
	require.NoError(t, err, "GetByID should succeed")
	require.True(t, found, "saved employee should be found")
	assertSameEmployee(t, employee, got)
}

func TestEmployeeRoundTripWithoutOptionalFields(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	employee := newEmployee(1, nil, nil)
	employee.FullName.Middle = ""
	employee.Position = models.President
	employee.Salary = decimal.RequireFromString("98765.43")

	_, err := repo.Save(ctx, employee)
	require.NoError(t, err)

	got, found, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assertSameEmployee(t, employee, got)
	assert.Nil(t, got.ManagerID, "absent manager should stay nil")
	assert.Nil(t, got.DepartmentID, "absent department should stay nil")
}

func TestEmployeeZeroReferenceIsNotNone(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	employee := newEmployee(3, models.Ref(0), models.Ref(0))
	_, err := repo.Save(ctx, employee)
	require.NoError(t, err)

	got, found, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.ManagerID, "zero manager id is a real reference")
	assert.Equal(t, models.ID(0), *got.ManagerID)
	require.NotNil(t, got.DepartmentID)
	assert.Equal(t, models.ID(0), *got.DepartmentID)
}

func TestEmployeeGetByIDNotFound(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))

	got, found, err := repo.GetByID(context.Background(), 404)
	assert.NoError(t, err, "absent id should not be an error")
	assert.False(t, found)
	assert.Equal(t, models.Employee{}, got)
}

func TestEmployeeGetAll(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all, "empty table should give an empty slice, not nil")
	assert.Empty(t, all)

	for _, id := range []models.ID{1, 2, 3} {
		_, err := repo.Save(ctx, newEmployee(id, nil, nil))
		require.NoError(t, err)
	}

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ID{1, 2, 3}, ids(all))
}

func TestEmployeeGetByDepartment(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	for _, emp := range []models.Employee{
		newEmployee(10, models.Ref(2), models.Ref(5)),
		newEmployee(11, models.Ref(2), nil),
		newEmployee(12, models.Ref(3), models.Ref(5)),
		newEmployee(13, nil, nil),
	} {
		_, err := repo.Save(ctx, emp)
		require.NoError(t, err)
	}

	got, err := repo.GetByDepartment(ctx, models.Department{ID: 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ID{10, 11}, ids(got))

	got, err = repo.GetByDepartment(ctx, models.Department{ID: 99})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got, "unknown department should give an empty slice")
}

func TestEmployeeGetByManager(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	subordinate := newEmployee(10, models.Ref(2), models.Ref(5))
	for _, emp := range []models.Employee{
		newEmployee(5, models.Ref(2), nil),
		subordinate,
		newEmployee(12, models.Ref(3), models.Ref(5)),
		newEmployee(13, models.Ref(3), models.Ref(12)),
	} {
		_, err := repo.Save(ctx, emp)
		require.NoError(t, err)
	}

	got, err := repo.GetByManager(ctx, models.Employee{ID: 5})
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ID{10, 12}, ids(got))

	for _, emp := range got {
		if emp.ID == subordinate.ID {
			assertSameEmployee(t, subordinate, emp)
		}
	}

	got, err = repo.GetByManager(ctx, models.Employee{ID: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmployeeSaveDuplicateID(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, newEmployee(7, nil, nil))
	require.NoError(t, err)

	duplicate := newEmployee(7, nil, nil)
	duplicate.FullName.First = "Grace"
	_, err = repo.Save(ctx, duplicate)
	assert.ErrorIs(t, err, e.ErrConstraint, "duplicate id should be a constraint violation")

	got, found, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ada", got.FullName.First, "Save must never update an existing row")
}

func TestEmployeeDelete(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	employee := newEmployee(20, nil, nil)
	_, err := repo.Save(ctx, employee)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, employee), "Delete should succeed")

	_, found, err := repo.GetByID(ctx, 20)
	require.NoError(t, err)
	assert.False(t, found, "deleted employee should not be found")
}

func TestEmployeeDeleteAbsent(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, newEmployee(1, nil, nil))
	require.NoError(t, err)

	assert.NoError(t, repo.Delete(ctx, models.Employee{ID: 404}), "deleting an absent id is not an error")

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "store should be unchanged")
}

func TestEmployeeUnknownPositionFailsOnRead(t *testing.T) {
	repo := NewEmployeeRepository(SetupTestSource(t))
	ctx := context.Background()

	employee := newEmployee(30, nil, nil)
	employee.Position = models.Position("JANITOR")

	_, err := repo.Save(ctx, employee)
	require.NoError(t, err, "Save writes the position verbatim")

	_, _, err = repo.GetByID(ctx, 30)
	assert.ErrorIs(t, err, e.ErrMapping)

	_, err = repo.GetAll(ctx)
	assert.ErrorIs(t, err, e.ErrMapping, "list reads should fail the same way")
}

func TestEmployeeNullRequiredColumn(t *testing.T) {
	source := SetupTestSource(t)
	repo := NewEmployeeRepository(source)
	ctx := context.Background()

	db, err := source.open()
	require.NoError(t, err)

	base := fromEmployee(newEmployee(0, nil, nil))
	tests := []struct {
		name   string
		id     int64
		mutate func(row *dbmodels.EmployeeRow)
	}{
		{"first name", 41, func(row *dbmodels.EmployeeRow) { row.FirstName.Valid = false }},
		{"last name", 42, func(row *dbmodels.EmployeeRow) { row.LastName.Valid = false }},
		{"position", 43, func(row *dbmodels.EmployeeRow) { row.Position.Valid = false }},
		{"hire date", 44, func(row *dbmodels.EmployeeRow) { row.HireDate.Valid = false }},
		{"salary", 45, func(row *dbmodels.EmployeeRow) { row.Salary.Valid = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := base
			row.ID = tt.id
			tt.mutate(&row)
			require.NoError(t, db.Create(&row).Error)

			_, _, err := repo.GetByID(ctx, models.ID(tt.id))
			assert.ErrorIs(t, err, e.ErrMapping)
		})
	}
}
