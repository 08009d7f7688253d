package db

import (
	"context"
	"testing"

	dbmodels "github.com/gartstein/personnel/internal/personnel/db/models"
	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countDepartments(t *testing.T, source *Source, id models.ID) int64 {
	t.Helper()
	db, err := source.open()
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&dbmodels.DepartmentRow{}).Where("id = ?", int64(id)).Count(&count).Error)
	return count
}

func TestDepartmentSaveInserts(t *testing.T) {
	repo := NewDepartmentRepository(SetupTestSource(t))
	ctx := context.Background()

	department := models.Department{ID: 1, Name: "IT", Location: "NY"}
	saved, err := repo.Save(ctx, department)
	require.NoError(t, err)
	assert.Equal(t, department, saved)

	got, found, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, department, got)
}

func TestDepartmentSaveUpserts(t *testing.T) {
	source := SetupTestSource(t)
	repo := NewDepartmentRepository(source)
	ctx := context.Background()

	_, err := repo.Save(ctx, models.Department{ID: 1, Name: "IT", Location: "NY"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, models.Department{ID: 1, Name: "IT", Location: "SF"})
	require.NoError(t, err, "saving an existing id should update it")

	got, found, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Department{ID: 1, Name: "IT", Location: "SF"}, got)
	assert.Equal(t, int64(1), countDepartments(t, source, 1), "exactly one row should exist for id 1")
}

func TestDepartmentSaveIsIdempotent(t *testing.T) {
	source := SetupTestSource(t)
	repo := NewDepartmentRepository(source)
	ctx := context.Background()

	department := models.Department{ID: 9, Name: "Sales", Location: "Berlin"}
	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, department)
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Department{department}, all)
}

func TestDepartmentGetByIDNotFound(t *testing.T) {
	repo := NewDepartmentRepository(SetupTestSource(t))

	got, found, err := repo.GetByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, models.Department{}, got)
}

func TestDepartmentGetAll(t *testing.T) {
	repo := NewDepartmentRepository(SetupTestSource(t))
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	want := []models.Department{
		{ID: 1, Name: "IT", Location: "NY"},
		{ID: 2, Name: "HR", Location: "LA"},
	}
	for _, d := range want {
		_, err := repo.Save(ctx, d)
		require.NoError(t, err)
	}

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, all)
}

func TestDepartmentDelete(t *testing.T) {
	repo := NewDepartmentRepository(SetupTestSource(t))
	ctx := context.Background()

	department := models.Department{ID: 3, Name: "Ops", Location: "Austin"}
	_, err := repo.Save(ctx, department)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, department))

	_, found, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, repo.Delete(ctx, department), "deleting again should be a silent no-op")
}

func TestDepartmentNullColumn(t *testing.T) {
	source := SetupTestSource(t)
	repo := NewDepartmentRepository(source)

	db, err := source.open()
	require.NoError(t, err)
	require.NoError(t, db.Create(&dbmodels.DepartmentRow{ID: 5}).Error)

	_, _, err = repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, e.ErrMapping)
}
