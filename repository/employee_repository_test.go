package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrk-foods/cardsysbackend/database"
	"github.com/mrk-foods/cardsysbackend/models"
)

func newTestRepo(t *testing.T) *EmployeeRepository {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return NewEmployeeRepository(db)
}

func TestPutAndGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	emp := &models.Employee{
		ID:        "emp1",
		Name:      "Jane Doe",
		Mobile:    "+1 555 0100",
		PhotoURL:  "https://cdn.example/jane.jpg",
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}
	require.NoError(t, repo.Put(emp))

	got, err := repo.GetByID("emp1")
	require.NoError(t, err)
	assert.Equal(t, emp, got)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPutOverwritesAllFields(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Put(&models.Employee{ID: "emp1", Name: "Before", Email: "old@x.com", CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, repo.Put(&models.Employee{ID: "emp1", Name: "After", CreatedAt: 1, UpdatedAt: 2}))

	got, err := repo.GetByID("emp1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Empty(t, got.Email, "full overwrite drops fields the caller did not merge")
	assert.EqualValues(t, 2, got.UpdatedAt)
}

func TestListAllCreationOrder(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Put(&models.Employee{ID: "emp3", Name: "Third", CreatedAt: 30, UpdatedAt: 30}))
	require.NoError(t, repo.Put(&models.Employee{ID: "emp1", Name: "First", CreatedAt: 10, UpdatedAt: 10}))
	require.NoError(t, repo.Put(&models.Employee{ID: "emp2", Name: "Second", CreatedAt: 20, UpdatedAt: 20}))

	employees, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "emp1", employees[0].ID)
	assert.Equal(t, "emp2", employees[1].ID)
	assert.Equal(t, "emp3", employees[2].ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Put(&models.Employee{ID: "emp1", Name: "Jane", CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, repo.Delete("emp1"))
	require.NoError(t, repo.Delete("emp1"), "deleting a missing id is not an error")
	require.NoError(t, repo.Delete("never-existed"))
}

func TestWatchDeliversOnEveryChange(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Put(&models.Employee{ID: "emp1", Name: "Jane", CreatedAt: 1, UpdatedAt: 1}))

	sub := repo.Watch()
	defer sub.Cancel()

	// initial snapshot
	initial := waitForDelivery(t, sub)
	require.Len(t, initial, 1)

	require.NoError(t, repo.Put(&models.Employee{ID: "emp2", Name: "John", CreatedAt: 2, UpdatedAt: 2}))
	afterPut := waitForDelivery(t, sub)
	require.Len(t, afterPut, 2)

	require.NoError(t, repo.Delete("emp1"))
	afterDelete := waitForDelivery(t, sub)
	require.Len(t, afterDelete, 1)
	assert.Equal(t, "emp2", afterDelete[0].ID)
}

func TestCancelStopsDeliveries(t *testing.T) {
	repo := newTestRepo(t)

	sub := repo.Watch()
	waitForDelivery(t, sub)
	sub.Cancel()
	sub.Cancel() // cancelling twice is safe

	_, ok := <-sub.C
	assert.False(t, ok, "channel must be closed after Cancel")

	// writes after cancel must not panic or block
	require.NoError(t, repo.Put(&models.Employee{ID: "emp9", Name: "Late", CreatedAt: 9, UpdatedAt: 9}))
}

func waitForDelivery(t *testing.T, sub *Subscription) []models.Employee {
	t.Helper()
	select {
	case employees := <-sub.C:
		return employees
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscription delivery")
		return nil
	}
}
