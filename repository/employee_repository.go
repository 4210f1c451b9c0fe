package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrk-foods/cardsysbackend/models"
)

// EmployeeRepository handles database operations for Employee records and
// fans out the full, creation-ordered record list to watchers after every
// write.
type EmployeeRepository struct {
	DB *gorm.DB

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{
		DB:   db,
		subs: make(map[*Subscription]struct{}),
	}
}

// ListAll retrieves all employees in creation order
func (r *EmployeeRepository) ListAll() ([]models.Employee, error) {
	var employees []models.Employee
	err := r.DB.Order("created_at ASC, id ASC").Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// GetByID retrieves an employee by their opaque ID. Lookups are exact-match
// only; a missing ID yields gorm.ErrRecordNotFound.
func (r *EmployeeRepository) GetByID(id string) (*models.Employee, error) {
	var employee models.Employee
	err := r.DB.First(&employee, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee by ID %s: %w", id, err)
	}
	return &employee, nil
}

// Put creates the employee if absent, otherwise overwrites every field of
// the stored record. Callers are expected to pass a fully merged record so
// an update never drops an existing asset URL.
func (r *EmployeeRepository) Put(employee *models.Employee) error {
	err := r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(employee).Error
	if err != nil {
		return fmt.Errorf("failed to save employee %s: %w", employee.ID, err)
	}
	r.notify()
	return nil
}

// Delete removes an employee by ID. Deleting a missing ID is not an error.
func (r *EmployeeRepository) Delete(id string) error {
	result := r.DB.Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete employee ID %s: %w", id, result.Error)
	}
	if result.RowsAffected > 0 {
		r.notify()
	}
	return nil
}

// notify re-delivers the full ordered list to every active subscription.
// Slow consumers only ever see the latest snapshot; intermediate ones are
// dropped.
func (r *EmployeeRepository) notify() {
	employees, err := r.ListAll()
	if err != nil {
		log.Printf("repository: failed to load employees for watchers: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for sub := range r.subs {
		sub.Deliver(employees)
	}
}
