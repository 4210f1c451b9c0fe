package repository

import "github.com/mrk-foods/cardsysbackend/models"

// EmployeeStore defines the persistence contract for employee records.
// Implemented by EmployeeRepository; handlers and services depend on this
// interface so tests can substitute a fake store.
type EmployeeStore interface {
	ListAll() ([]models.Employee, error)
	GetByID(id string) (*models.Employee, error)
	Put(employee *models.Employee) error
	Delete(id string) error
	Watch() *Subscription
}
