package repository

import (
	"sync"

	"github.com/mrk-foods/cardsysbackend/models"
)

// Subscription is a standing watch over the employee list. Each delivery on
// C is the full list in creation order. The owner must call Cancel before
// discarding or replacing the subscription.
type Subscription struct {
	C chan []models.Employee

	cancel func()
	once   sync.Once
}

// NewSubscription builds a subscription around an optional detach callback.
// Stores other than EmployeeRepository (fakes in tests) use this to satisfy
// the EmployeeStore interface.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{
		C:      make(chan []models.Employee, 1),
		cancel: cancel,
	}
}

// Watch registers a new subscription. The current list is delivered
// immediately, then re-delivered after every Put or Delete.
func (r *EmployeeRepository) Watch() *Subscription {
	var sub *Subscription
	sub = NewSubscription(func() {
		r.mu.Lock()
		delete(r.subs, sub)
		r.mu.Unlock()
	})

	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()

	if employees, err := r.ListAll(); err == nil {
		sub.Deliver(employees)
	}
	return sub
}

// Cancel detaches the subscription from its store and closes C.
// Cancelling twice is safe.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.C)
	})
}

// Deliver replaces any undrained snapshot with the latest one so a stalled
// consumer never blocks a write.
func (s *Subscription) Deliver(employees []models.Employee) {
	select {
	case s.C <- employees:
	default:
		select {
		case <-s.C:
		default:
		}
		select {
		case s.C <- employees:
		default:
		}
	}
}
