package customer

import "context"

// Repository manages customer balance persistence
type Repository interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
	// ApplyPointDelta atomically increments the customer's balance. It must
	// use the store's native increment primitive so concurrent transactions
	// for the same customer never lose updates.
	ApplyPointDelta(ctx context.Context, id string, delta int64) error
	// GetNames resolves customer ids to display names for hydration of
	// query responses. Unknown ids are simply absent from the result.
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
}

// ErrCustomerNotFound indicates a missing customer record
type ErrCustomerNotFound struct {
	CustomerID string
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID
}

// Is implements the errors.Is interface for ErrCustomerNotFound
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	if t.CustomerID == "" {
		return true
	}
	return e.CustomerID == t.CustomerID
}
