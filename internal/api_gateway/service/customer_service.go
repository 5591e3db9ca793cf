package service

import (
	"context"

	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// CustomerServiceImpl implements the CustomerService interface
type CustomerServiceImpl struct {
	customerRepo    customer.Repository
	transactionRepo transaction.Repository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo customer.Repository, transactionRepo transaction.Repository) CustomerService {
	return &CustomerServiceImpl{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
	}
}

// GetBalance retrieves a customer by ID, returns ErrCustomerNotFound if not found
func (s *CustomerServiceImpl) GetBalance(ctx context.Context, customerID string) (*customer.Customer, error) {
	return s.customerRepo.GetByID(ctx, customerID)
}

// GetTransactions retrieves a paginated list of a customer's ledger records
// Returns records, total count, and any error
func (s *CustomerServiceImpl) GetTransactions(ctx context.Context, customerID string, page, perPage int) ([]*transaction.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.transactionRepo.ListByCustomer(ctx, customerID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
