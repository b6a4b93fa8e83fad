package customer

import (
	"context"
	"errors"
	"fmt"

	"customer-registry/internal/pkg/apperrors"
)

var (
	ErrDuplicateAadhar = fmt.Errorf("%w: customer with this aadhar already exists", apperrors.ErrAlreadyExists)

	ErrNilCustomer = errors.New("customer cannot be nil")
)

// Repository is the storage gateway for customer records.
type Repository interface {
	// Initialize creates the customers table when it does not exist yet.
	Initialize(ctx context.Context) error

	// FindByAadhar returns nil, nil when no record carries aadhar.
	FindByAadhar(ctx context.Context, aadhar string) (*Customer, error)

	// Insert stores cust with its CreatedAt as given and sets cust.ID.
	// A duplicate aadhar yields an error wrapping apperrors.ErrAlreadyExists.
	Insert(ctx context.Context, cust *Customer) (int64, error)

	// ListAll returns every record, most recently created first.
	ListAll(ctx context.Context) ([]*Customer, error)

	Close() error
}
