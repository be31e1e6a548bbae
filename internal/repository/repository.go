package repository

import (
	"context"
	"errors"

	"sweetshop/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSweetNotFound  = errors.New("sweet not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateName  = errors.New("sweet name already exists")
	ErrOutOfStock     = errors.New("sweet is out of stock")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SweetFilter combines optional search criteria with AND semantics.
// Name matches as a case-insensitive substring; price bounds are inclusive.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type SweetRepository interface {
	Create(ctx context.Context, sweet *models.Sweet) error
	FindByID(ctx context.Context, id string) (*models.Sweet, error)
	FindAll(ctx context.Context) ([]models.Sweet, error)
	Search(ctx context.Context, filter SweetFilter) ([]models.Sweet, error)
	Update(ctx context.Context, sweet *models.Sweet) error
	Delete(ctx context.Context, id string) error

	// DecrementQuantity atomically decreases quantity by one and returns the
	// new value. It fails with ErrOutOfStock when quantity is already zero;
	// quantity never goes negative.
	DecrementQuantity(ctx context.Context, id string) (int, error)

	// IncrementQuantity atomically increases quantity by delta and returns
	// the new value.
	IncrementQuantity(ctx context.Context, id string, delta int) (int, error)
}
