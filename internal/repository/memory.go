package repository

import (
	"context"
	"strings"
	"sync"

	"sweetshop/internal/models"
)

// MemoryUserRepository is a map-backed UserRepository used by tests and as a
// zero-configuration fallback when no database is configured.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// MemorySweetRepository keeps sweets in insertion order. All quantity
// mutations run under the write lock, so check-then-act is atomic per call.
type MemorySweetRepository struct {
	mu     sync.RWMutex
	sweets []models.Sweet
}

func NewMemorySweetRepository() *MemorySweetRepository {
	return &MemorySweetRepository{}
}

func (r *MemorySweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sweets {
		if r.sweets[i].Name == sweet.Name {
			return ErrDuplicateName
		}
	}
	r.sweets = append(r.sweets, *sweet)
	return nil
}

func (r *MemorySweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrSweetNotFound
	}
	sweet := r.sweets[i]
	return &sweet, nil
}

func (r *MemorySweetRepository) FindAll(ctx context.Context) ([]models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Sweet, len(r.sweets))
	copy(out, r.sweets)
	return out, nil
}

func (r *MemorySweetRepository) Search(ctx context.Context, filter SweetFilter) ([]models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(filter.Name)
	out := []models.Sweet{}
	for i := range r.sweets {
		s := r.sweets[i]
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && s.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && s.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *MemorySweetRepository) Update(ctx context.Context, sweet *models.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(sweet.ID)
	if i < 0 {
		return ErrSweetNotFound
	}
	for j := range r.sweets {
		if j != i && r.sweets[j].Name == sweet.Name {
			return ErrDuplicateName
		}
	}
	r.sweets[i] = *sweet
	return nil
}

func (r *MemorySweetRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrSweetNotFound
	}
	r.sweets = append(r.sweets[:i], r.sweets[i+1:]...)
	return nil
}

func (r *MemorySweetRepository) DecrementQuantity(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, ErrSweetNotFound
	}
	if r.sweets[i].Quantity <= 0 {
		return 0, ErrOutOfStock
	}
	r.sweets[i].Quantity--
	return r.sweets[i].Quantity, nil
}

func (r *MemorySweetRepository) IncrementQuantity(ctx context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, ErrSweetNotFound
	}
	r.sweets[i].Quantity += delta
	return r.sweets[i].Quantity, nil
}

func (r *MemorySweetRepository) indexOf(id string) int {
	for i := range r.sweets {
		if r.sweets[i].ID == id {
			return i
		}
	}
	return -1
}
