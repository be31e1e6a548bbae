package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SweetService is the single authoritative implementation of the inventory
// operations. Role checks happen at the router; the service receives the
// acting user's id explicitly where it needs it.
type SweetService struct {
	sweets repository.SweetRepository
	logger zerolog.Logger
}

func NewSweetService(sweets repository.SweetRepository, logger zerolog.Logger) *SweetService {
	return &SweetService{
		sweets: sweets,
		logger: logger,
	}
}

func (s *SweetService) Create(ctx context.Context, createdBy string, req *models.CreateSweetRequest) (*models.Sweet, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	quantity := 0
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
		}
		quantity = *req.Quantity
	}

	now := time.Now()
	sweet := &models.Sweet{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     *req.Price,
		Quantity:  quantity,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sweets.Create(ctx, sweet); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Error creating sweet")
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}

	s.logger.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Msg("Sweet created")
	return sweet, nil
}

func (s *SweetService) List(ctx context.Context) ([]models.Sweet, error) {
	sweets, err := s.sweets.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing sweets")
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return sweets, nil
}

func (s *SweetService) Search(ctx context.Context, filter repository.SweetFilter) ([]models.Sweet, error) {
	sweets, err := s.sweets.Search(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error searching sweets")
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	return sweets, nil
}

func (s *SweetService) Update(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, error) {
	sweet, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(err, "Error fetching sweet", id)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		sweet.Name = *req.Name
	}
	if req.Category != nil {
		if *req.Category == "" {
			return nil, fmt.Errorf("%w: category must not be empty", ErrValidation)
		}
		sweet.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		sweet.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
		}
		sweet.Quantity = *req.Quantity
	}
	sweet.UpdatedAt = time.Now()

	if err := s.sweets.Update(ctx, sweet); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) || errors.Is(err, repository.ErrSweetNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("sweet_id", id).Msg("Error updating sweet")
		return nil, fmt.Errorf("failed to update sweet: %w", err)
	}

	s.logger.Info().Str("sweet_id", sweet.ID).Msg("Sweet updated")
	return sweet, nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.sweets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("sweet_id", id).Msg("Error deleting sweet")
		return fmt.Errorf("failed to delete sweet: %w", err)
	}

	s.logger.Info().Str("sweet_id", id).Msg("Sweet deleted")
	return nil
}

// Purchase decrements quantity by one. The decrement is atomic per sweet, so
// concurrent purchases observe the pre-decrement quantity and the counter
// never goes negative.
func (s *SweetService) Purchase(ctx context.Context, id string) (*models.Sweet, error) {
	remaining, err := s.sweets.DecrementQuantity(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) || errors.Is(err, repository.ErrOutOfStock) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("sweet_id", id).Msg("Error purchasing sweet")
		return nil, fmt.Errorf("failed to purchase sweet: %w", err)
	}

	sweet, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(err, "Error fetching sweet after purchase", id)
	}
	sweet.Quantity = remaining

	s.logger.Info().Str("sweet_id", id).Int("remaining", remaining).Msg("Sweet purchased")
	return sweet, nil
}

func (s *SweetService) Restock(ctx context.Context, id string, delta int) (*models.Sweet, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}

	quantity, err := s.sweets.IncrementQuantity(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("sweet_id", id).Msg("Error restocking sweet")
		return nil, fmt.Errorf("failed to restock sweet: %w", err)
	}

	sweet, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(err, "Error fetching sweet after restock", id)
	}
	sweet.Quantity = quantity

	s.logger.Info().Str("sweet_id", id).Int("quantity", quantity).Msg("Sweet restocked")
	return sweet, nil
}

func (s *SweetService) repoError(err error, msg, id string) error {
	if errors.Is(err, repository.ErrSweetNotFound) {
		return err
	}
	s.logger.Error().Err(err).Str("sweet_id", id).Msg(msg)
	return fmt.Errorf("database error: %w", err)
}
