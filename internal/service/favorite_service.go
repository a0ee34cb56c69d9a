package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
)

var (
	ErrAlreadyFavorite  = errors.New("product already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteRepository is the store interface the service consumes.
type FavoriteRepository interface {
	Insert(ctx context.Context, f *model.Favorite) error
	Delete(ctx context.Context, userID, productID string) error
	FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
}

type FavoriteService struct {
	repo     FavoriteRepository
	products ProductLookup
}

func NewFavoriteService(repo FavoriteRepository, products ProductLookup) *FavoriteService {
	return &FavoriteService{repo: repo, products: products}
}

// Add marks a product as a favorite of the user. The compound unique index
// rejects duplicates.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) (*model.Favorite, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	favorite := &model.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyFavorite
		}
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	err := s.repo.Delete(ctx, userID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return s.repo.FindByUser(ctx, userID)
}
