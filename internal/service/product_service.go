package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
)

// ProductRepository is the store interface the service consumes.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
}

// PromoBroadcaster announces new products to all users. May be nil.
type PromoBroadcaster interface {
	BroadcastPromotion(ctx context.Context, title, message, relatedID string) (int, error)
}

type ProductService struct {
	repo  ProductRepository
	promo PromoBroadcaster
	log   *slog.Logger
}

func NewProductService(repo ProductRepository, promo PromoBroadcaster, log *slog.Logger) *ProductService {
	return &ProductService{repo: repo, promo: promo, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create adds a product to the catalog and announces it to every user.
func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	now := time.Now().UTC()
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Ingredients: req.Ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	if s.promo != nil {
		message := fmt.Sprintf("Try our new %s for just $%.2f!", product.Name, product.Price)
		if _, err := s.promo.BroadcastPromotion(ctx, "New Item Available!", message, product.ID); err != nil {
			s.log.Error("new product broadcast failed", "product", product.ID, "error", err)
		}
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Image = req.Image
	product.Ingredients = req.Ingredients
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
