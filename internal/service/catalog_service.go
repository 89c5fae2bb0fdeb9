package service

import (
	"context"
	"errors"
	"fmt"

	"go-color-catalog/internal/model"
	"go-color-catalog/internal/repository"
	"go-color-catalog/pkg/database"

	"gorm.io/gorm"
)

type ProductRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type CreateColorRequest struct {
	ProductID uint     `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required,notblank,max=255"`
	Price     *float64 `json:"price" validate:"required"`
	Currency  string   `json:"currency" validate:"required,notblank,max=64"`
}

type UpdateColorRequest struct {
	Name     string   `json:"name" validate:"required,notblank,max=255"`
	Price    *float64 `json:"price" validate:"required"`
	Currency string   `json:"currency" validate:"required,notblank,max=64"`
}

// CatalogService covers direct product and color maintenance. Unlike the
// importer, CreateColor does not deduplicate colors by name within a product.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	ListColors(ctx context.Context) ([]model.Color, error)
	CreateColor(ctx context.Context, req CreateColorRequest) (*model.Color, error)
	UpdateColor(ctx context.Context, id uint, req UpdateColorRequest) (*model.Color, error)
	DeleteColor(ctx context.Context, id uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	colorRepo   repository.ColorRepository
	db          *gorm.DB
	events      Publisher
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.ColorRepository, db *gorm.DB, events Publisher) CatalogService {
	if events == nil {
		events = noopPublisher{}
	}
	return &catalogService{
		productRepo: pRepo,
		colorRepo:   cRepo,
		db:          db,
		events:      events,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// Cheap check first; the unique index still catches concurrent creators.
	if _, err := s.productRepo.FindByName(ctx, req.Name); err == nil {
		return nil, ErrProductNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup product by name: %w", err)
	}

	product := &model.Product{Name: req.Name}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrProductNameTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.events.Publish(productEvent("product_created", product.ID, product.Name))
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		existing, err := products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if existing.Name != req.Name {
			other, err := products.FindByName(ctx, req.Name)
			if err == nil && other.ID != existing.ID {
				return ErrProductNameTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		existing.Name = req.Name
		if err := products.Update(ctx, existing); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrProductNameTaken
			}
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(productEvent("product_updated", updated.ID, updated.Name))
	return updated, nil
}

// DeleteProduct removes the product's colors and then the product in one transaction.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	var removed *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		existing, err := products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if _, err := s.colorRepo.WithTx(tx).DeleteByProductID(ctx, id); err != nil {
			return fmt.Errorf("delete colors: %w", err)
		}
		if err := products.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		removed = existing
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(productEvent("product_deleted", removed.ID, removed.Name))
	return nil
}

func (s *catalogService) ListColors(ctx context.Context) ([]model.Color, error) {
	return s.colorRepo.FindAll(ctx)
}

func (s *catalogService) CreateColor(ctx context.Context, req CreateColorRequest) (*model.Color, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	color := &model.Color{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Currency:  req.Currency,
	}
	if err := s.colorRepo.Create(ctx, color); err != nil {
		// The product was removed between the lookup and the insert.
		if database.IsForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("create color: %w", err)
	}

	s.events.Publish(colorEvent("color_created", color.ID, color.ProductID, color.Name, color.Price, color.Currency))
	return color, nil
}

func (s *catalogService) UpdateColor(ctx context.Context, id uint, req UpdateColorRequest) (*model.Color, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *model.Color
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		colors := s.colorRepo.WithTx(tx)

		existing, err := colors.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColorNotFound
			}
			return err
		}

		existing.Name = req.Name
		existing.Price = *req.Price
		existing.Currency = req.Currency
		if err := colors.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(colorEvent("color_updated", updated.ID, updated.ProductID, updated.Name, updated.Price, updated.Currency))
	return updated, nil
}

func (s *catalogService) DeleteColor(ctx context.Context, id uint) error {
	var removed *model.Color
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		colors := s.colorRepo.WithTx(tx)

		existing, err := colors.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColorNotFound
			}
			return err
		}
		if err := colors.Delete(ctx, id); err != nil {
			return err
		}
		removed = existing
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(colorEvent("color_deleted", removed.ID, removed.ProductID, removed.Name, removed.Price, removed.Currency))
	return nil
}
