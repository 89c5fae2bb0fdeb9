package repository

import (
	"context"

	"go-color-catalog/internal/model"

	"gorm.io/gorm"
)

type ColorRepository interface {
	WithTx(tx *gorm.DB) ColorRepository
	Create(ctx context.Context, color *model.Color) error
	FindAll(ctx context.Context) ([]model.Color, error)
	FindByID(ctx context.Context, id uint) (*model.Color, error)
	// FindByProductAndName matches name exactly (case-sensitive).
	FindByProductAndName(ctx context.Context, productID uint, name string) (*model.Color, error)
	Update(ctx context.Context, color *model.Color) error
	Delete(ctx context.Context, id uint) error
	DeleteByProductID(ctx context.Context, productID uint) (int64, error)
}

type colorRepo struct {
	db *gorm.DB
}

func NewColorRepo(db *gorm.DB) ColorRepository {
	return &colorRepo{db}
}

func (r *colorRepo) WithTx(tx *gorm.DB) ColorRepository {
	return &colorRepo{tx}
}

func (r *colorRepo) Create(ctx context.Context, color *model.Color) error {
	return r.db.WithContext(ctx).Create(color).Error
}

func (r *colorRepo) FindAll(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	err := r.db.WithContext(ctx).Order("id ASC").Find(&colors).Error
	return colors, err
}

func (r *colorRepo) FindByID(ctx context.Context, id uint) (*model.Color, error) {
	var color model.Color
	if err := r.db.WithContext(ctx).First(&color, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *colorRepo) FindByProductAndName(ctx context.Context, productID uint, name string) (*model.Color, error) {
	var color model.Color
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND name = ?", productID, name).
		First(&color).Error
	if err != nil {
		return nil, err
	}
	return &color, nil
}

// Update replaces every mutable field of the color.
func (r *colorRepo) Update(ctx context.Context, color *model.Color) error {
	return r.db.WithContext(ctx).Model(color).
		Select("name", "price", "currency").
		Updates(map[string]interface{}{
			"name":     color.Name,
			"price":    color.Price,
			"currency": color.Currency,
		}).Error
}

func (r *colorRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Color{}, id).Error
}

func (r *colorRepo) DeleteByProductID(ctx context.Context, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Color{})
	return res.RowsAffected, res.Error
}
