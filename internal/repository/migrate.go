package repository

import (
	"go-color-catalog/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the products and colors tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{}, &model.Color{})
}
