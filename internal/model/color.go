package model

// Color is a priced variant of a Product. (product_id, name) is not unique at
// the schema level; only the importer deduplicates on it.
type Color struct {
	BaseModel
	ProductID uint    `gorm:"not null;index:idx_colors_product_name,priority:1" json:"product_id"`
	Name      string  `gorm:"type:varchar(255);not null;index:idx_colors_product_name,priority:2" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Currency  string  `gorm:"type:varchar(64);not null" json:"currency"`
}

func (Color) TableName() string {
	return "colors"
}

type ColorResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	ProductID uint    `json:"product_id"`
}

func (c *Color) ToResponse() ColorResponse {
	return ColorResponse{
		ID:        c.ID,
		Name:      c.Name,
		Price:     c.Price,
		Currency:  c.Currency,
		ProductID: c.ProductID,
	}
}
