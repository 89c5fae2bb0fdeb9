package model

type Product struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`

	// Owned variants; removed together with the product.
	Colors []Color `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
}

func (Product) TableName() string {
	return "products"
}

// ProductResponse is the list shape: colors nested, without product_id.
type ProductResponse struct {
	ID     uint                  `json:"id"`
	Name   string                `json:"name"`
	Colors []ProductColorSummary `json:"colors"`
}

type ProductColorSummary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// ToResponse converts Product to ProductResponse. Colors is never nil.
func (p *Product) ToResponse() ProductResponse {
	colors := make([]ProductColorSummary, 0, len(p.Colors))
	for _, c := range p.Colors {
		colors = append(colors, ProductColorSummary{
			ID:       c.ID,
			Name:     c.Name,
			Price:    c.Price,
			Currency: c.Currency,
		})
	}
	return ProductResponse{ID: p.ID, Name: p.Name, Colors: colors}
}
