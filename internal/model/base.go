package model

import "time"

// BaseModel carries the auto-increment identity and GORM-managed timestamps.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
