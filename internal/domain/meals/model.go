package meals

import (
	"time"

	"gorm.io/datatypes"
)

type Meal struct {
	ID          int64                       `gorm:"primaryKey"`
	Name        string                      `gorm:"not null"`
	Description string                      `gorm:"not null;default:''"`
	Price       float64                     `gorm:"type:numeric(10,2);not null"`
	IsSpecial   bool                        `gorm:"not null;default:false"`
	CookID      *int64                      `gorm:"index"`
	ImageURLs   datatypes.JSONSlice[string] `gorm:"column:image_urls"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

type Filter struct {
	CookID      *int64
	SpecialOnly bool
}

type CreateInput struct {
	Name        string
	Description string
	Price       float64
	IsSpecial   bool
	CookID      *int64
}

type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	IsSpecial   *bool
	CookID      *int64
}
