package companies

import "time"

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	LogoURL   string    `gorm:"column:logo_url;not null;default:''"`
	LunchTime string    `gorm:"not null;default:'12:00'"`
	Address   string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	Name      string
	LogoURL   string
	LunchTime string
	Address   string
}

type UpdateInput struct {
	Name      *string
	LogoURL   *string
	LunchTime *string
	Address   *string
}

// References counts the rows that point at a company.
type References struct {
	Employees int64
	Orders    int64
}
