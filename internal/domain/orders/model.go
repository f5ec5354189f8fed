package orders

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(value string) (Status, bool) {
	switch status := Status(value); status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

const (
	PlanSingle  = "single"
	PlanWeekly  = "weekly"
	PlanMonthly = "monthly"
)

type Order struct {
	ID           int64      `gorm:"primaryKey"`
	EmployeeID   int64      `gorm:"not null;index"`
	MealID       int64      `gorm:"not null;index"`
	CompanyID    *int64     `gorm:"index"`
	Status       Status     `gorm:"type:text;not null;default:'pending'"`
	Quantity     int        `gorm:"not null;default:1"`
	PlanType     string     `gorm:"not null;default:'single'"`
	DeliveryDate *time.Time `gorm:"type:date"`
	Notes        string     `gorm:"not null;default:''"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

type Filter struct {
	Status     *Status
	EmployeeID *int64
	CompanyID  *int64
	CookID     *int64
	MealID     *int64
}

type CreateInput struct {
	EmployeeID   int64
	MealID       int64
	Quantity     int
	PlanType     string
	DeliveryDate *time.Time
	Notes        string
}

// Actor is who asks for a status change. RecordID is the caller's row in
// the role table (cooks.id, employees.id, drivers.id); admins leave it zero.
type Actor struct {
	Role     string
	RecordID int64
}
