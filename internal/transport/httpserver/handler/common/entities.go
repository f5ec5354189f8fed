package common

import (
	"time"

	companiesdomain "hotlunchhub/internal/domain/companies"
	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
)

type CompanyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url"`
	LunchTime string    `json:"lunch_time"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompanyResponse(company *companiesdomain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		LogoURL:   company.LogoURL,
		LunchTime: company.LunchTime,
		Address:   company.Address,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}

type MealResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsSpecial   bool      `json:"is_special"`
	CookID      *int64    `json:"cook_id"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewMealResponse(meal *mealsdomain.Meal) MealResponse {
	urls := make([]string, 0, len(meal.ImageURLs))
	urls = append(urls, meal.ImageURLs...)
	return MealResponse{
		ID:          meal.ID,
		Name:        meal.Name,
		Description: meal.Description,
		Price:       meal.Price,
		IsSpecial:   meal.IsSpecial,
		CookID:      meal.CookID,
		ImageURLs:   urls,
		CreatedAt:   meal.CreatedAt,
		UpdatedAt:   meal.UpdatedAt,
	}
}

func NewMealResponses(meals []mealsdomain.Meal) []MealResponse {
	items := make([]MealResponse, 0, len(meals))
	for i := range meals {
		items = append(items, NewMealResponse(&meals[i]))
	}
	return items
}

type OrderResponse struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	MealID       int64     `json:"meal_id"`
	CompanyID    *int64    `json:"company_id"`
	Status       string    `json:"status"`
	Quantity     int       `json:"quantity"`
	PlanType     string    `json:"plan_type"`
	DeliveryDate *string   `json:"delivery_date"`
	Notes        string    `json:"notes"`
	NextStatuses []string  `json:"next_statuses"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewOrderResponse(order *ordersdomain.Order) OrderResponse {
	next := ordersdomain.NextStatuses(order.Status)
	nextStatuses := make([]string, 0, len(next))
	for _, status := range next {
		nextStatuses = append(nextStatuses, string(status))
	}
	return OrderResponse{
		ID:           order.ID,
		EmployeeID:   order.EmployeeID,
		MealID:       order.MealID,
		CompanyID:    order.CompanyID,
		Status:       string(order.Status),
		Quantity:     order.Quantity,
		PlanType:     order.PlanType,
		DeliveryDate: FormatDate(order.DeliveryDate),
		Notes:        order.Notes,
		NextStatuses: nextStatuses,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func NewOrderResponses(orders []ordersdomain.Order) []OrderResponse {
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, NewOrderResponse(&orders[i]))
	}
	return items
}
