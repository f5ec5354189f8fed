package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url"`
	LunchTime string    `json:"lunch_time"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompanyInput struct {
	Name      *string `json:"name,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty"`
	LunchTime *string `json:"lunch_time,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type CompanyReferences struct {
	Employees int64 `json:"employees"`
	Orders    int64 `json:"orders"`
}

type Meal struct {
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

type MealInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsSpecial   *bool    `json:"is_special,omitempty"`
	CookID      *int64   `json:"cook_id,omitempty"`
}

type Order struct {
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

type OrderInput struct {
	EmployeeID   int64  `json:"employee_id"`
	MealID       int64  `json:"meal_id"`
	Quantity     int    `json:"quantity,omitempty"`
	PlanType     string `json:"plan_type,omitempty"`
	DeliveryDate string `json:"delivery_date,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type OrderFilter struct {
	Status     string
	EmployeeID int64
	CompanyID  int64
	CookID     int64
	MealID     int64
}

func (f OrderFilter) values() url.Values {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	setID := func(key string, value int64) {
		if value > 0 {
			query.Set(key, strconv.FormatInt(value, 10))
		}
	}
	setID("employee_id", f.EmployeeID)
	setID("company_id", f.CompanyID)
	setID("cook_id", f.CookID)
	setID("meal_id", f.MealID)
	return query
}

// Record is a row of admins, cooks, drivers or employees.
type Record struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	AdminCode    string    `json:"admin_code,omitempty"`
	EmployeeCode string    `json:"employee_code,omitempty"`
	CompanyID    *int64    `json:"company_id,omitempty"`
	AddressLine1 string    `json:"address_line1,omitempty"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	PictureURL   string    `json:"picture_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecordPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AdminCode    *string `json:"admin_code,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	CompanyID    *int64  `json:"company_id,omitempty"`
	ClearCompany bool    `json:"clear_company,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	PictureURL   *string `json:"picture_url,omitempty"`
}

type Profile struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type list[T any] struct {
	Items []T `json:"items"`
}

type CompaniesAPI struct {
	c *Client
}

func (a *CompaniesAPI) List(ctx context.Context) ([]Company, error) {
	var out list[Company]
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/companies", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (a *CompaniesAPI) Get(ctx context.Context, id int64) (*Company, error) {
	var out Company
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/companies/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CompaniesAPI) Create(ctx context.Context, input CompanyInput) (*Company, error) {
	var out Company
	if err := a.c.doJSON(ctx, http.MethodPost, "/api/companies", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CompaniesAPI) Update(ctx context.Context, id int64, input CompanyInput) (*Company, error) {
	var out Company
	if err := a.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/companies/%d", id), nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete goes through the REST API, which refuses while the company is referenced.
func (a *CompaniesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/companies/%d", id), nil, nil, nil)
}

func (a *CompaniesAPI) References(ctx context.Context, id int64) (*CompanyReferences, error) {
	var out CompanyReferences
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/companies/%d/references", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type MealsAPI struct {
	c *Client
}

func (a *MealsAPI) List(ctx context.Context, cookID int64, specialOnly bool) ([]Meal, error) {
	query := url.Values{}
	if cookID > 0 {
		query.Set("cook_id", strconv.FormatInt(cookID, 10))
	}
	if specialOnly {
		query.Set("special", "true")
	}

	var out list[Meal]
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/meals", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (a *MealsAPI) Get(ctx context.Context, id int64) (*Meal, error) {
	var out Meal
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/meals/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *MealsAPI) Create(ctx context.Context, input MealInput) (*Meal, error) {
	var out Meal
	if err := a.c.doJSON(ctx, http.MethodPost, "/api/meals", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *MealsAPI) Update(ctx context.Context, id int64, input MealInput) (*Meal, error) {
	var out Meal
	if err := a.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/meals/%d", id), nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *MealsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/meals/%d", id), nil, nil, nil)
}

// UploadImage sends the raw image bytes; the server stores them under meals/<id>/.
func (a *MealsAPI) UploadImage(ctx context.Context, id int64, contentType string, body io.Reader) (*Meal, error) {
	req, err := a.c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/meals/%d/images", id), nil, body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out Meal
	if err := a.c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type OrdersAPI struct {
	c *Client
}

func (a *OrdersAPI) List(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var out list[Order]
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/orders", filter.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (a *OrdersAPI) Get(ctx context.Context, id int64) (*Order, error) {
	var out Order
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *OrdersAPI) Create(ctx context.Context, input OrderInput) (*Order, error) {
	var out Order
	if err := a.c.doJSON(ctx, http.MethodPost, "/api/orders", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *OrdersAPI) UpdateStatus(ctx context.Context, id int64, status string) (*Order, error) {
	var out Order
	payload := map[string]string{"status": status}
	if err := a.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *OrdersAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", id), nil, nil, nil)
}

type RecordsAPI struct {
	c    *Client
	role string
}

func (a *RecordsAPI) List(ctx context.Context) ([]Record, error) {
	var out list[Record]
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/records/"+url.PathEscape(a.role), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (a *RecordsAPI) Get(ctx context.Context, id int64) (*Record, error) {
	var out Record
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/records/%s/%d", url.PathEscape(a.role), id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RecordsAPI) Update(ctx context.Context, id int64, patch RecordPatch) (*Record, error) {
	var out Record
	if err := a.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/records/%s/%d", url.PathEscape(a.role), id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ProfilesAPI struct {
	c *Client
}

func (a *ProfilesAPI) Get(ctx context.Context, id string) (*Profile, error) {
	var out Profile
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ProfilesAPI) UpdateStatus(ctx context.Context, id, status string) (*Profile, error) {
	var out Profile
	payload := map[string]string{"status": status}
	if err := a.c.doJSON(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(id)+"/status", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
