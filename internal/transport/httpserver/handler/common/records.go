package common

import (
	"time"

	usersdomain "hotlunchhub/internal/domain/users"
)

type ProfileResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProfileResponse(profile *usersdomain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID,
		Role:      string(profile.Role),
		Name:      profile.Name,
		Email:     profile.Email,
		Status:    profile.Status,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// RecordResponse is the wire shape of every role record. Fields a role does
// not have are omitted.
type RecordResponse struct {
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

func NewRecordResponse(record usersdomain.RoleRecord) RecordResponse {
	resp := RecordResponse{
		ID:     record.RecordID(),
		UserID: record.OwnerID(),
		Role:   string(record.RecordRole()),
	}

	switch r := record.(type) {
	case *usersdomain.Admin:
		resp.Name = r.Name
		resp.Email = r.Email
		resp.AdminCode = r.AdminCode
		resp.CreatedAt = r.CreatedAt
	case *usersdomain.Cook:
		resp.Name = r.Name
		resp.Email = r.Email
		resp.Phone = r.Phone
		resp.AddressLine1 = r.AddressLine1
		resp.AddressLine2 = r.AddressLine2
		resp.City = r.City
		resp.PostalCode = r.PostalCode
		resp.PictureURL = r.PictureURL
		resp.CreatedAt = r.CreatedAt
	case *usersdomain.Driver:
		resp.Name = r.Name
		resp.Email = r.Email
		resp.Phone = r.Phone
		resp.PictureURL = r.PictureURL
		resp.CreatedAt = r.CreatedAt
	case *usersdomain.Employee:
		resp.Name = r.Name
		resp.Email = r.Email
		resp.Phone = r.Phone
		resp.EmployeeCode = r.EmployeeCode
		resp.CompanyID = r.CompanyID
		resp.CreatedAt = r.CreatedAt
	}
	return resp
}

func NewRecordResponses(records []usersdomain.RoleRecord) []RecordResponse {
	items := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, NewRecordResponse(record))
	}
	return items
}
