package functions

import (
	"net/http"
	"strings"

	usersdomain "hotlunchhub/internal/domain/users"
)

const idempotencyHeader = "Idempotency-Key"

type createUserRequest struct {
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	AdminCode    string     `json:"admin_code"`
	EmployeeCode string     `json:"employee_code"`
	CompanyID    flexibleID `json:"company_id"`
	Phone        string     `json:"phone"`
	AddressLine1 string     `json:"address_line1"`
	AddressLine2 string     `json:"address_line2"`
	City         string     `json:"city"`
	PostalCode   string     `json:"postal_code"`
	PictureURL   string     `json:"picture_url"`
}

type createUserResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// CreateUser answers 400 for every failure, including upstream ones.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.Users.CreateUser(r.Context(), usersdomain.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Attributes: usersdomain.Attributes{
			AdminCode:    req.AdminCode,
			EmployeeCode: req.EmployeeCode,
			CompanyID:    req.CompanyID.Ptr(),
			Phone:        req.Phone,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			PostalCode:   req.PostalCode,
			PictureURL:   req.PictureURL,
		},
		IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyHeader)),
	})
	if err != nil {
		if usersdomain.IsValidation(err) {
			h.log.BusinessError("functions.create_user: invalid input", err, "email", req.Email, "role", req.Role)
		} else {
			step, _ := usersdomain.StepOf(err)
			h.log.InternalError("functions.create_user: failed", err, "email", req.Email, "role", req.Role, "step", step)
		}
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, createUserResponse{
		Success: true,
		UserID:  result.UserID,
		Message: result.Message,
	})
}
