package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	usersdomain "hotlunchhub/internal/domain/users"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type updateRecordRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	AdminCode    *string `json:"admin_code"`
	EmployeeCode *string `json:"employee_code"`
	CompanyID    *int64  `json:"company_id" validate:"omitempty,gt=0"`
	ClearCompany bool    `json:"clear_company"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postal_code"`
	PictureURL   *string `json:"picture_url"`
}

type updateProfileStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	role, ok := parseRole(w, r)
	if !ok {
		return
	}

	records, err := h.Users.ListRecords(r.Context(), role)
	if err != nil {
		h.writeRecordError(w, "records.list", err, role, 0)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.RecordResponse]{Items: commonhandler.NewRecordResponses(records)})
}

func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	record, err := h.Users.GetRecord(r.Context(), role, id)
	if err != nil {
		h.writeRecordError(w, "records.get", err, role, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewRecordResponse(record))
}

func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req updateRecordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := h.Users.UpdateRecord(r.Context(), role, id, usersdomain.RecordPatch{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		AdminCode:    req.AdminCode,
		EmployeeCode: req.EmployeeCode,
		CompanyID:    req.CompanyID,
		ClearCompany: req.ClearCompany,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		PostalCode:   req.PostalCode,
		PictureURL:   req.PictureURL,
	})
	if err != nil {
		h.writeRecordError(w, "records.update", err, role, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewRecordResponse(record))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	profile, err := h.Users.GetProfile(r.Context(), id)
	if err != nil {
		h.writeProfileError(w, "profiles.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewProfileResponse(profile))
}

// UpdateProfileStatus activates or deactivates a user. Inactive users keep
// their session but are refused by every role-gated route.
func (h *Handlers) UpdateProfileStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	var req updateProfileStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := h.Users.UpdateProfileStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeProfileError(w, "profiles.update_status", err, id)
		return
	}
	if h.profiles != nil {
		h.profiles.Forget(id)
	}
	writeJSON(w, http.StatusOK, commonhandler.NewProfileResponse(profile))
}

func parseRole(w http.ResponseWriter, r *http.Request) (usersdomain.Role, bool) {
	role, ok := usersdomain.ParseRole(strings.ToLower(strings.TrimSpace(chi.URLParam(r, "role"))))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be admin, cook, driver or employee")
		return "", false
	}
	return role, true
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a uuid")
		return "", false
	}
	return id.String(), true
}

func (h *Handlers) writeRecordError(w http.ResponseWriter, area string, err error, role usersdomain.Role, id int64) {
	switch {
	case errors.Is(err, usersdomain.ErrRecordNotFound):
		h.log.BusinessError(area+": not found", err, "role", role, "record_id", id)
		writeError(w, http.StatusNotFound, "record_not_found", "record not found")
	case errors.Is(err, usersdomain.ErrNothingToUpdate), usersdomain.IsValidation(err):
		h.log.BusinessError(area+": invalid input", err, "role", role, "record_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(area+": failed", err, "role", role, "record_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (h *Handlers) writeProfileError(w http.ResponseWriter, area string, err error, id string) {
	switch {
	case errors.Is(err, usersdomain.ErrProfileNotFound):
		h.log.BusinessError(area+": not found", err, "user_id", id)
		writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
	case errors.Is(err, usersdomain.ErrInvalidStatus):
		h.log.BusinessError(area+": invalid status", err, "user_id", id)
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	default:
		h.log.InternalError(area+": failed", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
