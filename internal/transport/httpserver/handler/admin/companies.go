package admin

import (
	"errors"
	"fmt"
	"net/http"

	companiesdomain "hotlunchhub/internal/domain/companies"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type createCompanyRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	LogoURL   string `json:"logo_url" validate:"omitempty,url"`
	LunchTime string `json:"lunch_time"`
	Address   string `json:"address" validate:"max=500"`
}

type updateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	LogoURL   *string `json:"logo_url"`
	LunchTime *string `json:"lunch_time"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

type companyReferencesResponse struct {
	Employees int64 `json:"employees"`
	Orders    int64 `json:"orders"`
}

func (h *Handlers) ListCompanies(w http.ResponseWriter, r *http.Request) {
	items, err := h.Companies.List(r.Context())
	if err != nil {
		h.log.InternalError("companies.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list companies")
		return
	}

	resp := make([]commonhandler.CompanyResponse, 0, len(items))
	for i := range items {
		resp = append(resp, commonhandler.NewCompanyResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.CompanyResponse]{Items: resp})
}

func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	company, err := h.Companies.Get(r.Context(), id)
	if err != nil {
		h.writeCompanyError(w, "companies.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewCompanyResponse(company))
}

func (h *Handlers) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	company, err := h.Companies.Create(r.Context(), companiesdomain.CreateInput{
		Name:      req.Name,
		LogoURL:   req.LogoURL,
		LunchTime: req.LunchTime,
		Address:   req.Address,
	})
	if err != nil {
		h.writeCompanyError(w, "companies.create", err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewCompanyResponse(company))
}

func (h *Handlers) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req updateCompanyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	company, err := h.Companies.Update(r.Context(), id, companiesdomain.UpdateInput{
		Name:      req.Name,
		LogoURL:   req.LogoURL,
		LunchTime: req.LunchTime,
		Address:   req.Address,
	})
	if err != nil {
		h.writeCompanyError(w, "companies.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewCompanyResponse(company))
}

// CompanyReferences reports how many employees and orders point at a company.
func (h *Handlers) CompanyReferences(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	refs, err := h.Companies.References(r.Context(), id)
	if err != nil {
		h.writeCompanyError(w, "companies.references", err, id)
		return
	}
	writeJSON(w, http.StatusOK, companyReferencesResponse{Employees: refs.Employees, Orders: refs.Orders})
}

func (h *Handlers) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := h.Companies.Delete(r.Context(), id); err != nil {
		h.writeCompanyError(w, "companies.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeCompanyError(w http.ResponseWriter, area string, err error, id int64) {
	switch {
	case errors.Is(err, companiesdomain.ErrCompanyNotFound):
		h.log.BusinessError(area+": not found", err, "company_id", id)
		writeError(w, http.StatusNotFound, "company_not_found", "company not found")
	case errors.Is(err, companiesdomain.ErrCompanyInUse):
		h.log.BusinessError(area+": in use", err, "company_id", id)
		writeError(w, http.StatusConflict, "company_in_use", err.Error())
	case errors.Is(err, companiesdomain.ErrInvalidInput):
		h.log.BusinessError(area+": invalid input", err, "company_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(area+": failed", err, "company_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("%s failed", area))
	}
}
