package common

import (
	"errors"
	"net/http"

	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/identity"
	"hotlunchhub/internal/transport/httpserver/middleware"
)

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type authMeResponse struct {
	ID      string           `json:"id"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Role    string           `json:"role,omitempty"`
	Status  string           `json:"status,omitempty"`
	Profile *ProfileResponse `json:"profile"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if h.Identity == nil {
		writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
		return
	}

	session, err := h.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var providerErr *identity.ProviderError
		if errors.As(err, &providerErr) {
			h.log.BusinessError("auth.sign_in: rejected", err, "email", req.Email)
			status := providerErr.Status
			if status < 400 || status >= 500 {
				status = http.StatusBadRequest
			}
			writeError(w, status, "invalid_credentials", providerErr.Message)
			return
		}
		h.log.InternalError("auth.sign_in: failed", err, "email", req.Email)
		writeError(w, http.StatusBadGateway, "identity_unavailable", "identity provider unavailable")
		return
	}

	resp := signInResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
	}
	resp.User.ID = session.User.UserID
	resp.User.Email = session.User.Email
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var resp sessionResponse
	resp.AccessToken = caller.Token
	resp.User.ID = caller.UserID
	resp.User.Email = caller.Email
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	resp := authMeResponse{
		ID:     caller.UserID,
		Email:  caller.Email,
		Name:   caller.Name,
		Role:   string(caller.Role),
		Status: caller.Status,
	}

	profile, err := h.Users.GetProfile(r.Context(), caller.UserID)
	switch {
	case err == nil:
		p := NewProfileResponse(profile)
		resp.Profile = &p
	case errors.Is(err, usersdomain.ErrProfileNotFound):
	default:
		h.log.InternalError("auth.me: load profile failed", err, "user_id", caller.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AuthMeRecord returns the caller's row in the table of their role.
func (h *Handlers) AuthMeRecord(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	if !caller.HasProfile() {
		writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
		return
	}

	record, err := h.Users.GetRecordByUser(r.Context(), caller.Role, caller.UserID)
	if err != nil {
		if errors.Is(err, usersdomain.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record_not_found", "record not found")
			return
		}
		h.log.InternalError("auth.me_record: load record failed", err, "user_id", caller.UserID, "role", caller.Role)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, NewRecordResponse(record))
}
