// Package roles serves the self-service routes of employees, cooks and
// drivers. Every handler acts on the caller's own role record.
package roles

import (
	"errors"
	"net/http"
	"strings"

	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
	"hotlunchhub/internal/transport/httpserver/middleware"
	"hotlunchhub/pkg/logger"
)

type Handlers struct {
	Meals  *mealsdomain.Service
	Orders *ordersdomain.Service
	Users  *usersdomain.Service
	log    logger.Logger
}

func New(meals *mealsdomain.Service, orders *ordersdomain.Service, users *usersdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Meals:  meals,
		Orders: orders,
		Users:  users,
		log:    log,
	}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// recordID resolves the caller's row id in the table of role.
func (h *Handlers) recordID(w http.ResponseWriter, r *http.Request, role usersdomain.Role) (int64, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return 0, false
	}

	record, err := h.Users.GetRecordByUser(r.Context(), role, caller.UserID)
	if err != nil {
		if errors.Is(err, usersdomain.ErrRecordNotFound) {
			h.log.BusinessError("roles.resolve: record not found", err, "user_id", caller.UserID, "role", role)
			writeError(w, http.StatusForbidden, "record_not_found", "no "+string(role)+" record for this user")
			return 0, false
		}
		h.log.InternalError("roles.resolve: load record failed", err, "user_id", caller.UserID, "role", role)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return 0, false
	}
	return record.RecordID(), true
}

func (h *Handlers) transition(w http.ResponseWriter, r *http.Request, area string, to ordersdomain.Status, actor ordersdomain.Actor) {
	id, err := commonhandler.ParseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.Orders.Transition(r.Context(), id, to, actor)
	if err != nil {
		commonhandler.WriteOrderError(w, h.log, area, err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewOrderResponse(order))
}

func parseStatus(value string) (ordersdomain.Status, bool) {
	return ordersdomain.ParseStatus(strings.ToLower(strings.TrimSpace(value)))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeAndValidate(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeAndValidate(r, dst)
}
