package admin

import (
	"errors"
	"net/http"
	"strings"

	ordersdomain "hotlunchhub/internal/domain/orders"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

var errInvalidStatusFilter = errors.New("invalid status")

type createOrderRequest struct {
	EmployeeID   int64  `json:"employee_id" validate:"required,gt=0"`
	MealID       int64  `json:"meal_id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"omitempty,gte=1"`
	PlanType     string `json:"plan_type" validate:"omitempty,oneof=single weekly monthly"`
	DeliveryDate string `json:"delivery_date"`
	Notes        string `json:"notes" validate:"max=1000"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	items, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		h.log.InternalError("orders.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.OrderResponse]{Items: commonhandler.NewOrderResponses(items)})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteOrderError(w, h.log, "orders.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewOrderResponse(order))
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	deliveryDate, err := parseDateParam(req.DeliveryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "delivery_date must be YYYY-MM-DD")
		return
	}

	order, err := h.Orders.Create(r.Context(), ordersdomain.CreateInput{
		EmployeeID:   req.EmployeeID,
		MealID:       req.MealID,
		Quantity:     req.Quantity,
		PlanType:     req.PlanType,
		DeliveryDate: deliveryDate,
		Notes:        req.Notes,
	})
	if err != nil {
		commonhandler.WriteOrderError(w, h.log, "orders.create", err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewOrderResponse(order))
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req updateOrderStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	status, ok := ordersdomain.ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown status")
		return
	}

	order, err := h.Orders.Transition(r.Context(), id, status, ordersdomain.Actor{Role: ordersdomain.ActorAdmin})
	if err != nil {
		commonhandler.WriteOrderError(w, h.log, "orders.update_status", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewOrderResponse(order))
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := h.Orders.Delete(r.Context(), id); err != nil {
		commonhandler.WriteOrderError(w, h.log, "orders.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseOrderFilter(r *http.Request) (ordersdomain.Filter, error) {
	var filter ordersdomain.Filter

	if value := strings.TrimSpace(r.URL.Query().Get("status")); value != "" {
		status, ok := ordersdomain.ParseStatus(strings.ToLower(value))
		if !ok {
			return filter, errInvalidStatusFilter
		}
		filter.Status = &status
	}

	var err error
	if filter.EmployeeID, err = parseInt64Query(r, "employee_id"); err != nil {
		return filter, err
	}
	if filter.CompanyID, err = parseInt64Query(r, "company_id"); err != nil {
		return filter, err
	}
	if filter.CookID, err = parseInt64Query(r, "cook_id"); err != nil {
		return filter, err
	}
	if filter.MealID, err = parseInt64Query(r, "meal_id"); err != nil {
		return filter, err
	}
	return filter, nil
}
