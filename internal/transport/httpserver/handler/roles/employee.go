package roles

import (
	"net/http"

	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type placeOrderRequest struct {
	MealID       int64  `json:"meal_id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"omitempty,gte=1"`
	PlanType     string `json:"plan_type" validate:"omitempty,oneof=single weekly monthly"`
	DeliveryDate string `json:"delivery_date"`
	Notes        string `json:"notes" validate:"max=1000"`
}

func (h *Handlers) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.recordID(w, r, usersdomain.RoleEmployee)
	if !ok {
		return
	}

	filter := ordersdomain.Filter{EmployeeID: &employeeID}
	if value := r.URL.Query().Get("status"); value != "" {
		status, ok := parseStatus(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_query", "invalid status")
			return
		}
		filter.Status = &status
	}

	items, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		h.log.InternalError("employee.orders.list: failed", err, "employee_id", employeeID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.OrderResponse]{Items: commonhandler.NewOrderResponses(items)})
}

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.recordID(w, r, usersdomain.RoleEmployee)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	deliveryDate, err := commonhandler.ParseDateParam(req.DeliveryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "delivery_date must be YYYY-MM-DD")
		return
	}

	order, err := h.Orders.Create(r.Context(), ordersdomain.CreateInput{
		EmployeeID:   employeeID,
		MealID:       req.MealID,
		Quantity:     req.Quantity,
		PlanType:     req.PlanType,
		DeliveryDate: deliveryDate,
		Notes:        req.Notes,
	})
	if err != nil {
		commonhandler.WriteOrderError(w, h.log, "employee.orders.create", err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewOrderResponse(order))
}

func (h *Handlers) CancelMyOrder(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.recordID(w, r, usersdomain.RoleEmployee)
	if !ok {
		return
	}
	h.transition(w, r, "employee.orders.cancel", ordersdomain.StatusCancelled, ordersdomain.Actor{
		Role:     ordersdomain.ActorEmployee,
		RecordID: employeeID,
	})
}
