package roles

import (
	"net/http"

	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

// ListDriverOrders defaults to orders that are ready for pickup.
func (h *Handlers) ListDriverOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.recordID(w, r, usersdomain.RoleDriver); !ok {
		return
	}

	status := ordersdomain.StatusReady
	if value := r.URL.Query().Get("status"); value != "" {
		parsed, ok := parseStatus(value)
		if !ok || (parsed != ordersdomain.StatusReady && parsed != ordersdomain.StatusDelivered) {
			writeError(w, http.StatusBadRequest, "invalid_query", "status must be ready or delivered")
			return
		}
		status = parsed
	}

	companyID, err := commonhandler.ParseInt64Query(r, "company_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	items, err := h.Orders.List(r.Context(), ordersdomain.Filter{Status: &status, CompanyID: companyID})
	if err != nil {
		h.log.InternalError("driver.orders.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.OrderResponse]{Items: commonhandler.NewOrderResponses(items)})
}

func (h *Handlers) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	driverID, ok := h.recordID(w, r, usersdomain.RoleDriver)
	if !ok {
		return
	}
	h.transition(w, r, "driver.orders.deliver", ordersdomain.StatusDelivered, ordersdomain.Actor{
		Role:     ordersdomain.ActorDriver,
		RecordID: driverID,
	})
}
