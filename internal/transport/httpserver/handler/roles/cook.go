package roles

import (
	"net/http"

	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type cookMealRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gt=0"`
	IsSpecial   bool    `json:"is_special"`
}

type cookMealUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	IsSpecial   *bool    `json:"is_special"`
}

type advanceOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handlers) ListCookMeals(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}

	items, err := h.Meals.List(r.Context(), mealsdomain.Filter{CookID: &cookID})
	if err != nil {
		h.log.InternalError("cook.meals.list: failed", err, "cook_id", cookID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list meals")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.MealResponse]{Items: commonhandler.NewMealResponses(items)})
}

func (h *Handlers) CreateCookMeal(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}

	var req cookMealRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	meal, err := h.Meals.Create(r.Context(), mealsdomain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsSpecial:   req.IsSpecial,
		CookID:      &cookID,
	})
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "cook.meals.create", err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewMealResponse(meal))
}

func (h *Handlers) UpdateCookMeal(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}
	id, err := commonhandler.ParseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req cookMealUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	meal, err := h.Meals.UpdateOwned(r.Context(), cookID, id, mealsdomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsSpecial:   req.IsSpecial,
	})
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "cook.meals.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewMealResponse(meal))
}

func (h *Handlers) UploadCookMealImage(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}
	id, err := commonhandler.ParseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	upload, err := commonhandler.ReadImageUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_image", err.Error())
		return
	}
	defer upload.Body.Close()

	meal, err := h.Meals.AddOwnedImage(r.Context(), cookID, id, upload.ContentType, upload.Body)
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "cook.meals.upload_image", err, id)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewMealResponse(meal))
}

// ListCookOrders returns orders for the caller's meals, newest first.
func (h *Handlers) ListCookOrders(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}

	filter := ordersdomain.Filter{CookID: &cookID}
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
		h.log.InternalError("cook.orders.list: failed", err, "cook_id", cookID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.OrderResponse]{Items: commonhandler.NewOrderResponses(items)})
}

func (h *Handlers) AdvanceCookOrder(w http.ResponseWriter, r *http.Request) {
	cookID, ok := h.recordID(w, r, usersdomain.RoleCook)
	if !ok {
		return
	}

	var req advanceOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	status, ok := parseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown status")
		return
	}

	h.transition(w, r, "cook.orders.advance", status, ordersdomain.Actor{
		Role:     ordersdomain.ActorCook,
		RecordID: cookID,
	})
}
