package admin

import (
	"net/http"

	mealsdomain "hotlunchhub/internal/domain/meals"
	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type createMealRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gt=0"`
	IsSpecial   bool    `json:"is_special"`
	CookID      *int64  `json:"cook_id" validate:"omitempty,gt=0"`
}

type updateMealRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	IsSpecial   *bool    `json:"is_special"`
	CookID      *int64   `json:"cook_id" validate:"omitempty,gt=0"`
}

func (h *Handlers) ListMeals(w http.ResponseWriter, r *http.Request) {
	cookID, err := parseInt64Query(r, "cook_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	specialOnly, err := commonhandler.ParseBoolQuery(r, "special")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	items, err := h.Meals.List(r.Context(), mealsdomain.Filter{CookID: cookID, SpecialOnly: specialOnly})
	if err != nil {
		h.log.InternalError("meals.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list meals")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[commonhandler.MealResponse]{Items: commonhandler.NewMealResponses(items)})
}

func (h *Handlers) GetMeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	meal, err := h.Meals.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "meals.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewMealResponse(meal))
}

func (h *Handlers) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req createMealRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	meal, err := h.Meals.Create(r.Context(), mealsdomain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsSpecial:   req.IsSpecial,
		CookID:      req.CookID,
	})
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "meals.create", err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewMealResponse(meal))
}

func (h *Handlers) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req updateMealRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	meal, err := h.Meals.Update(r.Context(), id, mealsdomain.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsSpecial:   req.IsSpecial,
		CookID:      req.CookID,
	})
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "meals.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.NewMealResponse(meal))
}

func (h *Handlers) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := h.Meals.Delete(r.Context(), id); err != nil {
		commonhandler.WriteMealError(w, h.log, "meals.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadMealImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
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

	meal, err := h.Meals.AddImage(r.Context(), id, upload.ContentType, upload.Body)
	if err != nil {
		commonhandler.WriteMealError(w, h.log, "meals.upload_image", err, id)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.NewMealResponse(meal))
}
