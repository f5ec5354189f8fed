package common

import (
	"errors"
	"net/http"

	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	"hotlunchhub/pkg/logger"
)

// WriteMealError maps meal domain errors to responses. area is the log
// prefix, e.g. "meals.update".
func WriteMealError(w http.ResponseWriter, log logger.Logger, area string, err error, id int64) {
	switch {
	case errors.Is(err, mealsdomain.ErrMealNotFound):
		log.BusinessError(area+": not found", err, "meal_id", id)
		writeError(w, http.StatusNotFound, "meal_not_found", "meal not found")
	case errors.Is(err, mealsdomain.ErrMealInUse):
		log.BusinessError(area+": in use", err, "meal_id", id)
		writeError(w, http.StatusConflict, "meal_in_use", err.Error())
	case errors.Is(err, mealsdomain.ErrNotOwner):
		log.BusinessError(area+": not owner", err, "meal_id", id)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, mealsdomain.ErrUnsupportedImage):
		log.BusinessError(area+": unsupported image", err, "meal_id", id)
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_image", err.Error())
	case errors.Is(err, mealsdomain.ErrInvalidInput):
		log.BusinessError(area+": invalid input", err, "meal_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.InternalError(area+": failed", err, "meal_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func WriteOrderError(w http.ResponseWriter, log logger.Logger, area string, err error, id int64) {
	switch {
	case errors.Is(err, ordersdomain.ErrOrderNotFound):
		log.BusinessError(area+": not found", err, "order_id", id)
		writeError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, ordersdomain.ErrEmployeeNotFound):
		log.BusinessError(area+": employee not found", err, "order_id", id)
		writeError(w, http.StatusBadRequest, "employee_not_found", err.Error())
	case errors.Is(err, ordersdomain.ErrMealNotFound):
		log.BusinessError(area+": meal not found", err, "order_id", id)
		writeError(w, http.StatusBadRequest, "meal_not_found", err.Error())
	case errors.Is(err, ordersdomain.ErrForbidden):
		log.BusinessError(area+": forbidden", err, "order_id", id)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		log.BusinessError(area+": invalid transition", err, "order_id", id)
		writeError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, ordersdomain.ErrStatusConflict):
		log.BusinessError(area+": conflict", err, "order_id", id)
		writeError(w, http.StatusConflict, "status_conflict", err.Error())
	case errors.Is(err, ordersdomain.ErrInvalidInput):
		log.BusinessError(area+": invalid input", err, "order_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.InternalError(area+": failed", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
