package admin

import (
	"net/http"
	"time"

	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeAndValidate(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeAndValidate(r, dst)
}

func parseID(r *http.Request, name string) (int64, error) {
	return commonhandler.ParseIDParam(r, name)
}

func parseInt64Query(r *http.Request, name string) (*int64, error) {
	return commonhandler.ParseInt64Query(r, name)
}

func parseDateParam(value string) (*time.Time, error) {
	return commonhandler.ParseDateParam(value)
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}
