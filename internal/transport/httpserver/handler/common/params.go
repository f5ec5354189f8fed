package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// ParseInt64Query reads an optional positive integer query parameter.
func ParseInt64Query(r *http.Request, name string) (*int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func ParseBoolQuery(r *http.Request, name string) (bool, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s", name)
	}
	return parsed, nil
}

func FormatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}
