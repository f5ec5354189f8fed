package functions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	commonhandler "hotlunchhub/internal/transport/httpserver/handler/common"
)

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failure{Success: false, Error: message})
}

// WriteRejected renders auth middleware rejections in the function envelope.
func WriteRejected(w http.ResponseWriter, status int, _ string, message string) {
	writeFailure(w, status, message)
}

// decodeBody accepts unknown fields; callers send whatever their form holds.
func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// flexibleID accepts a JSON number or a numeric string.
type flexibleID struct {
	Value int64
	Set   bool
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = flexibleID{}
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = flexibleID{}
			return nil
		}
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*f = flexibleID{Value: value, Set: true}
	return nil
}

func (f flexibleID) Ptr() *int64 {
	if !f.Set {
		return nil
	}
	value := f.Value
	return &value
}
