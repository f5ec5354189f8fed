package common

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// Health reports 200 while the database answers and 503 otherwise.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Time:     time.Now().UTC().Format(time.RFC3339),
		Database: "ok",
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.log.InternalError("health: database ping failed", err)
			resp.Status = "fail"
			resp.Database = "fail"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
