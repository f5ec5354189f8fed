package functions

import (
	"fmt"
	"net/http"
	"strings"

	usersdomain "hotlunchhub/internal/domain/users"
)

type deleteUserRequest struct {
	RecordID   flexibleID `json:"recordId"`
	RecordType string     `json:"recordType"`
	AuthID     string     `json:"authId"`
}

type deleteUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteUser answers 400 for rejected input and 500 when a delete step fails.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}

	recordType := strings.TrimSpace(req.RecordType)
	result, err := h.Users.DeleteRecord(r.Context(), usersdomain.DeleteRecordInput{
		RecordID:   req.RecordID.Value,
		RecordType: recordType,
		AuthID:     req.AuthID,
	})
	if err != nil {
		if usersdomain.IsValidation(err) {
			h.log.BusinessError("functions.delete_user: invalid input", err, "record_type", recordType, "record_id", req.RecordID.Value)
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		step, _ := usersdomain.StepOf(err)
		h.log.InternalError("functions.delete_user: failed", err, "record_type", recordType, "record_id", req.RecordID.Value, "step", step)
		writeFailure(w, http.StatusInternalServerError, deleteFailureMessage(step, recordType, err))
		return
	}

	if h.profiles != nil && req.AuthID != "" {
		h.profiles.Forget(strings.TrimSpace(req.AuthID))
	}

	writeJSON(w, http.StatusOK, deleteUserResponse{
		Success: true,
		Message: result.Message,
	})
}

func deleteFailureMessage(step, recordType string, err error) string {
	switch step {
	case "profile":
		return fmt.Sprintf("Error deleting profile: %s", err.Error())
	case "identity":
		return fmt.Sprintf("Error deleting auth user: %s", err.Error())
	default:
		return fmt.Sprintf("Error deleting %s: %s", recordType, err.Error())
	}
}
