package http

import (
	"encoding/json"
	"net/http"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
)

// ApiResponse is the JSON envelope every endpoint returns.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, ApiResponse{Success: true, Code: status, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ApiResponse{Success: true, Code: status, Message: message})
}

// writeError maps domain error kinds onto HTTP statuses. Anything without a
// kind is an internal error and the detail stays out of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch domain.KindOf(err) {
	case domain.ErrorKindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.ErrorKindInvalidArgument:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.ErrorKindConflict:
		status = http.StatusConflict
		message = err.Error()
	default:
		logger.Error("Request failed", "error", err)
	}

	writeJSON(w, status, ApiResponse{Success: false, Code: status, Message: message})
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.InvalidArgument("invalid request body")
	}
	return nil
}
