package handler

import (
	"customer-registry/internal/api/handler/dto"
	"customer-registry/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 1 << 20

const (
	msgStorageUnavailable = "Server error: storage unavailable"
	msgInternalError      = "Server error: internal error"
)

// decodeJSON reads exactly one JSON value from the body. Unknown fields are
// ignored; anything after the value is rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON body", apperrors.ErrInvalidArgument)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Server error: internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps err to a status by kind. Text of internal errors never
// reaches the client.
func respondError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, msgInternalError

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status, message = http.StatusBadRequest, validationMessage(err)
	case apperrors.KindConflict:
		status, message = http.StatusBadRequest, dto.MsgDuplicateAadhar
	case apperrors.KindStorageUnavailable:
		status, message = http.StatusServiceUnavailable, msgStorageUnavailable
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.MessageResponse{Success: false, Message: message})
}

func validationMessage(err error) string {
	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) && validationError.Message != "" {
		return validationError.Message
	}
	return dto.MsgInvalidBody
}
