package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps err onto a status code and writes {"error": "..."}.
// Unexpected failures are logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, log *logger.Logger, category string, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(category, fmt.Sprintf("unexpected failure: %v", err))
		message = "Internal server error"
	} else {
		log.Debug(category, fmt.Sprintf("request failed with %d: %v", status, err))
	}
	WriteJSON(w, status, ErrorBody{Error: message})
}

// DecodeJSON reads the request body into dst, rejecting unknown fields and
// trailing data.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidArgument("request body is empty")
		}
		return apperrors.InvalidArgument("invalid request body: %v", err)
	}
	if dec.More() {
		return apperrors.InvalidArgument("request body must contain a single JSON object")
	}
	return nil
}
