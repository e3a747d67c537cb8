package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmelim/userbase/internal/types"
)

// StatusForCode is the single fixed mapping from domain error codes to
// HTTP statuses. Anything unrecognized is a server fault.
func StatusForCode(code types.DomainErrorCode) int {
	switch code {
	case types.CodeValidation:
		return http.StatusBadRequest
	case types.CodeAuthentication:
		return http.StatusUnauthorized
	case types.CodeAuthorization:
		return http.StatusForbidden
	case types.CodeNotFound:
		return http.StatusNotFound
	case types.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorEnvelope struct {
	Error       string                  `json:"error"`
	Code        types.DomainErrorCode   `json:"code"`
	FieldErrors []types.ValidationError `json:"fieldErrors,omitempty"`
	Details     map[string]any          `json:"details,omitempty"`
	RequestID   string                  `json:"request_id,omitempty"`
}

// DomainErrorResponse is the one place translating use-case errors to
// responses. It branches on the Code field only; wrapped non-domain
// errors become SYSTEM responses with a generic message so internals
// never reach the client.
func DomainErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	reqID := middleware.GetReqID(r.Context())

	domainErr, ok := types.AsDomainError(err)
	if !ok {
		domainErr = types.NewSystemError("Internal server error")
	}

	status := StatusForCode(domainErr.Code)
	message := domainErr.Message
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Unhandled error reached the boundary",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
		message = "Internal server error"
	}

	WriteJSONResponse(w, r, status, errorEnvelope{
		Error:       message,
		Code:        domainErr.Code,
		FieldErrors: domainErr.FieldErrors,
		Details:     domainErr.Details,
		RequestID:   reqID,
	})
}

// ErrorResponse writes a plain error envelope for boundary-level
// failures that never reached a use case (malformed JSON, bad bearer
// token, throttling).
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, code types.DomainErrorCode, message string) {
	WriteJSONResponse(w, r, status, errorEnvelope{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// WriteJSONResponse encodes data to JSON and writes the response.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody reads and decodes a JSON request body safely,
// rejecting unknown fields so clients cannot smuggle undeclared ones
// into a write path.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			fieldName = strings.Trim(fieldName, `"`)
			return fmt.Errorf("body contains unknown key %q", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
