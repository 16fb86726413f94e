package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cresenventures/backend/internal/services"
)

// errUnauthorized maps to 401. Used by the maintenance endpoint.
var errUnauthorized = errors.New("unauthorized")

// errUpstream marks a failed or timed-out outbound call to the payment or
// shipping service.
var errUpstream = errors.New("upstream service failure")

var requestValidator = validator.New()

// decodeRequest reads a JSON body into dst, rejecting unknown fields and
// oversized payloads, then runs struct validation.
func decodeRequest(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := requestValidator.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("invalid field %s", strings.ToLower(fieldErrs[0].Field()))
		}
		return err
	}
	return nil
}

// writeSuccess responds with the success envelope. Extra payload keys sit
// alongside "success" at the top level.
func (h *Handlers) writeSuccess(w http.ResponseWriter, ctx context.Context, payload map[string]any) {
	body := map[string]any{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	h.writeJSON(w, ctx, http.StatusOK, body)
}

// writeError converts an error into the failure envelope, mapping its kind
// to a status code. Internal errors are logged but never echoed to the
// client.
func (h *Handlers) writeError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := h.loggerFromContext(ctx)

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case services.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
		message = "unauthorized"
	case errors.Is(err, errUpstream):
		message = "upstream service failure"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	h.writeJSON(w, ctx, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// badRequest is writeError for malformed input detected at decode time.
func (h *Handlers) badRequest(w http.ResponseWriter, ctx context.Context, err error) {
	h.loggerFromContext(ctx).Warn("request rejected", "status", http.StatusBadRequest, "error", err)
	h.writeJSON(w, ctx, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, ctx context.Context, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(ctx).Error("failed to encode response", "error", err)
	}
}

// NotFoundJSON answers unknown /api/* paths; everything else outside the
// API gets the router's plain-text 404.
func (h *Handlers) NotFoundJSON(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r.Context(), http.StatusNotFound, map[string]any{
		"success": false,
		"error":   "not found",
	})
}
