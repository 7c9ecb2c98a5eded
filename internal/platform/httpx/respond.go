package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/quickbite/storefront/internal/platform/requestctx"
)

// WriteJSON encodes the payload as JSON with the given status. Encoding
// failures after the header is written can only be logged.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		requestctx.Logger(ctx).Warn("response encode failed", zap.Error(err))
	}
}

// NoContent writes an empty response with the provided status.
func NoContent(w http.ResponseWriter, status int) {
	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}
