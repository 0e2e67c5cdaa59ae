// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pocketledger/internal/api/types"
	"pocketledger/internal/util" // For custom errors
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 30 * time.Second

// Helper function to send JSON responses.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var missing *util.MissingFieldError
	switch {
	case errors.As(err, &missing):
		statusCode = http.StatusBadRequest
		message = missing.Error()
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrMissingRequiredField),
		util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrUnsupportedCurrency):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrSameWalletTransfer):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to the same wallet"
	case util.IsError(err, util.ErrNotAuthenticated):
		statusCode = http.StatusUnauthorized
		message = "Not authenticated"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrSubmissionInFlight):
		statusCode = http.StatusConflict
		message = "Another submission is still in progress"
	case util.IsError(err, util.ErrWalletImmutable):
		statusCode = http.StatusUnprocessableEntity
		message = "The wallet of an existing expense cannot be changed"
	case util.IsError(err, util.ErrTimeout):
		statusCode = http.StatusGatewayTimeout
		message = "The ledger did not respond in time"
	case util.IsRemoteRejected(err):
		statusCode = http.StatusBadGateway
		message = "The ledger rejected the change"
		logger.Warn("Remote rejected", "error", err)
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, types.ErrorResponse{Error: message})
}

// pathID reads a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", util.ErrInvalidInput, name)
	}
	return id, nil
}

// queryWalletID reads the optional wallet_id filter.
func queryWalletID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("wallet_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: invalid wallet_id", util.ErrInvalidInput)
	}
	return &id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", util.ErrInvalidInput)
	}
	return nil
}
