// internal/api/handler/preferences.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"pocketledger/internal/api/types"
	"pocketledger/internal/money"
)

// PreferenceLedger reads and changes the user's display currency.
type PreferenceLedger interface {
	Currency(ctx context.Context) (money.Currency, error)
	SetCurrency(ctx context.Context, code string) (money.Currency, error)
}

type PreferencesHandler struct {
	service PreferenceLedger
	logger  *slog.Logger
}

func NewPreferencesHandler(svc PreferenceLedger, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{service: svc, logger: logger}
}

// CurrencyRequest represents the request body for changing the display currency.
type CurrencyRequest struct {
	Code string `json:"code"`
}

// GET /preferences/currency
func (h *PreferencesHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	currency, err := h.service.Currency(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[money.Currency]{Data: currency})
}

// PUT /preferences/currency
func (h *PreferencesHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req CurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	currency, err := h.service.SetCurrency(r.Context(), req.Code)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[money.Currency]{Data: currency})
}

// Currencies lists every supported display currency.
// GET /currencies
func (h *PreferencesHandler) Currencies(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(money.Currencies()))
}
