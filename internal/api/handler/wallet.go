// internal/api/handler/wallet.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"pocketledger/internal/api/types"
	"pocketledger/internal/domain"
	"pocketledger/internal/money"
)

// WalletLedger is the part of the ledger service the wallet endpoints use.
type WalletLedger interface {
	Wallets(ctx context.Context) ([]domain.Wallet, error)
	Wallet(ctx context.Context, id int64) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, wallet *domain.Wallet) error
	UpdateWallet(ctx context.Context, wallet *domain.Wallet) error
	DeleteWallet(ctx context.Context, id int64) error
}

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	service WalletLedger
	limits  money.Limits
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc WalletLedger, limits money.Limits, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		limits:  limits,
		logger:  logger,
	}
}

// WalletRequest represents the request body for creating or editing a wallet.
// Amount is only read on creation.
type WalletRequest struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Icon   string      `json:"icon"`
	Color  string      `json:"color"`
	Amount money.Input `json:"amount"`
}

// List handles the list wallets request.
// GET /wallets
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.service.Wallets(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(wallets))
}

// Get handles the get wallet request.
// GET /wallets/{walletID}
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	wallet, err := h.service.Wallet(r.Context(), walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Wallet]{Data: wallet})
}

// Create handles the create wallet request. A blank amount opens the wallet at zero.
// POST /wallets
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req WalletRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	opening := money.Zero
	if strings.TrimSpace(string(req.Amount)) != "" {
		amount, err := money.Parse(string(req.Amount), h.limits)
		if err != nil {
			respondWithError(w, h.logger, err)
			return
		}
		opening = amount
	}

	wallet := &domain.Wallet{
		Name:   req.Name,
		Type:   domain.WalletType(req.Type),
		Icon:   req.Icon,
		Color:  req.Color,
		Amount: opening,
	}
	if err := h.service.CreateWallet(r.Context(), wallet); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, types.DataResponse[*domain.Wallet]{Data: wallet})
}

// Update handles the edit wallet request.
// PUT /wallets/{walletID}
func (h *WalletHandler) Update(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req WalletRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	wallet := &domain.Wallet{
		ID:    walletID,
		Name:  req.Name,
		Type:  domain.WalletType(req.Type),
		Icon:  req.Icon,
		Color: req.Color,
	}
	if err := h.service.UpdateWallet(r.Context(), wallet); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Wallet]{Data: wallet})
}

// Delete handles the delete wallet request.
// DELETE /wallets/{walletID}
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.DeleteWallet(r.Context(), walletID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
