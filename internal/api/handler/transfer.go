// internal/api/handler/transfer.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pocketledger/internal/api/types"
	"pocketledger/internal/domain"
	"pocketledger/internal/money"
)

// TransferLedger is the part of the ledger service the transfer endpoints use.
type TransferLedger interface {
	Transfers(ctx context.Context, walletID *int64) ([]domain.Transfer, error)
	Transfer(ctx context.Context, id int64) (*domain.Transfer, error)
	SubmitTransfer(ctx context.Context, transfer *domain.Transfer) error
	UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error
	DeleteTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
}

// TransferHandler handles HTTP requests related to wallet-to-wallet transfers.
type TransferHandler struct {
	service TransferLedger
	limits  money.Limits
	logger  *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc TransferLedger, limits money.Limits, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		service: svc,
		limits:  limits,
		logger:  logger,
	}
}

// TransferRequest represents the request body for transfer.
type TransferRequest struct {
	FromWalletID int64       `json:"from_wallet_id"`
	ToWalletID   int64       `json:"to_wallet_id"`
	Amount       money.Input `json:"amount"`
	Description  string      `json:"description"`
	CreatedAt    *time.Time  `json:"created_at"`
}

func (h *TransferHandler) transferFromRequest(r *http.Request) (*domain.Transfer, error) {
	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	amount, err := money.Parse(string(req.Amount), h.limits)
	if err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       amount,
		Description:  req.Description,
	}
	if req.CreatedAt != nil {
		transfer.CreatedAt = req.CreatedAt.UTC()
	}
	return transfer, nil
}

// List handles the list transfers request.
// GET /transfers
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	walletID, err := queryWalletID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	transfers, err := h.service.Transfers(r.Context(), walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(transfers))
}

// Get handles the get transfer request.
// GET /transfers/{transferID}
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	transferID, err := pathID(r, "transferID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	transfer, err := h.service.Transfer(r.Context(), transferID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Transfer]{Data: transfer})
}

// Create handles the transfer money request.
// POST /transfers
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	transfer, err := h.transferFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.SubmitTransfer(r.Context(), transfer); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, types.DataResponse[*domain.Transfer]{Data: transfer})
}

// Update handles the edit transfer request.
// PUT /transfers/{transferID}
func (h *TransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	transferID, err := pathID(r, "transferID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	transfer, err := h.transferFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	transfer.ID = transferID

	if err := h.service.UpdateTransfer(r.Context(), transfer); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Transfer]{Data: transfer})
}

// Delete handles the delete transfer request and returns the removed row.
// DELETE /transfers/{transferID}
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	transferID, err := pathID(r, "transferID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	deleted, err := h.service.DeleteTransfer(r.Context(), transferID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Transfer]{Data: deleted})
}
