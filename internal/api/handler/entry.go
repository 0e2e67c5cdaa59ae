// internal/api/handler/entry.go
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

// EntryLedger is the part of the ledger service the expense and income endpoints use.
type EntryLedger interface {
	Entries(ctx context.Context, kind domain.Kind, walletID *int64) ([]domain.Entry, error)
	Entry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error)
	SubmitEntry(ctx context.Context, entry *domain.Entry) error
	UpdateEntry(ctx context.Context, entry *domain.Entry) error
	DeleteEntry(ctx context.Context, kind domain.Kind, id int64) (*domain.Entry, error)
}

// EntryHandler serves one entry kind. Expenses and income each get their own instance.
type EntryHandler struct {
	service EntryLedger
	kind    domain.Kind
	limits  money.Limits
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler for kind.
func NewEntryHandler(svc EntryLedger, kind domain.Kind, limits money.Limits, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		service: svc,
		kind:    kind,
		limits:  limits,
		logger:  logger.With("kind", kind),
	}
}

// EntryRequest represents the request body for an expense or income.
type EntryRequest struct {
	Amount      money.Input `json:"amount"`
	Category    string      `json:"category"`
	WalletID    int64       `json:"wallet_id"`
	Description string      `json:"description"`
	CreatedAt   *time.Time  `json:"created_at"`
}

func (h *EntryHandler) entryFromRequest(r *http.Request) (*domain.Entry, error) {
	var req EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	// Sign and zero checks belong to the guard.
	amount, err := money.Parse(string(req.Amount), h.limits)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		Kind:        h.kind,
		Amount:      amount,
		Category:    req.Category,
		WalletID:    req.WalletID,
		Description: req.Description,
	}
	if req.CreatedAt != nil {
		entry.CreatedAt = req.CreatedAt.UTC()
	}
	return entry, nil
}

// List handles the list entries request.
// GET /expenses, GET /income
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	walletID, err := queryWalletID(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	entries, err := h.service.Entries(r.Context(), h.kind, walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(entries))
}

// Get handles the get entry request.
// GET /expenses/{entryID}, GET /income/{entryID}
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "entryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	entry, err := h.service.Entry(r.Context(), h.kind, entryID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Entry]{Data: entry})
}

// Create handles the submit entry request.
// POST /expenses, POST /income
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.SubmitEntry(r.Context(), entry); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, types.DataResponse[*domain.Entry]{Data: entry})
}

// Update handles the edit entry request.
// PUT /expenses/{entryID}, PUT /income/{entryID}
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "entryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	entry, err := h.entryFromRequest(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	entry.ID = entryID

	if err := h.service.UpdateEntry(r.Context(), entry); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Entry]{Data: entry})
}

// Delete handles the delete entry request and returns the removed row.
// DELETE /expenses/{entryID}, DELETE /income/{entryID}
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "entryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	deleted, err := h.service.DeleteEntry(r.Context(), h.kind, entryID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Entry]{Data: deleted})
}
