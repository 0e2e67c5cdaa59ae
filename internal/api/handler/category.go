// internal/api/handler/category.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"pocketledger/internal/api/types"
	"pocketledger/internal/domain"
)

// CategoryLedger is the part of the ledger service the category endpoints use.
type CategoryLedger interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type CategoryHandler struct {
	service CategoryLedger
	logger  *slog.Logger
}

func NewCategoryHandler(svc CategoryLedger, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

// CategoryRequest represents the request body for a user category. An empty type applies to
// both expenses and income.
type CategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

func (req CategoryRequest) category() *domain.Category {
	c := &domain.Category{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	}
	if kind, ok := domain.ParseKind(req.Type); ok {
		c.Type = kind
	} else {
		c.Type = domain.Kind(req.Type)
	}
	return c
}

// List returns the global defaults and the user's own categories.
// GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(categories))
}

// Get returns one category, which may be a global default.
// GET /categories/{categoryID}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	category, err := h.service.Category(r.Context(), categoryID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Category]{Data: category})
}

// POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	category := req.category()
	if err := h.service.CreateCategory(r.Context(), category); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, types.DataResponse[*domain.Category]{Data: category})
}

// PUT /categories/{categoryID}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	category := req.category()
	category.ID = categoryID
	if err := h.service.UpdateCategory(r.Context(), category); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[*domain.Category]{Data: category})
}

// DELETE /categories/{categoryID}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), categoryID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
