// internal/repository/entry_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
)

// EntryRepository defines data operations for one entry kind (expenses or income).
type EntryRepository interface {
	// Kind reports which table the repository writes.
	Kind() domain.Kind
	// ListEntries returns the user's entries, newest first.
	ListEntries(ctx context.Context, q DBExecutor, filter domain.EntryFilter) ([]domain.Entry, error)
	// GetEntryByID retrieves a single entry.
	GetEntryByID(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error)
	// GetEntryForUpdate reads the entry and locks its row for the rest of the transaction.
	GetEntryForUpdate(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error)
	// CreateEntry inserts the entry as given and fills ID and CreatedAt.
	CreateEntry(ctx context.Context, q DBExecutor, entry *domain.Entry) error
	// UpdateEntry rewrites the row in place and fills CreatedAt with the stored value.
	UpdateEntry(ctx context.Context, q DBExecutor, entry *domain.Entry) error
	// DeleteEntry hard-deletes the row and returns what was removed.
	DeleteEntry(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Entry, error)
}
