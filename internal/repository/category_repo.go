// internal/repository/category_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	// ListCategories returns the user's categories followed by the global defaults.
	ListCategories(ctx context.Context, q DBExecutor, userID uuid.UUID) ([]domain.Category, error)
	// GetCategoryByID returns a user-owned or global category.
	GetCategoryByID(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, q DBExecutor, category *domain.Category) error
	// UpdateCategory and DeleteCategory only touch categories owned by the user.
	UpdateCategory(ctx context.Context, q DBExecutor, category *domain.Category) error
	DeleteCategory(ctx context.Context, q DBExecutor, userID uuid.UUID, id int64) error
}
