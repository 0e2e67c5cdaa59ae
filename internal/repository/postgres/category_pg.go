// internal/repository/postgres/category_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pocketledger/internal/domain"
	"pocketledger/internal/repository"
)

// CategoryRepository implements repository.CategoryRepository for PostgreSQL.
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository() repository.CategoryRepository {
	return &CategoryRepository{}
}

// ListCategories returns the user's own categories first, then the global defaults.
func (r *CategoryRepository) ListCategories(ctx context.Context, q repository.DBExecutor, userID uuid.UUID) ([]domain.Category, error) {
	categories := []domain.Category{}
	query := `SELECT id, user_id, name, icon, color, COALESCE(type, '') AS type
              FROM categories
              WHERE user_id = $1 OR user_id IS NULL
              ORDER BY user_id NULLS LAST, name ASC, id ASC`
	if err := q.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list categories for user %s: %w", userID, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category the user can see, including global defaults.
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) (*domain.Category, error) {
	var category domain.Category
	query := `SELECT id, user_id, name, icon, color, COALESCE(type, '') AS type
              FROM categories
              WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`
	if err := q.GetContext(ctx, &category, query, id, userID); err != nil {
		return nil, notFound(err, "failed to get category %d", id)
	}
	return &category, nil
}

// CreateCategory inserts a user-owned category.
func (r *CategoryRepository) CreateCategory(ctx context.Context, q repository.DBExecutor, category *domain.Category) error {
	query := `INSERT INTO categories (user_id, name, icon, color, type)
              VALUES ($1, $2, $3, $4, NULLIF($5, '')) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		category.UserID,
		category.Name,
		category.Icon,
		category.Color,
		string(category.Type),
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory updates a user-owned category. Global defaults are read-only.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, q repository.DBExecutor, category *domain.Category) error {
	query := `UPDATE categories SET name = $1, icon = $2, color = $3, type = NULLIF($4, '')
              WHERE id = $5 AND user_id = $6`
	result, err := q.ExecContext(ctx, query,
		category.Name,
		category.Icon,
		category.Color,
		string(category.Type),
		category.ID,
		category.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %d: %w", category.ID, err)
	}
	return expectOneRow(result, "category", category.ID)
}

// DeleteCategory deletes a user-owned category. Entries keep the name as plain text.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return expectOneRow(result, "category", id)
}
