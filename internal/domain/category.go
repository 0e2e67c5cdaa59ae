// internal/domain/category.go
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Category is reference data for entries. A nil UserID marks a global default and an empty
// Type means the category applies to both expenses and income.
type Category struct {
	ID     int64      `db:"id" json:"id"`
	UserID *uuid.UUID `db:"user_id" json:"user_id"`
	Name   string     `db:"name" json:"name"`
	Icon   string     `db:"icon" json:"icon"`
	Color  string     `db:"color" json:"color"`
	Type   Kind       `db:"type" json:"type,omitempty"`
}

// IsGlobal reports whether the category is a shared default.
func (c *Category) IsGlobal() bool { return c.UserID == nil }

// Matches reports whether the category applies to an entry with the given name and kind.
func (c *Category) Matches(name string, kind Kind) bool {
	if !strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
		return false
	}
	return c.Type == "" || c.Type == kind
}
