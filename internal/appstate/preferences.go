// Package appstate holds per-user application state that used to live in ambient globals.
package appstate

import (
	"sync"

	"github.com/google/uuid"

	"pocketledger/internal/money"
)

// Preferences is a per-user state store. It is created once and passed by reference to the
// components that need it.
type Preferences struct {
	mu              sync.RWMutex
	defaultCurrency string
	currencies      map[uuid.UUID]string
}

// NewPreferences creates a store whose users start on defaultCurrency.
func NewPreferences(defaultCurrency string) (*Preferences, error) {
	c, err := money.LookupCurrency(defaultCurrency)
	if err != nil {
		return nil, err
	}
	return &Preferences{
		defaultCurrency: c.Code,
		currencies:      make(map[uuid.UUID]string),
	}, nil
}

// Currency returns the user's display currency code.
func (p *Preferences) Currency(userID uuid.UUID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if code, ok := p.currencies[userID]; ok {
		return code
	}
	return p.defaultCurrency
}

// SetCurrency changes the user's display currency. Only the supported codes are accepted.
func (p *Preferences) SetCurrency(userID uuid.UUID, code string) (money.Currency, error) {
	c, err := money.LookupCurrency(code)
	if err != nil {
		return money.Currency{}, err
	}
	p.mu.Lock()
	p.currencies[userID] = c.Code
	p.mu.Unlock()
	return c, nil
}
