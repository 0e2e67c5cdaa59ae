package appstate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/util"
)

func TestPreferences(t *testing.T) {
	_, err := NewPreferences("GBP")
	assert.ErrorIs(t, err, util.ErrUnsupportedCurrency)

	prefs, err := NewPreferences("usd")
	require.NoError(t, err)

	alice, bob := uuid.New(), uuid.New()
	assert.Equal(t, "USD", prefs.Currency(alice))

	c, err := prefs.SetCurrency(alice, "idr")
	require.NoError(t, err)
	assert.Equal(t, "Rp", c.Symbol)
	assert.Equal(t, "IDR", prefs.Currency(alice))
	assert.Equal(t, "USD", prefs.Currency(bob))

	_, err = prefs.SetCurrency(bob, "XYZ")
	assert.ErrorIs(t, err, util.ErrUnsupportedCurrency)
	assert.Equal(t, "USD", prefs.Currency(bob))
}
