package money

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pocketledger/internal/util"
)

// Currency describes how an amount is displayed.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Places int32  `json:"places"`
}

var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Places: 2},
	"IDR": {Code: "IDR", Symbol: "Rp", Places: 0},
	"JPY": {Code: "JPY", Symbol: "¥", Places: 0},
	"RUB": {Code: "RUB", Symbol: "₽", Places: 2},
	"EUR": {Code: "EUR", Symbol: "€", Places: 2},
	"WON": {Code: "WON", Symbol: "₩", Places: 0},
	"BDT": {Code: "BDT", Symbol: "৳", Places: 2},
}

var printer = message.NewPrinter(language.English)

// LookupCurrency returns the display rules for code (case-insensitive).
func LookupCurrency(code string) (Currency, error) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", util.ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// Currencies lists the supported currencies ordered by code.
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Format renders m as a display string such as "-$1,234.50" or "Rp15,000".
func (m Money) Format(code string) (string, error) {
	c, err := LookupCurrency(code)
	if err != nil {
		return "", err
	}
	return m.format(c), nil
}

func (m Money) format(c Currency) string {
	abs := m.d.Abs().Round(c.Places)
	whole := abs.Truncate(0)

	var b strings.Builder
	if m.d.Round(c.Places).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol)
	b.WriteString(printer.Sprintf("%d", whole.IntPart()))
	if c.Places > 0 {
		frac := abs.Sub(whole).Shift(c.Places).IntPart()
		b.WriteString(fmt.Sprintf(".%0*d", int(c.Places), frac))
	}
	return b.String()
}
