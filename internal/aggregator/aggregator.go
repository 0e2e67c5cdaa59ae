// Package aggregator merges expenses, income and transfers into one display feed.
//
// Build is a pure projection: it never mutates its input and returns the same feed for the same
// input, query and options, so callers recompute it on every change instead of patching.
package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/util"
)

const (
	MonthLayout = "Jan 2006"
	DayLayout   = "Jan 2, 2006"

	LabelToday     = "Today"
	LabelYesterday = "Yesterday"

	TitleTransfer      = "Transfer"
	TitleUncategorized = "Uncategorized"
)

// Sort orders the feed.
type Sort string

const (
	SortNewest  Sort = "Newest"
	SortOldest  Sort = "Oldest"
	SortHighest Sort = "Highest"
	SortLowest  Sort = "Lowest"
)

// ParseSort accepts the display names case-insensitively; empty means Newest.
func ParseSort(s string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return SortNewest, nil
	case "oldest":
		return SortOldest, nil
	case "highest":
		return SortHighest, nil
	case "lowest":
		return SortLowest, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", util.ErrInvalidInput, s)
}

// Input is the raw ledger of one user.
type Input struct {
	Expenses   []domain.Entry
	Income     []domain.Entry
	Transfers  []domain.Transfer
	Categories []domain.Category
	Wallets    []domain.Wallet
}

// Query holds the user's filter state. Zero values mean "no filter".
type Query struct {
	// Month is an exact "Jan 2006" label.
	Month string
	// Type keeps a single kind.
	Type domain.Kind
	// Categories keeps entries whose category is in the set. Transfers never match.
	Categories []string
	Sort       Sort
	// WalletID scopes the feed to rows touching one wallet and signs transfers from its side.
	WalletID *int64
}

// Options carries the environment the projection depends on.
type Options struct {
	Now      time.Time
	Location *time.Location
	// Currency formats DisplayAmount when set.
	Currency string
}

// DisplayTransaction is one row of the feed.
type DisplayTransaction struct {
	ID            int64       `json:"id"`
	Kind          domain.Kind `json:"kind"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category,omitempty"`
	SignedAmount  money.Money `json:"signed_amount"`
	DisplayAmount string      `json:"display_amount,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Icon          string      `json:"icon"`
	Color         string      `json:"color"`
}

// Bucket groups rows of one calendar day.
type Bucket struct {
	Label string               `json:"label"`
	Items []DisplayTransaction `json:"items"`
}

// Summary totals the month-filtered entries. Transfers move money between wallets and are left out.
type Summary struct {
	Income  money.Money `json:"income"`
	Expense money.Money `json:"expense"`
	Net     money.Money `json:"net"`
}

// Feed is the output of Build.
type Feed struct {
	Items   []DisplayTransaction `json:"items"`
	Buckets []Bucket             `json:"buckets"`
	Summary Summary              `json:"summary"`
	// Months lists the distinct month labels present before filtering, newest first.
	Months []string `json:"months"`
}

// row is the tagged union the projection works on. Exactly one of entry and transfer is set,
// matching kind.
type row struct {
	kind     domain.Kind
	entry    *domain.Entry
	transfer *domain.Transfer
}

func (r row) id() int64 {
	if r.kind == domain.KindTransfer {
		return r.transfer.ID
	}
	return r.entry.ID
}

func (r row) createdAt() time.Time {
	if r.kind == domain.KindTransfer {
		return r.transfer.CreatedAt
	}
	return r.entry.CreatedAt
}

func (r row) category() string {
	if r.kind == domain.KindTransfer {
		return ""
	}
	return r.entry.Category
}

func kindRank(k domain.Kind) int {
	switch k {
	case domain.KindExpense:
		return 0
	case domain.KindIncome:
		return 1
	default:
		return 2
	}
}

// Build runs the projection.
func Build(in Input, q Query, opts Options) (Feed, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	var currency *money.Currency
	if opts.Currency != "" {
		c, err := money.LookupCurrency(opts.Currency)
		if err != nil {
			return Feed{}, err
		}
		currency = &c
	}

	rows := collect(in, q.WalletID)
	sort.SliceStable(rows, func(i, j int) bool { return newer(rows[i], rows[j]) })

	feed := Feed{Months: months(rows, loc)}

	if q.Month != "" {
		rows = keep(rows, func(r row) bool { return r.createdAt().In(loc).Format(MonthLayout) == q.Month })
	}
	feed.Summary = summarize(rows)

	if q.Type != "" {
		rows = keep(rows, func(r row) bool { return r.kind == q.Type })
	}
	if len(q.Categories) > 0 {
		set := make(map[string]struct{}, len(q.Categories))
		for _, c := range q.Categories {
			set[c] = struct{}{}
		}
		rows = keep(rows, func(r row) bool {
			if r.kind == domain.KindTransfer {
				return false
			}
			_, ok := set[r.category()]
			return ok
		})
	}

	names := walletNames(in.Wallets)
	items := make([]DisplayTransaction, 0, len(rows))
	for _, r := range rows {
		items = append(items, display(r, in.Categories, names, q.WalletID, currency))
	}
	applySort(items, q.Sort)

	feed.Items = items
	feed.Buckets = bucketize(items, opts.Now, loc)
	return feed, nil
}

func collect(in Input, scope *int64) []row {
	rows := make([]row, 0, len(in.Expenses)+len(in.Income)+len(in.Transfers))
	addEntries := func(entries []domain.Entry, kind domain.Kind) {
		for i := range entries {
			e := &entries[i]
			if scope != nil && e.WalletID != *scope {
				continue
			}
			rows = append(rows, row{kind: kind, entry: e})
		}
	}
	addEntries(in.Expenses, domain.KindExpense)
	addEntries(in.Income, domain.KindIncome)
	for i := range in.Transfers {
		t := &in.Transfers[i]
		if scope != nil && !t.Touches(*scope) {
			continue
		}
		rows = append(rows, row{kind: domain.KindTransfer, transfer: t})
	}
	return rows
}

// newer is the base order: created_at desc, then kind, then id, both desc.
func newer(a, b row) bool {
	ta, tb := a.createdAt(), b.createdAt()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	if ra, rb := kindRank(a.kind), kindRank(b.kind); ra != rb {
		return ra > rb
	}
	return a.id() > b.id()
}

func keep(rows []row, pred func(row) bool) []row {
	out := rows[:0:0]
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func months(rows []row, loc *time.Location) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		label := r.createdAt().In(loc).Format(MonthLayout)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

func summarize(rows []row) Summary {
	s := Summary{Income: money.Zero, Expense: money.Zero}
	for _, r := range rows {
		switch r.kind {
		case domain.KindIncome:
			s.Income = s.Income.Add(r.entry.Amount)
		case domain.KindExpense:
			s.Expense = s.Expense.Add(r.entry.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}

func walletNames(wallets []domain.Wallet) map[int64]string {
	names := make(map[int64]string, len(wallets))
	for _, w := range wallets {
		names[w.ID] = w.Name
	}
	return names
}

func walletName(names map[int64]string, id int64) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("Wallet #%d", id)
}

func display(r row, categories []domain.Category, names map[int64]string, scope *int64, currency *money.Currency) DisplayTransaction {
	var d DisplayTransaction
	switch r.kind {
	case domain.KindExpense, domain.KindIncome:
		e := r.entry
		style := ResolveStyle(categories, e.Category, r.kind)
		signed := e.Amount
		if r.kind == domain.KindExpense {
			signed = signed.Neg()
		}
		d = DisplayTransaction{
			ID:           e.ID,
			Kind:         r.kind,
			Title:        e.Category,
			Description:  e.Description,
			Category:     e.Category,
			SignedAmount: signed,
			Timestamp:    e.CreatedAt,
			Icon:         style.Icon,
			Color:        style.Color,
		}
		if strings.TrimSpace(d.Title) == "" {
			d.Title = TitleUncategorized
		}
	case domain.KindTransfer:
		t := r.transfer
		signed := t.Amount.Neg()
		if scope != nil && t.FromWalletID != *scope {
			signed = t.Amount
		}
		d = DisplayTransaction{
			ID:           t.ID,
			Kind:         domain.KindTransfer,
			Title:        TitleTransfer,
			Description:  t.Description,
			SignedAmount: signed,
			Timestamp:    t.CreatedAt,
			Icon:         TransferStyle.Icon,
			Color:        TransferStyle.Color,
		}
		if strings.TrimSpace(d.Description) == "" {
			d.Description = walletName(names, t.FromWalletID) + " → " + walletName(names, t.ToWalletID)
		}
	default:
		panic(fmt.Sprintf("aggregator: unhandled kind %q", r.kind))
	}
	if currency != nil {
		d.DisplayAmount, _ = d.SignedAmount.Format(currency.Code)
	}
	return d
}

func applySort(items []DisplayTransaction, s Sort) {
	switch s {
	case SortOldest:
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	case SortHighest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SignedAmount.Abs().GreaterThan(items[j].SignedAmount.Abs())
		})
	case SortLowest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SignedAmount.Abs().LessThan(items[j].SignedAmount.Abs())
		})
	}
}

// DayLabel names the calendar day of ts relative to now.
func DayLabel(ts, now time.Time, loc *time.Location) string {
	day := ts.In(loc)
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	dy, dm, dd := day.Date()
	start := time.Date(dy, dm, dd, 0, 0, 0, 0, loc)
	switch {
	case start.Equal(today):
		return LabelToday
	case start.Equal(today.AddDate(0, 0, -1)):
		return LabelYesterday
	}
	return day.Format(DayLayout)
}

// bucketize groups rows by day label. Buckets keep the order in which their first row appears.
func bucketize(items []DisplayTransaction, now time.Time, loc *time.Location) []Bucket {
	buckets := []Bucket{}
	index := make(map[string]int)
	for _, it := range items {
		label := DayLabel(it.Timestamp, now, loc)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, Bucket{Label: label})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	return buckets
}
