package aggregator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/domain"
	"pocketledger/internal/money"
	"pocketledger/internal/util"
)

func at(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func sampleInput() Input {
	owner := uuid.New()
	return Input{
		Expenses: []domain.Entry{
			{ID: 1, Kind: domain.KindExpense, Amount: money.MustParse("20"), Category: "Food", WalletID: 1, CreatedAt: at("2024-05-01T09:00:00Z")},
			{ID: 2, Kind: domain.KindExpense, Amount: money.MustParse("5.5"), Category: "Transport", WalletID: 2, CreatedAt: at("2024-03-15T09:00:00Z")},
		},
		Income: []domain.Entry{
			{ID: 1, Kind: domain.KindIncome, Amount: money.MustParse("1000"), Category: "Salary", WalletID: 1, CreatedAt: at("2024-05-01T12:00:00Z")},
		},
		Transfers: []domain.Transfer{
			{ID: 1, FromWalletID: 1, ToWalletID: 2, Amount: money.MustParse("15"), CreatedAt: at("2024-05-02T08:00:00Z")},
		},
		Categories: []domain.Category{
			{ID: 1, Name: "Salary", Icon: "cash", Color: "#26A69A", Type: domain.KindIncome},
			{ID: 2, UserID: &owner, Name: "Transport", Icon: "bus", Color: "#000000"},
		},
		Wallets: []domain.Wallet{
			{ID: 1, Name: "Bank"},
			{ID: 2, Name: "Cash"},
		},
	}
}

func opts() Options {
	return Options{Now: at("2024-05-10T00:00:00Z"), Location: time.UTC}
}

func ids(items []DisplayTransaction) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it.Kind)+":"+it.SignedAmount.String())
	}
	return out
}

func TestBuild_BucketsByDayNewestFirst(t *testing.T) {
	feed, err := Build(sampleInput(), Query{Month: "May 2024"}, opts())
	require.NoError(t, err)

	require.Len(t, feed.Buckets, 2)
	assert.Equal(t, "May 2, 2024", feed.Buckets[0].Label)
	assert.Equal(t, "May 1, 2024", feed.Buckets[1].Label)

	require.Len(t, feed.Buckets[0].Items, 1)
	assert.Equal(t, domain.KindTransfer, feed.Buckets[0].Items[0].Kind)
	assert.True(t, feed.Buckets[0].Items[0].SignedAmount.Equal(money.MustParse("-15")))

	assert.Equal(t, []string{"income:1000", "expense:-20"}, ids(feed.Buckets[1].Items))
}

func TestBuild_IsIdempotent(t *testing.T) {
	in := sampleInput()
	q := Query{Sort: SortHighest}

	first, err := Build(in, q, opts())
	require.NoError(t, err)
	second, err := Build(in, q, opts())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_SortRoundTrip(t *testing.T) {
	in := sampleInput()

	newest, err := Build(in, Query{Sort: SortNewest}, opts())
	require.NoError(t, err)
	oldest, err := Build(in, Query{Sort: SortOldest}, opts())
	require.NoError(t, err)
	again, err := Build(in, Query{Sort: SortNewest}, opts())
	require.NoError(t, err)

	assert.Equal(t, ids(newest.Items), ids(again.Items))
	assert.Equal(t, "expense:-5.5", ids(oldest.Items)[0])
	assert.Equal(t, "transfer:-15", ids(newest.Items)[0])
}

func TestBuild_AmountSorts(t *testing.T) {
	high, err := Build(sampleInput(), Query{Sort: SortHighest}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"income:1000", "expense:-20", "transfer:-15", "expense:-5.5"}, ids(high.Items))

	low, err := Build(sampleInput(), Query{Sort: SortLowest}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"expense:-5.5", "transfer:-15", "expense:-20", "income:1000"}, ids(low.Items))
}

func TestBuild_MonthFilterIsExact(t *testing.T) {
	in := sampleInput()

	march, err := Build(in, Query{Month: "Mar 2024"}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"expense:-5.5"}, ids(march.Items))

	april, err := Build(in, Query{Month: "Apr 2024"}, opts())
	require.NoError(t, err)
	assert.Empty(t, april.Items)
	assert.Empty(t, april.Buckets)

	assert.Equal(t, []string{"May 2024", "Mar 2024"}, march.Months)
}

func TestBuild_TypeAndCategoryFilters(t *testing.T) {
	in := sampleInput()

	transfers, err := Build(in, Query{Type: domain.KindTransfer}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"transfer:-15"}, ids(transfers.Items))

	byCategory, err := Build(in, Query{Categories: []string{"Food", "Salary"}}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"income:1000", "expense:-20"}, ids(byCategory.Items))
}

func TestBuild_SummaryFollowsMonth(t *testing.T) {
	feed, err := Build(sampleInput(), Query{Month: "May 2024", Type: domain.KindExpense}, opts())
	require.NoError(t, err)

	assert.True(t, feed.Summary.Income.Equal(money.MustParse("1000")))
	assert.True(t, feed.Summary.Expense.Equal(money.MustParse("20")))
	assert.True(t, feed.Summary.Net.Equal(money.MustParse("980")))
}

func TestBuild_WalletScope(t *testing.T) {
	in := sampleInput()

	cash := int64(2)
	feed, err := Build(in, Query{WalletID: &cash}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"transfer:15", "expense:-5.5"}, ids(feed.Items))

	bank := int64(1)
	feed, err = Build(in, Query{WalletID: &bank}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"transfer:-15", "income:1000", "expense:-20"}, ids(feed.Items))
}

func TestBuild_Display(t *testing.T) {
	o := opts()
	o.Currency = "USD"
	feed, err := Build(sampleInput(), Query{}, o)
	require.NoError(t, err)

	byKey := map[string]DisplayTransaction{}
	for _, it := range feed.Items {
		byKey[ids([]DisplayTransaction{it})[0]] = it
	}

	transfer := byKey["transfer:-15"]
	assert.Equal(t, TitleTransfer, transfer.Title)
	assert.Equal(t, "Bank → Cash", transfer.Description)
	assert.Equal(t, TransferStyle.Icon, transfer.Icon)
	assert.Equal(t, "-$15.00", transfer.DisplayAmount)

	// User-defined category without a type matches any kind.
	assert.Equal(t, "bus", byKey["expense:-5.5"].Icon)
	assert.Equal(t, "cash", byKey["income:1000"].Icon)

	_, err = Build(sampleInput(), Query{}, Options{Currency: "GBP"})
	assert.ErrorIs(t, err, util.ErrUnsupportedCurrency)
}

func TestBuild_DeletedCategoryFallsBackToDefaults(t *testing.T) {
	in := sampleInput()
	in.Categories = nil
	in.Expenses = append(in.Expenses, domain.Entry{
		ID: 3, Amount: money.MustParse("1"), Category: "Mystery", WalletID: 1, CreatedAt: at("2024-05-03T00:00:00Z"),
	})

	feed, err := Build(in, Query{Type: domain.KindExpense}, opts())
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)

	assert.Equal(t, "Mystery", feed.Items[0].Title)
	assert.Equal(t, FallbackStyle.Icon, feed.Items[0].Icon)
	assert.True(t, feed.Items[0].SignedAmount.IsNegative(), "kind comes from the source list")

	food := feed.Items[1]
	assert.Equal(t, "Food", food.Title)
	assert.Equal(t, "fast-food", food.Icon)
	assert.Equal(t, "#FF7043", food.Color)
}

func TestResolveStyle_PrefersUserCategory(t *testing.T) {
	owner := uuid.New()
	cats := []domain.Category{
		{Name: "Food", Icon: "global", Color: "#111111", Type: domain.KindExpense},
		{UserID: &owner, Name: "food", Icon: "mine", Color: "#222222", Type: domain.KindExpense},
		{UserID: &owner, Name: "Food", Icon: "income-only", Color: "#333333", Type: domain.KindIncome},
	}

	assert.Equal(t, "mine", ResolveStyle(cats, "Food", domain.KindExpense).Icon)
	assert.Equal(t, "income-only", ResolveStyle(cats, "Food", domain.KindIncome).Icon)
	assert.Equal(t, FallbackStyle, ResolveStyle(nil, "", domain.KindExpense))
}

func TestDayLabel(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	now := at("2024-05-10T20:00:00Z") // May 11 03:00 local

	assert.Equal(t, LabelToday, DayLabel(at("2024-05-10T18:00:00Z"), now, loc))
	assert.Equal(t, LabelYesterday, DayLabel(at("2024-05-10T10:00:00Z"), now, loc))
	assert.Equal(t, "May 9, 2024", DayLabel(at("2024-05-09T10:00:00Z"), now, loc))
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, s)

	s, err = ParseSort("highest")
	require.NoError(t, err)
	assert.Equal(t, SortHighest, s)

	_, err = ParseSort("random")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
