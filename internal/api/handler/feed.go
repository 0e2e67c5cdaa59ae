// internal/api/handler/feed.go
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"pocketledger/internal/aggregator"
	"pocketledger/internal/api/types"
	"pocketledger/internal/domain"
	"pocketledger/internal/util"
)

// FeedLedger builds the transaction feed.
type FeedLedger interface {
	Feed(ctx context.Context, q aggregator.Query) (aggregator.Feed, error)
}

// FeedHandler serves the merged, filtered transaction list.
type FeedHandler struct {
	service FeedLedger
	logger  *slog.Logger
}

func NewFeedHandler(svc FeedLedger, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{service: svc, logger: logger}
}

// allFilter is the picker value that disables a filter.
const allFilter = "all"

// parseFeedQuery reads month, type, sort and the repeatable category parameter.
func parseFeedQuery(r *http.Request) (aggregator.Query, error) {
	values := r.URL.Query()
	var q aggregator.Query

	if month := strings.TrimSpace(values.Get("month")); !strings.EqualFold(month, allFilter) {
		q.Month = month
	}

	if raw := strings.TrimSpace(values.Get("type")); raw != "" && !strings.EqualFold(raw, allFilter) {
		kind, ok := domain.ParseKind(raw)
		if !ok {
			return q, fmt.Errorf("%w: unknown type %q", util.ErrInvalidInput, raw)
		}
		q.Type = kind
	}

	for _, c := range values["category"] {
		if c = strings.TrimSpace(c); c != "" {
			q.Categories = append(q.Categories, c)
		}
	}

	sort, err := aggregator.ParseSort(values.Get("sort"))
	if err != nil {
		return q, err
	}
	q.Sort = sort
	return q, nil
}

// Transactions handles the feed request.
// GET /transactions?month=Jan%202025&type=expense&category=Food&category=Transport&sort=Highest
func (h *FeedHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	q, err := parseFeedQuery(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	feed, err := h.service.Feed(r.Context(), q)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[aggregator.Feed]{Data: feed})
}

// WalletTransactions handles the feed request for a single wallet. Transfers are signed from
// that wallet's side.
// GET /wallets/{walletID}/transactions
func (h *FeedHandler) WalletTransactions(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletID")
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	q, err := parseFeedQuery(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	q.WalletID = &walletID

	feed, err := h.service.Feed(r.Context(), q)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.DataResponse[aggregator.Feed]{Data: feed})
}

// Months lists the month labels present in the user's ledger, newest first.
// GET /transactions/months
func (h *FeedHandler) Months(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Feed(r.Context(), aggregator.Query{Sort: aggregator.SortNewest})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.NewListResponse(feed.Months))
}
