// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pocketledger/internal/api/handler"
)

// Handlers groups the resource handlers mounted under /api/v1.
type Handlers struct {
	Wallets     *handler.WalletHandler
	Expenses    *handler.EntryHandler
	Income      *handler.EntryHandler
	Transfers   *handler.TransferHandler
	Categories  *handler.CategoryHandler
	Feed        *handler.FeedHandler
	Preferences *handler.PreferencesHandler
}

// RouterOptions configures the cross-cutting middleware.
type RouterOptions struct {
	AllowedOrigins []string
	// Authenticate resolves the session user or rejects the request.
	Authenticate func(http.Handler) http.Handler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if opts.Authenticate != nil {
			r.Use(opts.Authenticate)
		} else {
			logger.Warn("API routes are mounted without authentication")
		}

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", h.Wallets.List)
			r.Post("/", h.Wallets.Create)
			r.Get("/{walletID}", h.Wallets.Get)
			r.Put("/{walletID}", h.Wallets.Update)
			r.Delete("/{walletID}", h.Wallets.Delete)
			r.Get("/{walletID}/transactions", h.Feed.WalletTransactions)
		})

		mountEntries(r, "/expenses", h.Expenses)
		mountEntries(r, "/income", h.Income)

		// Transfer is a separate top-level resource as it involves two wallets
		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", h.Transfers.List)
			r.Post("/", h.Transfers.Create)
			r.Get("/{transferID}", h.Transfers.Get)
			r.Put("/{transferID}", h.Transfers.Update)
			r.Delete("/{transferID}", h.Transfers.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Get("/{categoryID}", h.Categories.Get)
			r.Put("/{categoryID}", h.Categories.Update)
			r.Delete("/{categoryID}", h.Categories.Delete)
		})

		r.Get("/transactions", h.Feed.Transactions)
		r.Get("/transactions/months", h.Feed.Months)

		r.Get("/preferences/currency", h.Preferences.GetCurrency)
		r.Put("/preferences/currency", h.Preferences.SetCurrency)
		r.Get("/currencies", h.Preferences.Currencies)
	})

	return r
}

func mountEntries(r chi.Router, pattern string, h *handler.EntryHandler) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{entryID}", h.Get)
		r.Put("/{entryID}", h.Update)
		r.Delete("/{entryID}", h.Delete)
	})
}
