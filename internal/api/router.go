package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Personal-Hub-Backend/internal/api/middleware"
	"github.com/ndewijer/Personal-Hub-Backend/internal/config"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System      *service.SystemService
	Balance     *service.BalanceService
	Transaction *service.TransactionService
	Investment  *service.InvestmentService
	Note        *service.NoteService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/balance", func(r chi.Router) {
			balanceHandler := handlers.NewBalanceHandler(services.Balance)
			r.Get("/", balanceHandler.GetBalance)
			r.Get("/cached", balanceHandler.GetCachedBalance)
			r.Post("/refresh", balanceHandler.RefreshBalance)
			r.Post("/stale", balanceHandler.MarkStale)
			r.Delete("/cache", balanceHandler.InvalidateCache)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transaction)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSequentialIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/investment", func(r chi.Router) {
			investmentHandler := handlers.NewInvestmentHandler(services.Investment)
			r.Get("/", investmentHandler.AllInvestments)
			r.Post("/", investmentHandler.CreateInvestment)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/profit-loss", investmentHandler.UpdateProfitLoss)
				r.Delete("/", investmentHandler.DeleteInvestment)
			})
		})

		r.Route("/note", func(r chi.Router) {
			noteHandler := handlers.NewNoteHandler(services.Note)
			r.Get("/", noteHandler.AllNotes)
			r.Post("/", noteHandler.CreateNote)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSequentialIDMiddleware)
				r.Get("/", noteHandler.GetNote)
				r.Put("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
			})
		})
	})

	return r
}
