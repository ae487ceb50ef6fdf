package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tradedesk/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	accountSvc *service.AccountService,
	orderSvc *service.OrderService,
	tradeSvc *service.TradeService,
	portfolioSvc *service.PortfolioService,
	stockSvc *service.StockService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	accountH := NewAccountHandler(accountSvc)
	orderH := NewOrderHandler(orderSvc)
	tradeH := NewTradeHandler(tradeSvc)
	portfolioH := NewPortfolioHandler(portfolioSvc)
	stockH := NewStockHandler(stockSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Account routes.
	r.Post("/accounts", accountH.Create)
	r.Get("/accounts", accountH.List)
	r.Get("/accounts/{account_id}", accountH.Get)
	r.Post("/accounts/{account_id}/deposit", accountH.Deposit)
	r.Post("/accounts/{account_id}/withdraw", accountH.Withdraw)
	r.Post("/transfers", accountH.Transfer)

	// Order routes.
	r.Post("/orders", orderH.Place)
	r.Get("/orders", orderH.List)
	r.Get("/orders/{order_id}", orderH.Get)
	r.Delete("/orders/{order_id}", orderH.Cancel)
	r.Get("/accounts/{account_id}/orders", orderH.ListByAccount)

	// Trade routes.
	r.Post("/trades", tradeH.Execute)
	r.Get("/trades", tradeH.Recent)
	r.Get("/trades/{trade_id}", tradeH.Get)
	r.Post("/stocks/{stock_id}/match", tradeH.Match)
	r.Get("/stocks/{stock_id}/trades", tradeH.ListByStock)

	// Portfolio routes.
	r.Get("/accounts/{account_id}/portfolio", portfolioH.Summary)
	r.Get("/accounts/{account_id}/portfolio/holdings", portfolioH.Holdings)

	// Stock routes.
	r.Get("/stocks", stockH.List)
	r.Get("/stocks/{stock_id}", stockH.Get)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
