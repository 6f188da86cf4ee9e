package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/query"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server
	entities      *services.EntityService
	ledger        *services.LedgerService
	queries       *query.Facade
	authenticator auth.Authenticator
	store         storage.Store
	limiter       *rateLimiter
}

func NewServer(port string, store storage.Store, entities *services.EntityService, ledger *services.LedgerService, queries *query.Facade, authenticator auth.Authenticator) *Server {
	s := &Server{
		entities:      entities,
		ledger:        ledger,
		queries:       queries,
		authenticator: authenticator,
		store:         store,
		limiter:       newRateLimiter(60),
	}

	s.Server = http.Server{
		Addr:              ":" + port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	// User creation is the bootstrap operation and stays open; everything
	// else that mutates runs behind the authenticator.
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.Handle("PUT /users/{id}", s.authed(s.handleUpdateUser))
	mux.Handle("DELETE /users/{id}", s.authed(s.handleDeleteUser))

	mux.Handle("POST /categories", s.authed(s.handleCreateCategory))
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("GET /categories/{id}", s.handleGetCategory)
	mux.Handle("PUT /categories/{id}", s.authed(s.handleUpdateCategory))
	mux.Handle("DELETE /categories/{id}", s.authed(s.handleDeleteCategory))

	mux.Handle("POST /accounts", s.authed(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts", s.handleListAccounts)
	mux.HandleFunc("GET /accounts/{id}", s.handleGetAccount)
	mux.Handle("PUT /accounts/{id}", s.authed(s.handleUpdateAccount))
	mux.Handle("DELETE /accounts/{id}", s.authed(s.handleDeleteAccount))

	mux.Handle("POST /budgets", s.authed(s.handleCreateBudget))
	mux.HandleFunc("GET /budgets", s.handleListBudgets)
	mux.HandleFunc("GET /budgets/{id}", s.handleGetBudget)
	mux.Handle("PUT /budgets/{id}", s.authed(s.handleUpdateBudget))
	mux.Handle("DELETE /budgets/{id}", s.authed(s.handleDeleteBudget))

	mux.Handle("POST /goals", s.authed(s.handleCreateGoal))
	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("GET /goals/{id}", s.handleGetGoal)
	mux.Handle("PUT /goals/{id}", s.authed(s.handleUpdateGoal))
	mux.Handle("DELETE /goals/{id}", s.authed(s.handleDeleteGoal))

	mux.Handle("POST /preferences", s.authed(s.handleCreatePreference))
	mux.HandleFunc("GET /preferences", s.handleListPreferences)
	mux.HandleFunc("GET /preferences/{userID}/{categoryID}", s.handleGetPreference)
	mux.Handle("PUT /preferences/{userID}/{categoryID}", s.authed(s.handleUpdatePreference))
	mux.Handle("DELETE /preferences/{userID}/{categoryID}", s.authed(s.handleDeletePreference))

	mux.Handle("POST /transactions", s.authed(s.handlePostTransaction))
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("GET /transactions/{id}", s.handleGetTransaction)
	mux.Handle("PUT /transactions/{id}", s.authed(s.handleAmendTransaction))
	mux.Handle("DELETE /transactions/{id}", s.authed(s.handleVoidTransaction))

	var handler http.Handler = mux
	handler = s.limiter.middleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// authed resolves the caller before a mutating handler runs.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticator.Authenticate(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	err := s.store.WithinTx(r.Context(), func(tx storage.Tx) error {
		_, err := tx.ListUsers(r.Context())
		return err
	})
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	slog.Info("starting http server", "addr", s.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.shutdown()
	return s.Server.Shutdown(ctx)
}
