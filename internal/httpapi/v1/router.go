// Package v1 wires the HTTP surface of the library service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
    "log/slog"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"

    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/service/book"
    "github.com/owhenrique/library/internal/service/lending"
    "github.com/owhenrique/library/internal/service/user"
)

// Server wires handlers and middleware using Chi.
// It composes read and write dependencies through services.
type Server struct {
    lendingSvc lending.Service
    bookSvc    book.Service
    userSvc    user.Service
    store      Repository
    tokens     *tokenIssuer
    pol        lending.Policy
    log        *slog.Logger
    rt         *chi.Mux
}

func (s *Server) policy() lending.Policy { return s.pol }

// New constructs the HTTP server with routes and middleware.
// The logger is used by basic request/response logging and panic recovery.
func New(store Repository, policy lending.Policy, auth AuthConfig, rl RateLimitConfig, logger *slog.Logger) *Server {
    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)
    if rl.RequestsPerMinute > 0 {
        r.Use(rateLimitMiddleware(rl))
    }

    s := &Server{
        lendingSvc: lending.New(store, store, policy),
        bookSvc:    book.New(store, store),
        userSvc:    user.New(store, store),
        store:      store,
        tokens:     newTokenIssuer(auth),
        pol:        policy,
        rt:         r,
        log:        logger,
    }
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches per-route
// authentication and role gates.
func (s *Server) routes() {
    staff := []library.Role{library.RoleAdmin, library.RoleLibrarian}

    // Auth (v1)
    s.rt.Post("/v1/auth/login", s.login)

    // Users (v1)
    s.rt.With(s.requireRole(staff...)).Post("/v1/users", s.postUser)
    s.rt.With(s.requireRole(staff...)).Get("/v1/users", s.listUsers)
    s.rt.With(s.requireRole(staff...)).Get("/v1/users/{id}", s.getUser)

    // Books (v1)
    s.rt.With(s.requireRole(staff...)).Post("/v1/books", s.postBook)
    s.rt.With(s.requireRole()).Get("/v1/books", s.listBooks)
    s.rt.With(s.requireRole()).Get("/v1/books/{id}", s.getBook)
    s.rt.With(s.requireRole()).Get("/v1/books/{id}/availability", s.getBookAvailability)
    s.rt.With(s.requireRole(staff...)).Post("/v1/books/{id}/copies", s.postBookCopies)

    // Lendings (v1)
    s.rt.With(s.requireRole(staff...)).Post("/v1/lendings", s.postLending)
    s.rt.With(s.requireRole(staff...)).Post("/v1/lendings/{id}/return", s.returnLending)
    s.rt.With(s.requireRole(staff...)).Get("/v1/lendings/active", s.listActiveLendings)
    s.rt.With(s.requireRole()).Get("/v1/lendings/user/{id}", s.listUserLendings)

    // Health + metrics (unversioned)
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Get("/metrics", metricsHandler().ServeHTTP)
}
