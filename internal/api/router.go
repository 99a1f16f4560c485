package api

import (
	"database/sql"
	"net/http"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/notify"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/tags"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/tasks"
)

// Config carries the router's dependencies. Services are injected rather
// than instantiated at package scope so tests can substitute fakes.
type Config struct {
	DB        *sql.DB
	JWTSecret string
	Extractor *tags.Extractor
	Notifier  notify.Notifier
	Tasks     *tasks.Runner

	// OpenListing publishes new items without moderation.
	OpenListing bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: cfg.DB, JWTSecret: cfg.JWTSecret}
	itemsHandler := &ItemsHandler{
		DB:          cfg.DB,
		Extractor:   cfg.Extractor,
		Notifier:    cfg.Notifier,
		Tasks:       cfg.Tasks,
		OpenListing: cfg.OpenListing,
	}
	claimsHandler := &ClaimsHandler{DB: cfg.DB, Notifier: cfg.Notifier, Tasks: cfg.Tasks}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.DB)
	optionalAuthMW := OptionalAuthMiddleware(cfg.JWTSecret, cfg.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireModerator := RequireRole(model.RoleModerator)

	// Auth.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Items: reporting and browsing are open to anonymous users; identity,
	// when present, drives the disclosure policy.
	mux.Handle("POST /api/items", optionalAuthMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items", optionalAuthMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", optionalAuthMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("GET /api/items/{id}/matches", authMW(http.HandlerFunc(itemsHandler.Matches)))
	mux.Handle("PUT /api/items/{id}/status", authMW(requireAdmin(http.HandlerFunc(itemsHandler.UpdateStatus))))

	// Admin listing bypasses masking by definition.
	mux.Handle("GET /api/admin/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.AdminList))))

	// Claims: submission open, listing access-controlled, decisions
	// moderator and up.
	mux.Handle("POST /api/claims", optionalAuthMW(http.HandlerFunc(claimsHandler.Create)))
	mux.Handle("GET /api/claims", authMW(http.HandlerFunc(claimsHandler.List)))
	mux.Handle("PUT /api/claims/{id}/status", authMW(requireModerator(http.HandlerFunc(claimsHandler.UpdateStatus))))

	return mux
}
