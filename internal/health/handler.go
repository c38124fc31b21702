package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/product-catalog-api/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Pinger es lo único que necesita el readiness check de la DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AppInfo describe la aplicación para /health e /info.
type AppInfo struct {
	Name        string
	Version     string
	Description string
	Author      string
}

// Handler encapsula endpoints de health.
type Handler struct {
	db   Pinger
	info AppInfo
	now  func() time.Time
}

// New crea un handler de health.
// db puede ser nil: en ese caso /ready responde 503.
func New(db Pinger, info AppInfo) *Handler {
	return &Handler{
		db:   db,
		info: info,
		now:  time.Now,
	}
}

// RegisterRoutes monta /health, /info y /ready en el router recibido.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Get("/health", handler.Health)
	route.Get("/info", handler.Info)
	route.Get("/ready", handler.Ready)
}

// Health indica si el proceso está vivo.
// NO chequea base de datos. Eso va en /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, "Application is healthy", map[string]string{
		"status":      "UP",
		"application": handler.info.Name,
		"version":     handler.info.Version,
		"timestamp":   handler.now().UTC().Format(time.RFC3339),
	})
}

// Info devuelve metadatos estáticos de la aplicación.
func (handler *Handler) Info(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, "Application info", map[string]string{
		"name":        handler.info.Name,
		"version":     handler.info.Version,
		"description": handler.info.Description,
		"author":      handler.info.Author,
	})
}

// Ready indica si la app puede atender tráfico (DB alcanzable).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.db == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := handler.db.Ping(ctx); err != nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database is not reachable")
		return
	}

	httpx.OK(w, http.StatusOK, "Application is ready", map[string]string{
		"status": "ready",
	})
}
