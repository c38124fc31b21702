package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Lelo88/product-catalog-api/internal/config"
	"github.com/Lelo88/product-catalog-api/internal/db"
	"github.com/Lelo88/product-catalog-api/internal/docs"
	"github.com/Lelo88/product-catalog-api/internal/health"
	"github.com/Lelo88/product-catalog-api/internal/httpx"
	"github.com/Lelo88/product-catalog-api/internal/logger"
	"github.com/Lelo88/product-catalog-api/internal/products"
)

// appPool es lo que la app necesita del pool: ping para /ready, cierre
// y las operaciones que usa el repositorio de productos.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	products.Database
}

type appDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(level, env string) (*zap.Logger, error)
	migrate        func(databaseURL string) error
	newPool        func(ctx context.Context, cfg config.Config) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
}

// Puntos de inyección para tests de main.
var (
	loadConfigFn = config.Load
	newLoggerFn  = logger.New
	migrateFn    = db.MigrateUp
	newPoolFn    = func(ctx context.Context, cfg config.Config) (appPool, error) {
		return db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
	}
	listenAndServeFn = http.ListenAndServe
	fatalf           = log.Fatal
)

func main() {
	deps := appDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		migrate:        migrateFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
	}

	// Contexto raíz del proceso.
	if err := run(context.Background(), deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	appLogger, err := deps.newLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if cfg.RunMigrations {
		if err := deps.migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		appLogger.Info("migrations applied")
	}

	pool, err := deps.newPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	addr := ":" + cfg.Port
	appLogger.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("version", cfg.AppVersion),
	)
	return deps.listenAndServe(addr, buildRouter(pool, cfg, appLogger))
}

func buildRouter(pool appPool, cfg config.Config, appLogger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.EchoRequestID)
	r.Use(httpx.RequestLogger(appLogger))
	r.Use(httpx.Metrics)
	r.Use(httpx.Recoverer(appLogger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// Errores de routing se manejan a nivel router, con el mismo sobre que el resto.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/metrics", httpx.MetricsHandler())
	docs.RegisterRoutes(r)

	healthHandler := health.New(pool, health.AppInfo{
		Name:        cfg.AppName,
		Version:     cfg.AppVersion,
		Description: cfg.AppDescription,
		Author:      cfg.AppAuthor,
	})

	repository := products.NewRepository(pool)
	service := products.NewService(repository, appLogger)
	productHandler := products.NewHandler(service, appLogger)

	r.Route("/api/v1", func(r chi.Router) {
		health.RegisterRoutes(r, healthHandler)
		products.RegisterRoutes(r, productHandler)
	})

	return r
}

// poolOptions traduce la config a los ajustes del pool.
func poolOptions(cfg config.Config) db.PoolOptions {
	return db.PoolOptions{
		ApplicationName: cfg.AppName,
		MaxConns:        cfg.DBMaxConns,
	}
}
