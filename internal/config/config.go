package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port        string
	DatabaseURL string

	// DBMaxConns en 0 deja el default de pgxpool.
	DBMaxConns int32

	AppName        string
	AppVersion     string
	AppDescription string
	AppAuthor      string

	Env            string
	LogLevel       string
	RequestTimeout time.Duration
	RunMigrations  bool
}

// Load lee variables de entorno (y opcionalmente un archivo apuntado por CONFIG_FILE)
// y valida lo mínimo indispensable.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_NAME", "Product Catalog API")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_DESCRIPTION", "REST API for managing a product catalog")
	v.SetDefault("APP_AUTHOR", "Catalog Team")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_MAX_CONNS", 0)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "8080"
	}
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	requestTimeout := v.GetDuration("REQUEST_TIMEOUT")
	if requestTimeout < 0 {
		return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %s", v.GetString("REQUEST_TIMEOUT"))
	}

	maxConns := v.GetInt64("DB_MAX_CONNS")
	if maxConns < 0 || maxConns > math.MaxInt32 {
		return Config{}, fmt.Errorf("invalid DB_MAX_CONNS: %s", v.GetString("DB_MAX_CONNS"))
	}

	return Config{
		Port:           port,
		DatabaseURL:    databaseURL,
		DBMaxConns:     int32(maxConns),
		AppName:        v.GetString("APP_NAME"),
		AppVersion:     v.GetString("APP_VERSION"),
		AppDescription: v.GetString("APP_DESCRIPTION"),
		AppAuthor:      v.GetString("APP_AUTHOR"),
		Env:            strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		RequestTimeout: requestTimeout,
		RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
	}, nil
}
