package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultMySQLDSN    = "root:@tcp(127.0.0.1:3306)/orderdesk?parseTime=true&loc=UTC&charset=utf8mb4&multiStatements=true&timeout=5s&readTimeout=30s&writeTimeout=30s"
	defaultPostgresDSN = "postgres://postgres@127.0.0.1:5432/orderdesk?sslmode=disable"
)

type Env struct {
	AppAddr            string
	GinMode            string
	DBDriver           string
	DBDSN              string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	RateLimitBurst     int
	DefaultLimit       int
}

// LoadEnv reads an optional .env file, then the process environment, which wins.
func LoadEnv() Env {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // optional
	return loadFrom(v)
}

func loadFrom(v *viper.Viper) Env {
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 300)
	v.SetDefault("RATE_LIMIT_BURST", 60)
	v.SetDefault("DEFAULT_LIMIT", 20)

	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	dsn := strings.TrimSpace(v.GetString("DB_DSN"))
	if dsn == "" {
		dsn = defaultMySQLDSN
		if driver == "postgres" || driver == "pgx" || driver == "postgresql" {
			dsn = defaultPostgresDSN
		}
	}

	ttl := v.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		DBDriver:           driver,
		DBDSN:              dsn,
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           ttl,
		CORSAllowedOrigins: origins,
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		DefaultLimit:       v.GetInt("DEFAULT_LIMIT"),
	}
}
