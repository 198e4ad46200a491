package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	env := loadFrom(viper.New())
	if env.AppAddr != ":8080" || env.DBDriver != "mysql" || env.DefaultLimit != 20 {
		t.Fatalf("unexpected defaults %+v", env)
	}
	if env.DBDSN != defaultMySQLDSN {
		t.Fatalf("unexpected dsn %s", env.DBDSN)
	}
	if env.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %s", env.TokenTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DEFAULT_LIMIT", "50")
	t.Setenv("TOKEN_TTL", "2h")

	env := loadFrom(viper.New())
	if env.DBDriver != "postgres" || env.DBDSN != defaultPostgresDSN {
		t.Fatalf("postgres not picked up: %+v", env)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %#v", env.CORSAllowedOrigins)
	}
	if env.DefaultLimit != 50 || env.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected overrides %+v", env)
	}
}
