package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// DefaultSessionSecret is the placeholder signing key used when
// SESSION_SECRET is unset. Tokens signed with it can be forged by anyone.
const DefaultSessionSecret = "change-me"

type Config struct {
	App struct {
		Name        string `envconfig:"APP_NAME" default:"Till"`
		Port        int    `envconfig:"PORT" default:"8080"`
		DefaultUser string `envconfig:"DEFAULT_USER" default:"admin"`
	}

	DB struct {
		// Driver is one of sqlite, pgx or memory.
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path     string `envconfig:"DB_PATH" default:"till.db"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"till"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Shop struct {
		Name    string `envconfig:"SHOP_NAME" default:"My Shop"`
		Address string `envconfig:"SHOP_ADDRESS"`
		Phone   string `envconfig:"SHOP_PHONE"`
	}

	Storage struct {
		ResetOnCorrupt bool `envconfig:"STORAGE_RESET_ON_CORRUPT" default:"true"`
	}

	Session struct {
		Secret string        `envconfig:"SESSION_SECRET" default:"change-me"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == "pgx" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.DB.Path)
}

// InsecureSessionSecret reports whether tokens are signed with an empty or
// the placeholder secret.
func (c *Config) InsecureSessionSecret() bool {
	return c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret
}

func (c *Config) ShopInfo() shop.Info {
	return shop.Info{Name: c.Shop.Name, Address: c.Shop.Address, Phone: c.Shop.Phone}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
