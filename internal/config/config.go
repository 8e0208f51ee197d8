package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	Version        string        `envconfig:"VERSION" default:"dev"`
	Environment    string        `envconfig:"ENV" default:"production"`
	Store          string        `envconfig:"STORE" default:"postgres"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" default:""`
	DBMaxConns     int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBConnTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	MigrateOnStart bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"12"`

	AdminEmail              string   `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	DefaultRole             string   `envconfig:"DEFAULT_ROLE" default:"client"`
	DefaultRoleExemptEmails []string `envconfig:"DEFAULT_ROLE_EXEMPT_EMAILS" default:""`
	PublicAssignment        bool     `envconfig:"PUBLIC_ASSIGNMENT" default:"true"`
	SeedRoles               []string `envconfig:"SEED_ROLES" default:"client"`

	SMTP     SMTPConfig     `envconfig:"SMTP"`
	RabbitMQ RabbitMQConfig `envconfig:"RABBITMQ"`
}

// SMTPConfig holds outgoing mail settings (SMTP_*). An empty Host disables email.
type SMTPConfig struct {
	Host     string `envconfig:"HOST" default:""`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME" default:""`
	Password string `envconfig:"PASSWORD" default:""`
	From     string `envconfig:"FROM" default:"noreply@labelstudio.local"`
	TLS      bool   `envconfig:"TLS" default:"true"`
}

// RabbitMQConfig holds the event forwarder settings (RABBITMQ_*). An empty URL
// disables it.
type RabbitMQConfig struct {
	URL   string `envconfig:"URL" default:""`
	Queue string `envconfig:"QUEUE" default:"role_events"`
}

// Load reads configuration from environment variables into a Config struct.
// A .env file is loaded first when ENV=dev.
func Load() (*Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q: expected %q or %q", c.Store, StorePostgres, StoreMemory)
	}

	if c.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL must not be empty")
	}
	return nil
}

// ExemptEmails returns the emails that never receive the default role. The
// admin email is always included.
func (c *Config) ExemptEmails() []string {
	emails := []string{c.AdminEmail}
	for _, e := range c.DefaultRoleExemptEmails {
		e = strings.TrimSpace(e)
		if e != "" && e != c.AdminEmail {
			emails = append(emails, e)
		}
	}
	return emails
}
