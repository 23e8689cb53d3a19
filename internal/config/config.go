package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logger     LoggerConfig     `koanf:"logger"`
	Database   DatabaseConfig   `koanf:"database"`
	Payments   PaymentsConfig   `koanf:"payments"`
	Sync       SyncConfig       `koanf:"sync"`
	TokenCache TokenCacheConfig `koanf:"token_cache"`
	Audit      AuditConfig      `koanf:"audit"`
	Supervisor SupervisorConfig `koanf:"supervisor"`

	MockProvider MockProviderConfig `koanf:"mock_provider"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            string        `koanf:"port" validate:"required"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	DBName          string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
}

// PaymentsConfig holds the remote payments API credentials and client tuning.
type PaymentsConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	ClientID          string        `koanf:"client_id"`
	APIKey            string        `koanf:"api_key"`
	RequestTimeout    time.Duration `koanf:"request_timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`
	MaxRetries        int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay" validate:"gt=0"`
	MaxRetryDelay     time.Duration `koanf:"max_retry_delay" validate:"gtefield=RetryBaseDelay"`
	PageSize          int           `koanf:"page_size" validate:"min=1,max=1000"`
	BreakerFailures   uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// SyncConfig holds the integration setting and run parameters.
type SyncConfig struct {
	Name            string            `koanf:"name" validate:"required"`
	Enabled         bool              `koanf:"enabled"`
	Schedule        string            `koanf:"schedule" validate:"oneof=Hourly Daily Weekly Monthly"`
	CheckInterval   time.Duration     `koanf:"check_interval" validate:"gt=0"`
	RunTimeout      time.Duration     `koanf:"run_timeout" validate:"gt=0"`
	QueueSize       int               `koanf:"queue_size" validate:"min=1"`
	SyncOldOnStart  bool              `koanf:"sync_old_transactions"`
	FromDate        string            `koanf:"from_date"`
	ToDate          string            `koanf:"to_date"`
	AccountMappings map[string]string `koanf:"account_mappings"`
	DefaultAccount  string            `koanf:"default_account"`
}

// TokenCacheConfig selects where the bearer token slot lives.
type TokenCacheConfig struct {
	Backend      string        `koanf:"backend" validate:"oneof=memory badger"`
	Path         string        `koanf:"path"`
	TTL          time.Duration `koanf:"ttl" validate:"gt=0"`
	ExpiryBuffer time.Duration `koanf:"expiry_buffer" validate:"gte=0"`
}

// AuditConfig controls the integration request log.
type AuditConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Retention time.Duration `koanf:"retention" validate:"gte=0"`
}

// SupervisorConfig tunes the service supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
}

// MockProviderConfig configures the local fake payments API, including the
// latency and failure injection applied to its endpoints.
type MockProviderConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ClientID     string        `koanf:"client_id" validate:"required"`
	APIKey       string        `koanf:"api_key" validate:"required"`
	TokenTTL     time.Duration `koanf:"token_ttl" validate:"gt=0"`
	Transactions int           `koanf:"transactions" validate:"min=0"`
	FailureRate  float64       `koanf:"failure_rate" validate:"min=0,max=1"`
	MinLatencyMS int           `koanf:"min_latency_ms" validate:"min=0"`
	MaxLatencyMS int           `koanf:"max_latency_ms" validate:"min=0"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"` // debug, info, warn, error
}

// DateLayout is the calendar date format used for sync windows.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Sync.Enabled {
		if c.Payments.ClientID == "" {
			return fmt.Errorf("payments client id cannot be empty when sync is enabled")
		}
		if c.Payments.APIKey == "" {
			return fmt.Errorf("payments api key cannot be empty when sync is enabled")
		}
	}

	if c.Sync.SyncOldOnStart {
		from, err := time.Parse(DateLayout, c.Sync.FromDate)
		if err != nil {
			return fmt.Errorf("invalid sync from_date %q: %w", c.Sync.FromDate, err)
		}
		to, err := time.Parse(DateLayout, c.Sync.ToDate)
		if err != nil {
			return fmt.Errorf("invalid sync to_date %q: %w", c.Sync.ToDate, err)
		}
		if from.After(to) {
			return fmt.Errorf("sync from_date (%s) must be <= to_date (%s)", c.Sync.FromDate, c.Sync.ToDate)
		}
	}

	if c.TokenCache.Backend == "badger" && c.TokenCache.Path == "" {
		return fmt.Errorf("token cache path cannot be empty for the badger backend")
	}

	if c.MockProvider.MinLatencyMS > c.MockProvider.MaxLatencyMS {
		return fmt.Errorf("mock provider min latency (%d) must be <= max latency (%d)", c.MockProvider.MinLatencyMS, c.MockProvider.MaxLatencyMS)
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("max idle conns (%d) must be <= max open conns (%d)", c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
