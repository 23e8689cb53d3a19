package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable that points at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bank-sync/config.yaml",
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			DBName:          "banksync",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Payments: PaymentsConfig{
			BaseURL:           "https://api.airwallex.com/api/v1",
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
			MaxRetryDelay:     30 * time.Second,
			PageSize:          100,
			BreakerFailures:   5,
			BreakerTimeout:    60 * time.Second,
		},
		Sync: SyncConfig{
			Name:          "default",
			Schedule:      "Daily",
			CheckInterval: time.Minute,
			RunTimeout:    time.Hour,
			QueueSize:     8,
		},
		TokenCache: TokenCacheConfig{
			Backend:      "memory",
			TTL:          time.Hour,
			ExpiryBuffer: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:   true,
			Retention: 30 * 24 * time.Hour,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		MockProvider: MockProviderConfig{
			Port:         "9090",
			ClientID:     "mock-client",
			APIKey:       "mock-api-key",
			TokenTTL:     time.Hour,
			Transactions: 250,
		},
	}
}

// Load layers struct defaults, an optional YAML file and environment variables,
// in increasing priority. An empty path falls back to CONFIG_PATH and the default paths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processMapFields(k); err != nil {
		return nil, fmt.Errorf("failed to process map fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var envMappings = map[string]string{
	"port":                    "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_idle_timeout":     "server.idle_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_sslmode":           "database.sslmode",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",

	"payments_base_url":            "payments.base_url",
	"payments_client_id":           "payments.client_id",
	"payments_api_key":             "payments.api_key",
	"payments_request_timeout":     "payments.request_timeout",
	"payments_requests_per_second": "payments.requests_per_second",
	"payments_burst":               "payments.burst",
	"payments_max_retries":         "payments.max_retries",
	"payments_retry_base_delay":    "payments.retry_base_delay",
	"payments_max_retry_delay":     "payments.max_retry_delay",
	"payments_page_size":           "payments.page_size",
	"payments_breaker_failures":    "payments.breaker_failures",
	"payments_breaker_timeout":     "payments.breaker_timeout",

	"sync_name":                  "sync.name",
	"sync_enabled":               "sync.enabled",
	"sync_schedule":              "sync.schedule",
	"sync_check_interval":        "sync.check_interval",
	"sync_run_timeout":           "sync.run_timeout",
	"sync_queue_size":            "sync.queue_size",
	"sync_old_transactions":      "sync.sync_old_transactions",
	"sync_from_date":             "sync.from_date",
	"sync_to_date":               "sync.to_date",
	"sync_account_mappings":      "sync.account_mappings",
	"sync_default_bank_account":  "sync.default_account",
	"token_cache_backend":        "token_cache.backend",
	"token_cache_path":           "token_cache.path",
	"token_cache_ttl":            "token_cache.ttl",
	"token_cache_expiry_buffer":  "token_cache.expiry_buffer",
	"audit_enabled":              "audit.enabled",
	"audit_retention":            "audit.retention",
	"supervisor_failure_backoff": "supervisor.failure_backoff",

	"mock_provider_port":           "mock_provider.port",
	"mock_provider_client_id":      "mock_provider.client_id",
	"mock_provider_api_key":        "mock_provider.api_key",
	"mock_provider_token_ttl":      "mock_provider.token_ttl",
	"mock_provider_transactions":   "mock_provider.transactions",
	"mock_provider_failure_rate":   "mock_provider.failure_rate",
	"mock_provider_min_latency_ms": "mock_provider.min_latency_ms",
	"mock_provider_max_latency_ms": "mock_provider.max_latency_ms",

	"log_level": "logger.level",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// mapConfigPaths hold map[string]string fields that may arrive from the
// environment as "k1=v1,k2=v2".
var mapConfigPaths = []string{"sync.account_mappings"}

func processMapFields(k *koanf.Koanf) error {
	for _, path := range mapConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parsed, err := parseKeyValueList(strVal)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		// Delete first so the string value does not shadow the nested keys.
		k.Delete(path)
		for key, val := range parsed {
			if err := k.Set(path+"."+key, val); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

func parseKeyValueList(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("malformed entry %q (want key=value)", pair)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return out, nil
}
