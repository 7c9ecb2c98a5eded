package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "3000"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultPublicDir     = "web/public"
	defaultDataDir       = "data"
	defaultVisitFile     = "visits.json"
	defaultStateFile     = "storefront.json"
	defaultDeliveryCents = 200
	defaultTaxRateBP     = 0
	defaultVisitLimit    = 20

	defaultGeoIPBaseURL = "https://ipapi.co"
	defaultGeoIPTimeout = 3 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	GeoIP      GeoIPConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	PublicDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr returns the listen address derived from the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// StorefrontConfig tunes cart pricing and client state persistence.
type StorefrontConfig struct {
	DataDir string
	// VisitFile is the visit log filename inside DataDir.
	VisitFile string
	// StateFile is the client key-value state filename inside DataDir.
	StateFile          string
	DeliveryFeeCents   int64
	TaxRateBasisPoints int64
	VisitListLimit     int
}

// VisitPath returns the full path of the visit log file.
func (s StorefrontConfig) VisitPath() string {
	return filepath.Join(s.DataDir, s.VisitFile)
}

// StatePath returns the full path of the client state file.
func (s StorefrontConfig) StatePath() string {
	return filepath.Join(s.DataDir, s.StateFile)
}

// GeoIPConfig points at the third-party geolocation lookup service.
type GeoIPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ValidationError reports configuration fields that failed validation.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid fields: %s", strings.Join(e.fields, ", "))
}

// Fields returns the invalid field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups.
// Values in the map take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration with precedence dotenv < OS env < explicit env map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "PORT", defaultPort),
			PublicDir:    stringWithDefault(lookup, "PUBLIC_DIR", defaultPublicDir),
			ReadTimeout:  durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Storefront: StorefrontConfig{
			DataDir:            stringWithDefault(lookup, "DATA_DIR", defaultDataDir),
			VisitFile:          stringWithDefault(lookup, "VISIT_FILE", defaultVisitFile),
			StateFile:          stringWithDefault(lookup, "STATE_FILE", defaultStateFile),
			DeliveryFeeCents:   int64WithDefault(lookup, "DELIVERY_FEE_CENTS", defaultDeliveryCents),
			TaxRateBasisPoints: int64WithDefault(lookup, "TAX_RATE_BP", defaultTaxRateBP),
			VisitListLimit:     intWithDefault(lookup, "VISIT_LIST_LIMIT", defaultVisitLimit),
		},
		GeoIP: GeoIPConfig{
			BaseURL: stringWithDefault(lookup, "GEOIP_BASE_URL", defaultGeoIPBaseURL),
			Timeout: durationWithDefault(lookup, "GEOIP_TIMEOUT", defaultGeoIPTimeout),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if strings.TrimSpace(cfg.Server.PublicDir) == "" {
		invalid = append(invalid, "Server.PublicDir")
	}
	if strings.TrimSpace(cfg.Storefront.DataDir) == "" {
		invalid = append(invalid, "Storefront.DataDir")
	}
	if cfg.Storefront.DeliveryFeeCents < 0 {
		invalid = append(invalid, "Storefront.DeliveryFeeCents")
	}
	if cfg.Storefront.TaxRateBasisPoints < 0 {
		invalid = append(invalid, "Storefront.TaxRateBasisPoints")
	}
	if cfg.Storefront.VisitListLimit < 1 {
		invalid = append(invalid, "Storefront.VisitListLimit")
	}
	if strings.TrimSpace(cfg.GeoIP.BaseURL) == "" {
		invalid = append(invalid, "GeoIP.BaseURL")
	}
	if cfg.GeoIP.Timeout <= 0 {
		invalid = append(invalid, "GeoIP.Timeout")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func int64WithDefault(lookup func(string) (string, bool), key string, fallback int64) int64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
