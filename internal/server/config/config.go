// Package config handles configuration for the Ark server, layering
// defaults, an optional JSON file, environment variables and command-line
// flags, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// MaxFileSizeLimit is the largest accepted MaxFileSize. Upload reads one
// byte past the cap to detect oversized bodies.
const MaxFileSizeLimit = math.MaxInt64 - 1

// Config holds runtime settings for the Ark server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - DBMaxOpenConns / DBMaxIdleConns / DBConnMaxLifetime: connection pool sizing.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - MaxFileSize: upload body cap in bytes.
//   - RequestTimeout / ReadTimeout / ObjectStoreTimeout / HealthCheckTimeout: deadlines.
//   - ArchiveFiles / ArchiveServer: dependencies probed by the health check.
//   - LogLevel: debug, info, warn or error.
//   - SecretKey: HMAC secret for bearer tokens; empty disables auth.
type Config struct {
	EndpointAddrHTTP   string
	DatabaseDSN        string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
	MaxFileSize        int64
	RequestTimeout     time.Duration
	ReadTimeout        time.Duration
	ObjectStoreTimeout time.Duration
	HealthCheckTimeout time.Duration
	ArchiveFiles       string
	ArchiveServer      string
	LogLevel           string
	SecretKey          string
}

// LoadDefaults populates the optional settings. Connection strings,
// credentials and the bucket have no defaults and must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DBMaxOpenConns = 10
	c.DBMaxIdleConns = 5
	c.DBConnMaxLifetime = 30 * time.Minute
	c.S3Region = "us-east-1"
	c.MaxFileSize = 1_000_000_000
	c.RequestTimeout = 10 * time.Minute
	c.ReadTimeout = 10 * time.Minute
	c.ObjectStoreTimeout = 5 * time.Minute
	c.HealthCheckTimeout = 5 * time.Second
	c.LogLevel = "info"
}

// Validate reports every missing required value and every out-of-range
// setting at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"database DSN", c.DatabaseDSN},
		{"S3 access key", c.S3AccessKey},
		{"S3 secret key", c.S3SecretKey},
		{"S3 bucket", c.S3Bucket},
		{"S3 region", c.S3Region},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.DBMaxOpenConns <= 0 {
		errs = append(errs, errors.New("db max open conns must be positive"))
	}
	if c.DBMaxIdleConns < 0 {
		errs = append(errs, errors.New("db max idle conns must not be negative"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("max file size must be positive"))
	} else if c.MaxFileSize > MaxFileSizeLimit {
		errs = append(errs, fmt.Errorf("max file size must not exceed %d bytes", int64(MaxFileSizeLimit)))
	}
	if c.ObjectStoreTimeout <= 0 {
		errs = append(errs, errors.New("object store timeout must be positive"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then the environment, then command-line flags, and validates
// the result.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], true)
}

// LoadConfigNoFlags is LoadConfig for binaries that own their command line
// (the admin CLI). The JSON file path is still honoured.
func LoadConfigNoFlags(args []string) (*Config, error) {
	return load(args, false)
}

func load(args []string, withFlags bool) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if withFlags {
		if err := parseFlags(cfg, args); err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
