package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// envBindings maps config keys to environment variables. The ARK_* name is
// checked first; the plain names are the ones the deployment scripts of the
// earlier prototypes exported.
var envBindings = map[string][]string{
	"endpoint_addr_http":   {"ARK_ENDPOINT_ADDR_HTTP"},
	"database_dsn":         {"ARK_DATABASE_DSN", "DATABASE_URL"},
	"db_max_open_conns":    {"ARK_DB_MAX_OPEN_CONNS"},
	"db_max_idle_conns":    {"ARK_DB_MAX_IDLE_CONNS"},
	"db_conn_max_lifetime": {"ARK_DB_CONN_MAX_LIFETIME"},
	"s3_access_key":        {"ARK_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID"},
	"s3_secret_key":        {"ARK_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"},
	"s3_bucket":            {"ARK_S3_BUCKET", "S3_BUCKET_NAME"},
	"s3_region":            {"ARK_S3_REGION", "AWS_REGION"},
	"s3_base_endpoint":     {"ARK_S3_BASE_ENDPOINT", "S3_ENDPOINT_URL"},
	"max_file_size":        {"ARK_MAX_FILE_SIZE"},
	"request_timeout":      {"ARK_REQUEST_TIMEOUT"},
	"read_timeout":         {"ARK_READ_TIMEOUT"},
	"object_store_timeout": {"ARK_OBJECT_STORE_TIMEOUT"},
	"health_check_timeout": {"ARK_HEALTH_CHECK_TIMEOUT"},
	"archive_files":        {"ARK_ARCHIVE_FILES", "ARCHIVE_FILES"},
	"archive_server":       {"ARK_ARCHIVE_SERVER", "ARCHIVE_SERVER"},
	"log_level":            {"ARK_LOG_LEVEL", "LOG_LEVEL"},
	"secret_key":           {"ARK_SECRET_KEY"},
}

// parseEnv overlays values found in the environment. Empty variables count
// as unset.
func parseEnv(config *Config) error {
	v := viper.New()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) error {
		if !v.IsSet(key) {
			return nil
		}
		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		if !v.IsSet(key) {
			return nil
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("endpoint_addr_http", &config.EndpointAddrHTTP)
	str("database_dsn", &config.DatabaseDSN)
	str("s3_access_key", &config.S3AccessKey)
	str("s3_secret_key", &config.S3SecretKey)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)
	str("archive_files", &config.ArchiveFiles)
	str("archive_server", &config.ArchiveServer)
	str("log_level", &config.LogLevel)
	str("secret_key", &config.SecretKey)

	for _, err := range []error{
		num("db_max_open_conns", &config.DBMaxOpenConns),
		num("db_max_idle_conns", &config.DBMaxIdleConns),
		dur("db_conn_max_lifetime", &config.DBConnMaxLifetime),
		dur("request_timeout", &config.RequestTimeout),
		dur("read_timeout", &config.ReadTimeout),
		dur("object_store_timeout", &config.ObjectStoreTimeout),
		dur("health_check_timeout", &config.HealthCheckTimeout),
	} {
		if err != nil {
			return err
		}
	}

	if v.IsSet("max_file_size") {
		size, err := humanize.ParseBytes(v.GetString("max_file_size"))
		if err != nil {
			return fmt.Errorf("max_file_size: %w", err)
		}
		config.MaxFileSize = int64(size)
	}

	return nil
}
