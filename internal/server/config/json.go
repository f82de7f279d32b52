package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ark/internal/flagx"
	"github.com/dmitrijs2005/ark/internal/timex"
	"github.com/dustin/go-humanize"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "30s" strings or nanoseconds; the file size accepts "100MB".
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	DBMaxOpenConns     int            `json:"db_max_open_conns"`
	DBMaxIdleConns     int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime  timex.Duration `json:"db_conn_max_lifetime"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	MaxFileSize        string         `json:"max_file_size"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	ReadTimeout        timex.Duration `json:"read_timeout"`
	ObjectStoreTimeout timex.Duration `json:"object_store_timeout"`
	HealthCheckTimeout timex.Duration `json:"health_check_timeout"`
	ArchiveFiles       string         `json:"archive_files"`
	ArchiveServer      string         `json:"archive_server"`
	LogLevel           string         `json:"log_level"`
	SecretKey          string         `json:"secret_key"`
}

// parseJson overlays values from the JSON file given with -c/-config.
// Keys absent from the file leave the current value untouched. Without the
// flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	setDuration(&config.DBConnMaxLifetime, c.DBConnMaxLifetime)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.RequestTimeout, c.RequestTimeout)
	setDuration(&config.ReadTimeout, c.ReadTimeout)
	setDuration(&config.ObjectStoreTimeout, c.ObjectStoreTimeout)
	setDuration(&config.HealthCheckTimeout, c.HealthCheckTimeout)
	setString(&config.ArchiveFiles, c.ArchiveFiles)
	setString(&config.ArchiveServer, c.ArchiveServer)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)

	if c.MaxFileSize != "" {
		size, err := humanize.ParseBytes(c.MaxFileSize)
		if err != nil {
			return err
		}
		config.MaxFileSize = int64(size)
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
