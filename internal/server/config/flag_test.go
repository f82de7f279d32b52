package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-u", "user", "-p", "password",
				"-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-m", "10MB",
				"-l", "debug", "-f", "/srv/files", "-w", "http://archive", "-s", "secret",
			},
			expected: &Config{
				EndpointAddrHTTP: "127.0.0.1:9090",
				DatabaseDSN:      "db",
				S3AccessKey:      "user",
				S3SecretKey:      "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
				MaxFileSize:      10_000_000,
				LogLevel:         "debug",
				ArchiveFiles:     "/srv/files",
				ArchiveServer:    "http://archive",
				SecretKey:        "secret",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-config", "ark.json", "-x", "1", "-b", "bucket"},
			expected: &Config{S3Bucket: "bucket"},
		},
		{
			name:    "bad size",
			args:    []string{"-m", "huge"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
