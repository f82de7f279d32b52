package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/ark/internal/flagx"
	"github.com/dustin/go-humanize"
)

var serverFlags = []string{"-a", "-d", "-u", "-p", "-b", "-g", "-e", "-m", "-l", "-f", "-w", "-s"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-m string   max upload size (e.g., "100MB")
//	-l string   log level
//	-f string   archive files directory probed by /health
//	-w string   archive server URL probed by /health
//	-s string   bearer token secret
//
// Arguments not in this list are filtered out first with flagx.FilterArgs so
// that -c/-config and foreign flags do not fail the parse.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("ark", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	maxFileSize := fs.String("m", "", "max upload size")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.ArchiveFiles, "f", config.ArchiveFiles, "archive files directory")
	fs.StringVar(&config.ArchiveServer, "w", config.ArchiveServer, "archive server URL")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "bearer token secret")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	if *maxFileSize != "" {
		size, err := humanize.ParseBytes(*maxFileSize)
		if err != nil {
			return err
		}
		config.MaxFileSize = int64(size)
	}

	return nil
}
