// Package admin implements arkadmin, the operator command line of Ark. It
// shares the server configuration and talks to the same database and bucket.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ark/internal/buildinfo"
	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/config"
	"github.com/dmitrijs2005/ark/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/spf13/cobra"
)

// Seams for tests.
var (
	loadConfig = config.LoadConfigNoFlags

	openDB = func(cfg *config.Config) (*sql.DB, error) {
		return dbx.OpenPool(cfg.DatabaseDSN, dbx.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
	}

	openStore = func(ctx context.Context, cfg *config.Config, log logging.Logger) (storage.ObjectStore, error) {
		return storage.NewS3Store(ctx, storage.Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Timeout:      cfg.ObjectStoreTimeout,
		}, log)
	}

	newRepositoryManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type admin struct {
	configPath string
	cfg        *config.Config
	log        logging.Logger
}

// NewRootCommand builds the arkadmin command tree.
func NewRootCommand() *cobra.Command {
	a := &admin{}

	root := &cobra.Command{
		Use:           "arkadmin",
		Short:         "Ark administration",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to JSON config file")

	root.AddCommand(a.migrateCommand())
	root.AddCommand(a.bucketCommand())
	root.AddCommand(a.objectCommand())
	root.AddCommand(a.tokenCommand())

	return root
}

func (a *admin) setup() error {
	var args []string
	if a.configPath != "" {
		args = []string{"-config", a.configPath}
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger init error: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

func (a *admin) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, err := openDB(a.cfg)
			if err != nil {
				return fmt.Errorf("db init error: %w", err)
			}
			defer func() {
				if cerr := db.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := newRepositoryManager().RunMigrations(cmd.Context(), db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
