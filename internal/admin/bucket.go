package admin

import (
	"fmt"

	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/spf13/cobra"
)

func (a *admin) store(cmd *cobra.Command) (storage.ObjectStore, error) {
	s, err := openStore(cmd.Context(), a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}
	return s, nil
}

func (a *admin) bucketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Manage the configured bucket",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd)
			if err != nil {
				return err
			}
			if err := s.CreateBucket(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bucket %s created\n", a.cfg.S3Bucket)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create the configured bucket unless it exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd)
			if err != nil {
				return err
			}
			if err := s.EnsureBucket(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bucket %s ready\n", a.cfg.S3Bucket)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the buckets visible to the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd)
			if err != nil {
				return err
			}
			names, err := s.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})

	return cmd
}
