package admin

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// objectKey accepts either a raw key or an account id, filepath and version
// id triple.
func objectKey(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	accountID, err := uuid.Parse(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: account id %q", common.ErrorInvalidInput, args[0])
	}
	versionID, err := uuid.Parse(args[2])
	if err != nil {
		return "", fmt.Errorf("%w: version id %q", common.ErrorInvalidInput, args[2])
	}
	return storage.ObjectKey(accountID, args[1], versionID), nil
}

func (a *admin) objectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Inspect stored blobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stat <key> | <account_id> <filepath> <version_id>",
		Short: "Print the attributes of one blob",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("accepts 1 or 3 args, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := objectKey(args)
			if err != nil {
				return err
			}
			s, err := a.store(cmd)
			if err != nil {
				return err
			}
			attrs, err := s.GetObjectAttributes(cmd.Context(), key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:           %s\n", attrs.Key)
			fmt.Fprintf(out, "size:          %s (%d bytes)\n", humanize.Bytes(uint64(attrs.Size)), attrs.Size)
			fmt.Fprintf(out, "content-type:  %s\n", attrs.ContentType)
			fmt.Fprintf(out, "etag:          %s\n", attrs.ETag)
			fmt.Fprintf(out, "last-modified: %s\n", attrs.LastModified.UTC().Format(time.RFC3339))
			return nil
		},
	})

	return cmd
}
