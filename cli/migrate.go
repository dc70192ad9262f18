package cli

import (
	"fmt"

	"github.com/feraszen/keytop-fresh/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var toDriver, toPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the cart, orders and invoice counter to another store",
		Long: `Copies every record of the configured store (--store, --store-path) into
the store named by --to. Records already present in the target are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if toDriver == "" {
				return fmt.Errorf("--to is required")
			}

			target := opts.cfg
			target.StoreDriver = toDriver
			if cmd.Flags().Changed("to-path") {
				target.StorePath = toPath
			}
			if err := target.Validate(); err != nil {
				return fmt.Errorf("invalid target: %w", err)
			}
			if target.StoreDriver == opts.cfg.StoreDriver && target.StorePath == opts.cfg.StorePath {
				return fmt.Errorf("source and target are the same store")
			}

			src, err := store.OpenBackend(ctx, opts.cfg, opts.log)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer src.Close()
			dst, err := store.OpenBackend(ctx, target, opts.log)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer dst.Close()

			opts.log.Info("starting migration",
				zap.String("from", opts.cfg.StoreDriver),
				zap.String("to", target.StoreDriver),
				zap.String("namespace", opts.cfg.StoreNamespace),
			)
			n, err := store.Migrate(ctx, src, dst, opts.cfg.StoreNamespace, opts.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration complete. migrated=%d\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&toDriver, "to", "", "target store driver")
	cmd.Flags().StringVar(&toPath, "to-path", "", "directory for a file target")
	return cmd
}
