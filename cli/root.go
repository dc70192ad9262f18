// Package cli is the keytop command line: the HTTP server plus tools to
// inspect and migrate the same store.
package cli

import (
	"fmt"
	"os"

	"github.com/feraszen/keytop-fresh/config"
	"github.com/feraszen/keytop-fresh/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	storeDriver string
	storePath   string

	cfg config.Config
	log *zap.Logger
}

// NewRootCmd builds the keytop command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "keytop",
		Short: "Keytop Fresh storefront",
		Long: `Keytop Fresh storefront backend.

Runs the cart and checkout HTTP API and offers tools to inspect the menu
and the recorded orders. Configuration comes from the environment (or a
.env file); --store and --store-path override the persistence settings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.StoreDriver = opts.storeDriver
			}
			if cmd.Flags().Changed("store-path") {
				cfg.StorePath = opts.storePath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logger.Initialize(cfg.Env)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.storeDriver, "store", "", "store driver (memory, file, redis, dynamodb, postgres)")
	root.PersistentFlags().StringVar(&opts.storePath, "store-path", "", "directory for the file store")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newOrdersCmd(opts))
	root.AddCommand(newMenuCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
