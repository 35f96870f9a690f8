package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gofalre.io/storefront"
	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/config"
	"gofalre.io/storefront/logger"
)

type rootOptions struct {
	configPath string
	session    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront shopping cart",
		Long: `Add, update and remove cart items and render the cart.

Storage, messaging and logging are configured through a YAML file (--config)
or environment variables; see config.Config for the keys.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.session, "session", "", "cart session id on shared backends")

	root.AddCommand(
		newAddCmd(opts),
		newRemoveCmd(opts),
		newSetCmd(opts),
		newShowCmd(opts),
		newBadgeCmd(opts),
		newServeCmd(opts),
		newSessionCmd(),
	)
	return root
}

// bootApp loads config, builds the logger and opens the cart session with views attached.
func bootApp(cmd *cobra.Command, opts *rootOptions, views ...cart.View) (*storefront.App, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.session != "" {
		cfg.Storage.Session = opts.session
	}

	log := logger.New(cfg.Logger)
	app, err := storefront.New(cmd.Context(), cfg, log, views...)
	if err != nil {
		log.Error("Failed to open cart", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		_ = log.Sync()
		return nil, nil, err
	}
	return app, log, nil
}
