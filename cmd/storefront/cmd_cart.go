package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/view"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME PRICE [IMAGE]",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(args[1])
			if err != nil {
				return err
			}
			image := ""
			if len(args) == 3 {
				image = args[2]
			}

			out := cmd.OutOrStdout()
			app, log, err := bootApp(cmd, opts, view.NewBadge(out), view.NewDrawer(out))
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			return app.Store().AddItem(cmd.Context(), args[0], price, image)
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			app, log, err := bootApp(cmd, opts, view.NewBadge(out), view.NewPage(out))
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			return app.Store().RemoveItem(cmd.Context(), args[0])
		},
	}
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME QUANTITY",
		Short: "Set the quantity of a product; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			app, log, err := bootApp(cmd, opts, view.NewBadge(out), view.NewPage(out))
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			return app.Store().SetQuantity(cmd.Context(), args[0], quantity)
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asDrawer bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the cart page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			var content cart.View = view.NewPage(out)
			if asDrawer {
				drawer := view.NewDrawer(out)
				drawer.Open()
				content = drawer
			}

			app, log, err := bootApp(cmd, opts, view.NewBadge(out), content)
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			app.Store().Refresh(cmd.Context())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asDrawer, "drawer", false, "render the drawer instead of the full page")
	return cmd
}

func newBadgeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "badge",
		Short: "Print the cart item count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, log, err := bootApp(cmd, opts, view.NewBadge(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			app.Store().Refresh(cmd.Context())
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply cart commands received over NATS until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, log, err := bootApp(cmd, opts, view.NewBadge(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer app.Close()
			defer log.Sync()

			return app.Serve(cmd.Context())
		},
	}
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print a new cart session id",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
		},
	}
}

// parsePrice accepts a decimal amount such as "20" or "19.99".
func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid price %q: must not be negative", s)
	}
	return price, nil
}
