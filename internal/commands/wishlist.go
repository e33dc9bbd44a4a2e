package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
)

// NewWishlistCmd creates the customer wishlist command group.
func NewWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the customer wishlist",
	}

	cmd.AddCommand(newWishlistAddCmd())
	cmd.AddCommand(newWishlistRemoveCmd())
	cmd.AddCommand(newWishlistListCmd())
	cmd.AddCommand(newWishlistCheckCmd())
	cmd.AddCommand(newWishlistCountCmd())
	cmd.AddCommand(newWishlistClearCmd())
	return cmd
}

func newWishlistAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Save a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Wishlist.Add(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(map[string]any{"productId": args[0], "inWishlist": true}, "Saved to wishlist")
		}),
	}
}

func newWishlistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Wishlist.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(map[string]any{"productId": args[0], "inWishlist": false}, "Removed from wishlist")
		}),
	}
}

func newWishlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wishlist items",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			items, err := a.Store.Wishlist.FetchItems(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(items, plural(len(items), "item"))
		}),
	}
}

func newWishlistCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <product-id>",
		Short: "Check whether a product is on the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			in, err := a.Store.Wishlist.CheckStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summary := "Not on the wishlist"
			if in {
				summary = "On the wishlist"
			}
			return a.OK(map[string]bool{"inWishlist": in}, summary)
		}),
	}
}

func newWishlistCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the wishlist item count",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			count, err := a.Store.Wishlist.FetchCount(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(map[string]int{"count": count}, plural(count, "item"))
		}),
	}
}

func newWishlistClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the wishlist",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Wishlist.Clear(cmd.Context()); err != nil {
				return err
			}
			return a.OK(nil, "Wishlist cleared")
		}),
	}
}
