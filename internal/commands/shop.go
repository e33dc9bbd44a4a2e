package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/theme"
)

// NewShopCmd creates the shop command group.
func NewShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Manage the merchant shop",
	}

	cmd.AddCommand(newShopCreateCmd())
	cmd.AddCommand(newShopGetCmd())
	cmd.AddCommand(newShopListCmd())
	cmd.AddCommand(newShopResolveCmd())
	cmd.AddCommand(newShopAudienceCmd())
	cmd.AddCommand(newShopThemesCmd())
	cmd.AddCommand(newShopThemeCmd())
	return cmd
}

func newShopCreateCmd() *cobra.Command {
	var input models.ShopInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new shop",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if input.ShopURL == "" || input.BusinessName == "" {
				return apperr.ErrUsage("--url and --name are required")
			}
			ownerID := a.Config.OwnerID
			if ownerID == "" {
				ownerID = a.Store.Auth.OwnerID()
			}
			shop, err := a.Store.Shops.Create(cmd.Context(), ownerID, input)
			if err != nil {
				return err
			}
			return a.OK(shop, "Shop created: "+shop.BusinessName)
		}),
	}

	cmd.Flags().StringVar(&input.ShopURL, "url", "", "Public storefront URL slug")
	cmd.Flags().StringVar(&input.BusinessName, "name", "", "Business name")
	cmd.Flags().StringVar(&input.District, "district", "", "District")
	cmd.Flags().StringVar(&input.Province, "province", "", "Province")
	return cmd
}

func newShopGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Load the merchant's shop",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			ownerID := a.Config.OwnerID
			if ownerID == "" {
				ownerID = a.Store.Auth.OwnerID()
			}
			shop, err := a.Store.Shops.FetchByOwner(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			return a.OK(shop, shop.BusinessName)
		}),
	}
}

func newShopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public shops",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shops, err := a.Store.Shops.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(shops, plural(len(shops), "shop"))
		}),
	}
}

func newShopResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Resolve a shop by its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shop, err := a.Store.Shops.FetchByURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(shop, shop.BusinessName)
		}),
	}
}

func newShopAudienceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audience",
		Short: "List the shop's customers",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			rows, err := a.Store.Shops.FetchAudience(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(rows, plural(len(rows), "customer"))
		}),
	}
}

func newShopThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List storefront theme presets",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			presets, err := theme.Presets()
			if err != nil {
				return err
			}
			return a.OK(presets, plural(len(presets), "theme"))
		}),
	}
}

func newShopThemeCmd() *cobra.Command {
	var primary, secondary string

	cmd := &cobra.Command{
		Use:               "theme <preset>",
		Short:             "Apply a storefront theme preset",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.ThemePresets(),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			t, err := theme.Apply(args[0], primary, secondary)
			if err != nil {
				return apperr.ErrUsage(err.Error())
			}
			shop, err := a.Store.Shops.UpdateTheme(cmd.Context(), t)
			if err != nil {
				return err
			}
			return a.OK(shop, fmt.Sprintf("Theme %q applied", t.Name))
		}),
	}

	cmd.Flags().StringVar(&primary, "primary", "", "Primary color override")
	cmd.Flags().StringVar(&secondary, "secondary", "", "Secondary color override")
	return cmd
}
