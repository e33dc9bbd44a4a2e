package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/models"
)

// NewCategoriesCmd creates the categories command group.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage product categories",
	}

	cmd.AddCommand(newCategoriesListCmd())
	cmd.AddCommand(newCategoriesGetCmd())
	cmd.AddCommand(newCategoriesCreateCmd())
	cmd.AddCommand(newCategoriesUpdateCmd())
	cmd.AddCommand(newCategoriesToggleCmd())
	cmd.AddCommand(newCategoriesDeleteCmd())
	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the shop's categories",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if all {
				categories, err := a.Store.Categories.FetchAll(cmd.Context())
				if err != nil {
					return err
				}
				return a.OK(categories, plural(len(categories), "category"))
			}

			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			categories, err := a.Store.Categories.FetchByShop(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			return a.OK(categories, plural(len(categories), "category"))
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "List categories across all shops")
	return cmd
}

func newCategoriesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			category, err := a.Store.Categories.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(category, category.Name)
		}),
	}
}

func newCategoriesCreateCmd() *cobra.Command {
	var input models.CategoryInput

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			input.Name = args[0]
			category, err := a.Store.Categories.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.OK(category, "Category created: "+category.Name)
		}),
	}

	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().StringVar(&input.ImageURL, "image", "", "Image URL")
	cmd.Flags().StringVar(&input.BannerURL, "banner", "", "Banner URL")
	cmd.Flags().BoolVar(&input.Active, "active", true, "Visible on the storefront")
	return cmd
}

func newCategoriesUpdateCmd() *cobra.Command {
	var input models.CategoryInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if input.Name == "" {
				return apperr.ErrUsage("--name is required")
			}
			category, err := a.Store.Categories.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.OK(category, "Category updated: "+category.Name)
		}),
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Name")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().StringVar(&input.ImageURL, "image", "", "Image URL")
	cmd.Flags().StringVar(&input.BannerURL, "banner", "", "Banner URL")
	cmd.Flags().BoolVar(&input.Active, "active", true, "Visible on the storefront")
	return cmd
}

func newCategoriesToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <id> <on|off>",
		Short:             "Toggle a category's storefront visibility",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.OnOff(),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			active, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			if err := a.Store.Categories.UpdateStatus(cmd.Context(), args[0], active); err != nil {
				return err
			}
			return a.OK(map[string]any{"id": args[0], "active": active}, "Category updated")
		}),
	}
}

func newCategoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Categories.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(nil, "Category deleted")
		}),
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "active":
		return true, nil
	case "off", "false", "inactive":
		return false, nil
	}
	return false, apperr.ErrUsage("expected on or off, got " + s)
}
