package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/models"
)

// NewProductsCmd creates the products command group.
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newProductsToggleCmd())
	cmd.AddCommand(newProductsDeleteCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the shop's products",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if categoryID != "" {
				products, err := a.Store.Products.FetchByCategory(cmd.Context(), categoryID)
				if err != nil {
					return err
				}
				return a.OK(products, plural(len(products), "product"))
			}

			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			products, err := a.Store.Products.FetchByShop(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			return a.OK(products, plural(len(products), "product"))
		}),
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Filter by category ID")
	return cmd
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			product, err := a.Store.Products.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(product, product.Name)
		}),
	}
}

func productFlags(cmd *cobra.Command, input *models.ProductInput) {
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&input.Price, "price", 0, "Price")
	cmd.Flags().Float64Var(&input.DiscountPrice, "discount-price", 0, "Discounted price")
	cmd.Flags().IntVar(&input.Stock, "stock", 0, "Stock quantity")
	cmd.Flags().StringVar(&input.CategoryID, "category", "", "Category ID")
	cmd.Flags().StringVar(&input.ImageURL, "image", "", "Primary image URL")
	cmd.Flags().StringSliceVar(&input.Images, "images", nil, "Additional image URLs")
	cmd.Flags().BoolVar(&input.Active, "active", true, "Visible on the storefront")
}

func newProductsCreateCmd() *cobra.Command {
	var input models.ProductInput

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			input.Name = args[0]
			if input.Price <= 0 {
				return apperr.ErrUsage("--price must be positive")
			}
			if input.CategoryID == "" {
				return apperr.ErrUsage("--category is required")
			}
			product, err := a.Store.Products.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.OK(product, "Product created: "+product.Name)
		}),
	}

	productFlags(cmd, &input)
	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var input models.ProductInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if input.Name == "" {
				return apperr.ErrUsage("--name is required")
			}
			product, err := a.Store.Products.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.OK(product, "Product updated: "+product.Name)
		}),
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Name")
	productFlags(cmd, &input)
	return cmd
}

func newProductsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <id> <on|off>",
		Short:             "Toggle a product's storefront visibility",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.OnOff(),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			active, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			if err := a.Store.Products.UpdateStatus(cmd.Context(), args[0], active); err != nil {
				return err
			}
			return a.OK(map[string]any{"id": args[0], "active": active}, "Product updated")
		}),
	}
}

func newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Products.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(nil, "Product deleted")
		}),
	}
}
