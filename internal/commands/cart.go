package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/store"
	"github.com/meropasal/pasal-cli/internal/views"
)

// NewCartCmd creates the customer cart command group.
func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the customer cart",
	}

	cmd.AddCommand(newCartAddCmd())
	cmd.AddCommand(newCartListCmd())
	cmd.AddCommand(newCartUpdateCmd())
	cmd.AddCommand(newCartRemoveCmd())
	cmd.AddCommand(newCartClearCmd())
	cmd.AddCommand(newCartSummaryCmd())
	cmd.AddCommand(newCartCountCmd())
	cmd.AddCommand(newCartCheckoutCmd())
	cmd.AddCommand(newCartPayCmd())
	return cmd
}

func newCartAddCmd() *cobra.Command {
	var quantity int
	var variant string

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			input := store.AddToCartInput{ProductID: args[0], Quantity: quantity}
			if variant != "" {
				input.SelectedVariant = &variant
			}
			item, err := a.Store.Cart.Add(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.OK(item, "Added to cart: "+item.ProductName)
		}),
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "Quantity")
	cmd.Flags().StringVar(&variant, "variant", "", "Selected variant")
	return cmd
}

func newCartListCmd() *cobra.Command {
	var byShop bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cart items",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			items, err := a.Store.Cart.FetchItems(cmd.Context())
			if err != nil {
				return err
			}
			if byShop {
				groups := views.GroupCartByShop(items)
				return a.OK(groups, plural(len(groups), "shop"))
			}
			return a.OK(items, plural(len(items), "item"))
		}),
	}

	cmd.Flags().BoolVar(&byShop, "by-shop", false, "Group items by shop")
	return cmd
}

func newCartUpdateCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change a cart line's quantity",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if quantity < 1 {
				return apperr.ErrUsage("--quantity must be at least 1")
			}
			item, err := a.Store.Cart.UpdateItem(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			return a.OK(item, fmt.Sprintf("Quantity set to %d", item.Quantity))
		}),
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 0, "New quantity")
	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Cart.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(nil, "Removed from cart")
		}),
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Cart.Clear(cmd.Context()); err != nil {
				return err
			}
			return a.OK(nil, "Cart cleared")
		}),
	}
}

func newCartSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show cart totals",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			summary, err := a.Store.Cart.FetchSummary(cmd.Context())
			if err != nil {
				return err
			}
			f := views.NewFormatter(a.Config.Currency)
			return a.OK(summary, fmt.Sprintf("%s, total %s",
				plural(summary.TotalItems, "item"), f.Amount(summary.TotalAmount)))
		}),
	}
}

func newCartCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the cart item count",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			count, err := a.Store.Cart.FetchCount(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(map[string]int{"count": count}, plural(count, "item"))
		}),
	}
}

func newCartCheckoutCmd() *cobra.Command {
	var addr models.ShippingAddress
	var method string
	var deliveryFee float64

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the cart",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if addr.Name == "" || addr.Mobile == "" || addr.Address == "" || addr.City == "" {
				return apperr.ErrUsage("--name, --mobile, --address and --city are required")
			}
			items, err := a.Store.Cart.FetchItems(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return apperr.ErrPrecondition("Cart is empty")
			}
			groups := views.GroupCartByShop(items)
			if len(groups) > 1 {
				return apperr.ErrPrecondition("Cart spans multiple shops; checkout covers one shop at a time")
			}

			group := groups[0]
			req := models.OrderRequest{
				ShopID:          group.ShopID,
				ShippingAddress: addr,
				PaymentMethod:   method,
				Subtotal:        group.Subtotal,
				DeliveryFee:     deliveryFee,
				Total:           group.Subtotal + deliveryFee,
			}
			confirmation, err := a.Store.Cart.PlaceOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.OK(confirmation, "Order placed: "+confirmation.OrderNumber)
		}),
	}

	cmd.Flags().StringVar(&addr.Name, "name", "", "Recipient name")
	cmd.Flags().StringVar(&addr.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&addr.Mobile, "mobile", "", "Contact mobile")
	cmd.Flags().StringVar(&addr.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&addr.City, "city", "", "City")
	cmd.Flags().StringVar(&addr.Province, "province", "", "Province")
	cmd.Flags().StringVar(&addr.Zip, "zip", "", "Postal code")
	cmd.Flags().StringVar(&addr.Country, "country", "Nepal", "Country")
	cmd.Flags().StringVar(&method, "method", "cod", "Payment method")
	cmd.Flags().Float64Var(&deliveryFee, "delivery-fee", 0, "Delivery fee")
	return cmd
}

func newCartPayCmd() *cobra.Command {
	var req models.PaymentInitRequest

	cmd := &cobra.Command{
		Use:   "pay <shop-id> <method>",
		Short: "Initiate an online payment for the last order",
		Long:  "Initiate an online payment and print the gateway redirect form.",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			req.ShopID = args[0]
			req.PaymentMethod = args[1]
			if req.OrderID == "" {
				last := a.Store.Cart.LastOrder()
				if last == nil {
					return apperr.ErrUsageHint("Order ID is undefined",
						"Pass --order or run: pasal cart checkout")
				}
				req.OrderID = last.ID
			}
			form, err := a.Store.Cart.InitiatePayment(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), form)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.OrderID, "order", "", "Order ID (defaults to the last placed order)")
	cmd.Flags().Int64Var(&req.AmountMinor, "amount", 0, "Amount in minor units")
	cmd.Flags().StringVar(&req.ReturnURL, "return-url", "", "Gateway success redirect")
	cmd.Flags().StringVar(&req.FailureURL, "failure-url", "", "Gateway failure redirect")
	return cmd
}
