package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/dateparse"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/views"
)

var orderStatuses = []string{"pending", "processing", "shipped", "delivered", "completed", "cancelled"}

// NewOrdersCmd creates the orders command group.
func NewOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Manage the shop's orders",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersShowCmd())
	cmd.AddCommand(newOrdersStatusCmd())
	cmd.AddCommand(newOrdersTotalsCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var since, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders for the current shop",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			var cutoff time.Time
			if since != "" {
				t, ok := dateparse.Since(since, time.Now())
				if !ok {
					return apperr.ErrUsageHint("Cannot parse --since "+since,
						`Try "yesterday", "3 days ago", "-7", or YYYY-MM-DD`)
				}
				cutoff = t
			}
			if status != "" && !validOrderStatus(status) {
				return apperr.ErrUsage("unknown status " + status)
			}

			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			orders, err := a.Store.Orders.FetchByShop(cmd.Context(), shopID)
			if err != nil {
				return err
			}

			filtered := orders[:0:0]
			for _, o := range orders {
				if status != "" && o.Status != status {
					continue
				}
				if !cutoff.IsZero() && !orderedSince(o, cutoff) {
					continue
				}
				filtered = append(filtered, o)
			}
			return a.OK(filtered, plural(len(filtered), "order"))
		}),
	}

	cmd.Flags().StringVar(&since, "since", "", "Only orders placed on or after this date")
	cmd.Flags().StringVar(&status, "status", "", "Only orders with this status")
	return cmd
}

// orderedSince reports whether the order was created at or after the
// cutoff. Orders with unparseable timestamps are kept.
func orderedSince(o models.Order, cutoff time.Time) bool {
	t, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return true
	}
	return !t.Before(cutoff)
}

func newOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			if _, err := a.Store.Orders.FetchByShop(cmd.Context(), shopID); err != nil {
				return err
			}
			if !a.Store.Orders.SetSelected(args[0]) {
				return apperr.ErrNotFound("order", args[0])
			}
			order := a.Store.Orders.Selected()
			return a.OK(order, "Order "+order.OrderNumber)
		}),
	}
}

func newOrdersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "status <id> <status>",
		Short:             "Update an order's status",
		Long:              "Update an order's status. Valid statuses: pending, processing, shipped, delivered, completed, cancelled.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.OrderStatuses(orderStatuses),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if !validOrderStatus(args[1]) {
				return apperr.ErrUsage("unknown status " + args[1])
			}
			if err := a.Store.Orders.UpdateStatus(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.OK(map[string]string{"id": args[0], "status": args[1]}, "Order updated")
		}),
	}
}

func newOrdersTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Summarize revenue and order counts",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			orders, err := a.Store.Orders.FetchByShop(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			totals := views.SummarizeOrders(orders)
			f := views.NewFormatter(a.Config.Currency)
			return a.OK(totals, "Revenue "+f.Amount(totals.Revenue))
		}),
	}
}

func validOrderStatus(s string) bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}
