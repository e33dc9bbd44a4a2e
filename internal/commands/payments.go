package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/models"
)

// NewPaymentsCmd creates the payment gateway config command group.
func NewPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Manage payment gateway configs",
	}

	cmd.AddCommand(newPaymentsCreateCmd())
	cmd.AddCommand(newPaymentsListCmd())
	cmd.AddCommand(newPaymentsGetCmd())
	cmd.AddCommand(newPaymentsUpdateCmd())
	cmd.AddCommand(newPaymentsToggleCmd())
	cmd.AddCommand(newPaymentsDeleteCmd())
	return cmd
}

func paymentFlags(cmd *cobra.Command, input *models.PaymentConfigInput, credentials *map[string]string) {
	cmd.Flags().StringVar(&input.PaymentMethod, "method", "", "Gateway method (esewa, khalti, ...)")
	cmd.Flags().StringVar(&input.DisplayName, "display-name", "", "Checkout display name")
	cmd.Flags().StringToStringVar(credentials, "credential", nil, "Gateway credential as key=value (repeatable)")
}

func newPaymentsCreateCmd() *cobra.Command {
	var input models.PaymentConfigInput
	var credentials map[string]string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a gateway config",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if input.PaymentMethod == "" {
				return apperr.ErrUsage("--method is required")
			}
			input.Credentials = credentials
			config, err := a.Store.Payments.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.OK(config, "Gateway config created: "+config.PaymentMethod)
		}),
	}

	paymentFlags(cmd, &input, &credentials)
	return cmd
}

func newPaymentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the shop's gateway configs",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			configs, err := a.Store.Payments.FetchByShop(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			return a.OK(configs, plural(len(configs), "config"))
		}),
	}
}

func newPaymentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one gateway config with credential fields masked",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			config, err := a.Store.Payments.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.OK(config, config.PaymentMethod)
		}),
	}
}

func newPaymentsUpdateCmd() *cobra.Command {
	var input models.PaymentConfigInput
	var credentials map[string]string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a gateway config",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			input.Credentials = credentials
			config, err := a.Store.Payments.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.OK(config, "Gateway config updated")
		}),
	}

	paymentFlags(cmd, &input, &credentials)
	return cmd
}

func newPaymentsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <id> <on|off>",
		Short:             "Enable or disable a gateway config",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.OnOff(),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			active, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			if err := a.Store.Payments.ToggleActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			return a.OK(map[string]any{"id": args[0], "active": active}, "Gateway config updated")
		}),
	}
}

func newPaymentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a gateway config",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Payments.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(nil, "Gateway config deleted")
		}),
	}
}
