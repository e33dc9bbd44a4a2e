// Package cli assembles the root command and global flags.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/commands"
	"github.com/meropasal/pasal-cli/internal/config"
	"github.com/meropasal/pasal-cli/internal/output"
	"github.com/meropasal/pasal-cli/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:           "pasal",
		Short:         "Command-line client for the Pasal storefront platform",
		Long:          "pasal manages shops, catalogs, orders, and the customer cart against a Pasal storefront API.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				BaseURL: flags.BaseURL,
				Shop:    flags.Shop,
				DataDir: flags.DataDir,
				Format:  flags.Format,
			})
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().BoolVar(&flags.IDsOnly, "ids-only", false, "Output only IDs")
	cmd.PersistentFlags().BoolVar(&flags.Count, "count", false, "Output only count")

	cmd.PersistentFlags().StringVarP(&flags.Shop, "shop", "s", "", "Shop ID scope")
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Storefront API base URL")
	cmd.PersistentFlags().StringVar(&flags.DataDir, "data-dir", "", "Local data directory")
	cmd.PersistentFlags().StringVar(&flags.Format, "format", "", "Output format (auto, json, styled, quiet, ids, count)")

	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose request logging to stderr")

	return cmd
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()

	cmd.AddCommand(commands.NewAuthCmd())
	cmd.AddCommand(commands.NewShopCmd())
	cmd.AddCommand(commands.NewCategoriesCmd())
	cmd.AddCommand(commands.NewProductsCmd())
	cmd.AddCommand(commands.NewOrdersCmd())
	cmd.AddCommand(commands.NewCartCmd())
	cmd.AddCommand(commands.NewWishlistCmd())
	cmd.AddCommand(commands.NewCustomerCmd())
	cmd.AddCommand(commands.NewPaymentsCmd())
	cmd.AddCommand(commands.NewImagesCmd())
	cmd.AddCommand(commands.NewSocialCmd())
	cmd.AddCommand(commands.NewAPICmd())
	cmd.AddCommand(commands.NewConfigCmd())

	executedCmd, err := cmd.ExecuteC()
	if err != nil {
		err = transformCobraError(err)
		e := apperr.As(err)

		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			os.Exit(e.ExitCode())
		}

		writer := output.New(output.Options{Format: output.FormatAuto, Writer: os.Stdout})
		_ = writer.Err(err)
		os.Exit(e.ExitCode())
	}
}

// transformCobraError maps cobra's flag errors onto the usage kind so
// they carry the right exit code.
func transformCobraError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return apperr.ErrUsage(strings.TrimPrefix(msg, "flag needs an argument: ") + " requires a value")
	case strings.HasPrefix(msg, "unknown flag: "):
		return apperr.ErrUsage("Unknown option: " + strings.TrimPrefix(msg, "unknown flag: "))
	case strings.Contains(msg, "arg(s), received"):
		return apperr.ErrUsage(msg)
	case strings.Contains(msg, "invalid argument"):
		return apperr.ErrUsage(msg)
	}
	return err
}
