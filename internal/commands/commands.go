// Package commands implements the pasal subcommands.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
)

// app pulls the application context wired by the root command.
func app(cmd *cobra.Command) (*appctx.App, error) {
	a := appctx.FromContext(cmd.Context())
	if a == nil {
		return nil, fmt.Errorf("application context not initialized")
	}
	return a, nil
}

// run adapts a command body that needs the app context. Errors propagate
// to Execute, which renders them once through the envelope writer.
func run(fn func(cmd *cobra.Command, args []string, a *appctx.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, args, a)
	}
}

// resolveShopID returns the effective shop scope from the store.
func resolveShopID(a *appctx.App) (string, error) {
	if id := a.Store.Shops.CurrentShopID(); id != "" {
		return id, nil
	}
	return "", apperr.ErrUsageHint("Shop ID is undefined",
		"Pass --shop, set PASAL_SHOP_ID, or run: pasal shop get")
}

func plural(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	if strings.HasSuffix(singular, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(singular, "y"))
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
