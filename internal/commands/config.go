package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/completion"
	"github.com/meropasal/pasal-cli/internal/config"
)

var configKeys = []string{"base_url", "shop_id", "owner_id", "data_dir", "format", "currency"}

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change configuration",
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "base_url":
		return cfg.BaseURL, true
	case "shop_id":
		return cfg.ShopID, true
	case "owner_id":
		return cfg.OwnerID, true
	case "data_dir":
		return cfg.DataDir, true
	case "format":
		return cfg.Format, true
	case "currency":
		return cfg.Currency, true
	}
	return "", false
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all settings and where each came from",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			rows := make([]map[string]string, 0, len(configKeys))
			for _, key := range configKeys {
				value, _ := configValue(a.Config, key)
				source := a.Config.Sources[key]
				if source == "" {
					source = string(config.SourceDefault)
				}
				rows = append(rows, map[string]string{
					"key":    key,
					"value":  value,
					"source": source,
				})
			}
			return a.OK(rows, plural(len(rows), "setting"))
		}),
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Show one setting",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.Static(configKeys...),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			value, ok := configValue(a.Config, args[0])
			if !ok {
				return apperr.ErrUsage("unknown config key " + args[0])
			}
			return a.OK(map[string]string{"key": args[0], "value": value}, value)
		}),
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Persist a setting to the global config file",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.Static(configKeys...),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if _, ok := configValue(a.Config, args[0]); !ok {
				return apperr.ErrUsage("unknown config key " + args[0])
			}
			if err := config.Save(map[string]string{args[0]: args[1]}); err != nil {
				return err
			}
			return a.OK(map[string]string{"key": args[0], "value": args[1]},
				args[0]+" saved to "+config.GlobalConfigPath())
		}),
	}
}
