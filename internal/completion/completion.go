// Package completion provides tab completion helpers for the pasal CLI.
// Completers run during __complete without a network round trip, so they
// only offer values knowable ahead of time.
package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/theme"
)

// Static returns a ValidArgsFunction offering a fixed word list.
func Static(words ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return filter(words, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// OrderStatuses completes the order status argument.
func OrderStatuses(statuses []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		// Only the second positional takes a status.
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return filter(statuses, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// ThemePresets completes storefront theme preset names.
func ThemePresets() func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		presets, err := theme.Presets()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(presets))
		for _, p := range presets {
			names = append(names, p.Name)
		}
		return filter(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// OnOff completes the on/off positional on toggle commands.
func OnOff() func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return filter([]string{"on", "off"}, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func filter(words []string, prefix string) []string {
	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}
