package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/models"
)

// NewSocialCmd creates the social links command group.
func NewSocialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Manage the shop's social and support links",
	}

	cmd.AddCommand(newSocialGetCmd())
	cmd.AddCommand(newSocialSetCmd())
	return cmd
}

func newSocialGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the shop's social links",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}
			account, err := a.Store.Social.Fetch(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			if account == nil {
				return a.OK(nil, "No social links configured")
			}
			return a.OK(account, "Social links")
		}),
	}
}

func newSocialSetCmd() *cobra.Command {
	var input models.SocialAccount

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the shop's social links",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID, err := resolveShopID(a)
			if err != nil {
				return err
			}

			existing, err := a.Store.Social.Fetch(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			if existing == nil {
				account, err := a.Store.Social.Create(cmd.Context(), input)
				if err != nil {
					return err
				}
				return a.OK(account, "Social links created")
			}
			account, err := a.Store.Social.Update(cmd.Context(), shopID, input)
			if err != nil {
				return err
			}
			return a.OK(account, "Social links updated")
		}),
	}

	cmd.Flags().StringVar(&input.Facebook, "facebook", "", "Facebook URL")
	cmd.Flags().StringVar(&input.Instagram, "instagram", "", "Instagram URL")
	cmd.Flags().StringVar(&input.TikTok, "tiktok", "", "TikTok URL")
	cmd.Flags().StringVar(&input.WhatsApp, "whatsapp", "", "WhatsApp number")
	cmd.Flags().StringVar(&input.SupportEmail, "support-email", "", "Support email")
	cmd.Flags().StringVar(&input.SupportPhone, "support-phone", "", "Support phone")
	return cmd
}
