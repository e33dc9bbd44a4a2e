package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/store"
)

// NewCustomerCmd creates the storefront customer command group.
func NewCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Storefront customer account",
	}

	cmd.AddCommand(newCustomerSignupCmd())
	cmd.AddCommand(newCustomerVerifyCmd())
	cmd.AddCommand(newCustomerResendCmd())
	cmd.AddCommand(newCustomerStatusCmd())
	cmd.AddCommand(newCustomerLogoutCmd())
	cmd.AddCommand(newCustomerFollowCmd())
	cmd.AddCommand(newCustomerUnfollowCmd())
	cmd.AddCommand(newCustomerFollowingCmd())
	cmd.AddCommand(newCustomerFollowersCmd())
	return cmd
}

func newCustomerSignupCmd() *cobra.Command {
	var input store.SignupInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Start customer signup",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if input.Email == "" || input.Password == "" {
				return apperr.ErrUsage("--email and --password are required")
			}
			if err := a.Store.Customer.InitiateSignup(cmd.Context(), input); err != nil {
				return err
			}
			return a.OK(map[string]string{"email": input.Email},
				"Signup started. Check your email for the verification code.")
		}),
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password")
	return cmd
}

func newCustomerVerifyCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify <otp>",
		Short: "Verify the signup code and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if email == "" {
				return apperr.ErrUsage("--email is required")
			}
			customer, err := a.Store.Customer.VerifySignup(cmd.Context(), email, args[0])
			if err != nil {
				return err
			}
			return a.OK(customer, "Signed in as "+customer.Name)
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func newCustomerResendCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Resend the signup code",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if email == "" {
				return apperr.ErrUsage("--email is required")
			}
			if err := a.Store.Customer.ResendOTP(cmd.Context(), email); err != nil {
				return err
			}
			return a.OK(nil, "Verification code sent")
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func newCustomerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in customer",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			customer := a.Store.Customer.Current()
			if customer == nil {
				return a.OK(map[string]bool{"signedIn": false}, "Not signed in")
			}
			return a.OK(customer, "Signed in as "+customer.Name)
		}),
	}
}

func newCustomerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign the customer out",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Customer.Logout(); err != nil {
				return err
			}
			return a.OK(nil, "Signed out")
		}),
	}
}

func newCustomerFollowCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "follow <shop-id>",
		Short: "Follow a shop",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Customer.FollowShop(cmd.Context(), args[0], name); err != nil {
				return err
			}
			return a.OK(map[string]any{"shopId": args[0], "following": true}, "Following")
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Shop display name")
	return cmd
}

func newCustomerUnfollowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <shop-id>",
		Short: "Unfollow a shop",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Customer.UnfollowShop(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.OK(map[string]any{"shopId": args[0], "following": false}, "Unfollowed")
		}),
	}
}

func newCustomerFollowingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "following",
		Short: "List shops the customer follows",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shops, err := a.Store.Customer.LoadFollowedShops(cmd.Context())
			if err != nil {
				return err
			}
			return a.OK(shops, plural(len(shops), "shop"))
		}),
	}
}

func newCustomerFollowersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "followers [shop-id]",
		Short: "Show a shop's follower count",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			shopID := ""
			if len(args) == 1 {
				shopID = args[0]
			} else {
				id, err := resolveShopID(a)
				if err != nil {
					return err
				}
				shopID = id
			}
			count, err := a.Store.Customer.FetchFollowerCount(cmd.Context(), shopID)
			if err != nil {
				return err
			}
			return a.OK(map[string]any{"shopId": shopID, "count": count}, plural(count, "follower"))
		}),
	}
}
