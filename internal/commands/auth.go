package commands

import (
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/store"
)

// NewAuthCmd creates the merchant auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Merchant account and session",
	}

	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthVerifyCmd())
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a merchant account",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if email == "" || password == "" {
				return apperr.ErrUsage("--email and --password are required")
			}
			err := a.Store.Auth.Register(cmd.Context(), store.RegisterInput{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			return a.OK(map[string]string{"email": email},
				"Registration started. Check your email for the verification code.")
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Account holder name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newAuthVerifyCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify <otp>",
		Short: "Verify the signup code",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if email == "" {
				return apperr.ErrUsage("--email is required")
			}
			if err := a.Store.Auth.VerifyOTP(cmd.Context(), email, args[0]); err != nil {
				return err
			}
			return a.OK(map[string]string{"ownerId": a.Store.Auth.OwnerID()}, "Account verified")
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a merchant session",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if email == "" || password == "" {
				return apperr.ErrUsage("--email and --password are required")
			}
			if err := a.Store.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			return a.OK(map[string]string{"ownerId": a.Store.Auth.OwnerID()}, "Signed in")
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the merchant session",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			if err := a.Store.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.OK(nil, "Signed out")
		}),
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the merchant session",
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			ok, err := a.Store.Auth.CheckAuth(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return a.OK(map[string]bool{"authenticated": false}, "Not signed in")
			}
			return a.OK(map[string]bool{"authenticated": true}, "Signed in")
		}),
	}
}
