package main

import (
	"fmt"
	"net/url"

	"github.com/collabblog/blogclient/internal/auth/dto"
	"github.com/collabblog/blogclient/internal/router"
	"github.com/spf13/cobra"
)

func newLoginCmd(appOf func() *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			user, err := a.sess.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %s (%s)\n", user.FullName, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(appOf func() *app) *cobra.Command {
	var in dto.RegisterDTO

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not sign in)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			msg, err := a.sess.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "registered, you can now log in"
			}
			fmt.Println(msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			a.sess.Logout()
			fmt.Println("signed out, now at", a.nav.Current().Path)
			return nil
		},
	}
}

func newWhoamiCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			user, ok := a.sess.Current()
			if !ok {
				fmt.Println("not signed in")
				return nil
			}
			return printJSON(user)
		},
	}
}

func newRefreshCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			if !a.sess.Refresh(cmd.Context()) {
				return fmt.Errorf("refresh failed, log in again")
			}
			fmt.Println("session renewed")
			return nil
		},
	}
}

func newPasswordCmd(appOf func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Password recovery",
	}

	forgot := &cobra.Command{
		Use:   "forgot <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := appOf().auth.ForgotPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "reset email sent if the account exists"
			}
			fmt.Println(msg)
			return nil
		},
	}

	var in dto.ResetPasswordDTO
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Confirm a password reset with the emailed token",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := appOf().auth.ResetPassword(cmd.Context(), in)
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "password changed, you can now log in"
			}
			fmt.Println(msg)
			return nil
		},
	}
	reset.Flags().StringVar(&in.Email, "email", "", "account email")
	reset.Flags().StringVar(&in.NewPassword, "new-password", "", "new password")
	reset.Flags().StringVar(&in.Token, "token", "", "reset token from the email")
	_ = reset.MarkFlagRequired("email")
	_ = reset.MarkFlagRequired("new-password")
	_ = reset.MarkFlagRequired("token")

	cmd.AddCommand(forgot, reset)
	return cmd
}

func newNavigateCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Evaluate route guards for a path and show where navigation lands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			loc, err := a.nav.Navigate(args[0], url.Values{})
			if err != nil {
				return err
			}
			if loc.Path == args[0] {
				fmt.Println("allowed:", loc.Path)
				return nil
			}
			target := loc.Path
			if len(loc.Query) > 0 {
				target += "?" + loc.Query.Encode()
			}
			fmt.Println("redirected:", target)
			if loc.Path == router.AccessDeniedPath {
				fmt.Println("message:", loc.Query.Get("message"))
			}
			return nil
		},
	}
}
