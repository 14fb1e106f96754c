package shell

import (
	"errors"
	"fmt"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/resource"
	"admin-dashboard/internal/session"

	"github.com/spf13/cobra"
)

func (a *App) loginCommand() *cobra.Command {
	var req api.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.session.Login(cmd.Context(), req)
			if err != nil {
				return a.authFailed(err)
			}

			a.notifier.Notify(resource.Notice{Kind: resource.NoticeSuccess, Message: a.session.Message()})
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", id.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.session.Register(cmd.Context(), req)
			if err != nil {
				return a.authFailed(err)
			}

			a.notifier.Notify(resource.Notice{Kind: resource.NoticeSuccess, Message: a.session.Message()})
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", id.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "user name")
	cmd.Flags().StringVar(&req.Mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.session.Identity()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}

			renderRecord(cmd.OutOrStdout(), [][2]string{
				{"id", id.User.ID},
				{"username", id.User.Username},
				{"email", id.User.Email},
				{"role", id.User.Role},
				{"api", a.cfg.Client.BaseURL},
			})
			return nil
		},
	}
}

// authFailed shows the session's failure message and any field errors
func (a *App) authFailed(err error) error {
	var failed *session.FailedError
	if !errors.As(err, &failed) {
		return err
	}

	a.notifier.Notify(resource.Notice{Kind: resource.NoticeError, Message: failed.Message})
	for _, f := range failed.Fields {
		fmt.Fprintf(a.opts.Err, "  %s: %s\n", f.Field, f.Message)
	}
	return reported(err)
}
