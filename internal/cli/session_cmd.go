package cli

import (
	"errors"
	"fmt"

	"goldendogfarm-admin/internal/domain/people"
	"goldendogfarm-admin/internal/resource"
	"goldendogfarm-admin/internal/session"

	"github.com/spf13/cobra"
)

func loginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.sess.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, session.ErrInvalidInput) {
					return err
				}
				f := resource.Classify(err)
				NewColorNotifier(app.Err).Failure("sign in", f.Message)
				return err
			}
			NewColorNotifier(app.Err).Success("sign in", fmt.Sprintf("welcome %s", info.Name))
			return writeValue(app, sessionView(info))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sess.Logout(cmd.Context()); err != nil {
				return err
			}
			NewColorNotifier(app.Err).Success("sign out", "session cleared")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.sess.Current(cmd.Context())
			if err != nil {
				return err
			}
			return writeValue(app, sessionView(info))
		},
	}
}

func sessionView(info session.Info) map[string]any {
	role := people.RoleLabels[info.Role]
	if role == "" {
		role = info.Role
	}
	return map[string]any{"id": info.ID, "name": info.Name, "role": role}
}
