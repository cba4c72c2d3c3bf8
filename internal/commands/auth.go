package commands

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/auth"
	"github.com/chino-io/chino-go/internal/output"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Log in and out as an application user and inspect the active auth mode.",
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthRefreshCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an application user",
		Long:  "Exchange a username and password for a token pair using the configured application credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if username == "" {
				return output.ErrUsage("--username is required")
			}
			if password == "" {
				// Read the password from stdin so it stays out of
				// shell history.
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return output.ErrUsage("--password not given and stdin is empty")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if err := app.Auth.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			if err := app.SaveSession(); err != nil {
				app.Logger.Warn("failed to persist session", "error", err)
			}

			return app.Output.OK(map[string]string{
				"username": username,
				"mode":     app.Auth.Mode().String(),
			}, "Logged in as "+username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to log in as")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current token and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			app.RestoreSession()

			revokeErr := app.Auth.Logout(cmd.Context())
			if err := app.ClearSession(); err != nil {
				app.Logger.Warn("failed to clear stored credentials", "error", err)
			}
			if revokeErr != nil {
				// Local state is already cleared; report the revoke
				// failure so the caller knows the server may still
				// consider the token live.
				return revokeErr
			}

			return app.Output.OK(map[string]string{
				"status": "logged_out",
			}, "Logged out")
		},
	}
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			app.RestoreSession()

			if err := app.Auth.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := app.SaveSession(); err != nil {
				app.Logger.Warn("failed to persist session", "error", err)
			}

			return app.Output.OK(map[string]string{
				"status": "refreshed",
			}, "Token pair refreshed")
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active auth mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			app.RestoreSession()

			mode := app.Auth.Mode()
			data := map[string]any{
				"mode":    mode.String(),
				"keyring": app.Store.UsingKeyring(),
			}

			if mode == auth.ModeUser {
				user, err := app.Users.Current(cmd.Context())
				if err == nil {
					data["username"] = user.Username
					data["user_id"] = user.UserID
					return app.Output.OK(data, "Logged in as "+user.Username)
				}
				data["token_valid"] = false
				return app.Output.OK(data, "Stored token rejected, run: chino auth refresh")
			}

			return app.Output.OK(data, "Auth mode: "+mode.String())
		},
	}
}
