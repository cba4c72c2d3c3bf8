package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewUsersCmd creates the users command group.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(
		newUsersListCmd(),
		newUsersShowCmd(),
		newUsersMeCmd(),
		newUsersCreateCmd(),
		newUsersUpdateCmd(),
		newUsersDeleteCmd(),
	)

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Users.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("users", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newUsersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			user, err := app.Users.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(user, "User "+user.Username)
		},
	}
}

func newUsersMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the account behind the active credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			app.RestoreSession()
			user, err := app.Users.Current(cmd.Context())
			if err != nil {
				return err
			}
			return app.Output.OK(user, "Logged in as "+user.Username)
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	var username, password, attributes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if username == "" || password == "" {
				return output.ErrUsage("--username and --password are required")
			}
			attrs := map[string]any{}
			if attributes != "" {
				attrs, err = parseJSONObject(attributes)
				if err != nil {
					return err
				}
			}
			user, err := app.Users.Create(cmd.Context(), username, password, attrs)
			if err != nil {
				return err
			}
			return app.Output.OK(user, "Created user "+user.Username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().StringVarP(&attributes, "attributes", "a", "", "Schema attributes as a JSON object")
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update user fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if fields == "" {
				return output.ErrUsage("--fields is required")
			}
			body, err := parseJSONObject(fields)
			if err != nil {
				return err
			}
			user, err := app.Users.Update(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}
			return app.Output.OK(user, "Updated user "+user.Username)
		},
	}

	cmd.Flags().StringVarP(&fields, "fields", "f", "", "Fields to merge as a JSON object")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Users.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"user_id": args[0],
				"status":  "deleted",
			}, "Deleted user "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete permanently instead of deactivating")
	return cmd
}
