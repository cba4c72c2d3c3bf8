package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewGroupsCmd creates the groups command group.
func NewGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage user groups",
	}

	cmd.AddCommand(
		newGroupsListCmd(),
		newGroupsShowCmd(),
		newGroupsCreateCmd(),
		newGroupsUpdateCmd(),
		newGroupsDeleteCmd(),
		newGroupsAddUserCmd(),
		newGroupsRemoveUserCmd(),
	)

	return cmd
}

func newGroupsListCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Groups.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("groups", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newGroupsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			group, err := app.Groups.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(group, "Group "+group.GroupName)
		},
	}
}

func newGroupsCreateCmd() *cobra.Command {
	var name, attributes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				return output.ErrUsage("--name is required")
			}
			attrs := map[string]any{}
			if attributes != "" {
				attrs, err = parseJSONObject(attributes)
				if err != nil {
					return err
				}
			}
			group, err := app.Groups.Create(cmd.Context(), name, attrs)
			if err != nil {
				return err
			}
			return app.Output.OK(group, "Created group "+group.GroupName)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Group name")
	cmd.Flags().StringVarP(&attributes, "attributes", "a", "", "Group attributes as a JSON object")
	return cmd
}

func newGroupsUpdateCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "update <group-id>",
		Short: "Update group fields",
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
			group, err := app.Groups.Update(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}
			return app.Output.OK(group, "Updated group "+group.GroupName)
		},
	}

	cmd.Flags().StringVarP(&fields, "fields", "f", "", "Fields to merge as a JSON object")
	return cmd
}

func newGroupsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group (member users are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Groups.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"group_id": args[0],
				"status":   "deleted",
			}, "Deleted group "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete permanently instead of deactivating")
	return cmd
}

func newGroupsAddUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-user <group-id> <user-id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Groups.AddUser(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"group_id": args[0],
				"user_id":  args[1],
				"status":   "added",
			}, "Added user to group")
		},
	}
}

func newGroupsRemoveUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-user <group-id> <user-id>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Groups.RemoveUser(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"group_id": args[0],
				"user_id":  args[1],
				"status":   "removed",
			}, "Removed user from group")
		},
	}
}
