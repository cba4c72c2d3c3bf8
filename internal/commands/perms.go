package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewPermsCmd creates the perms command group.
func NewPermsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perms",
		Short: "Manage schema permissions",
	}

	cmd.AddCommand(
		newPermsGrantCmd(),
		newPermsRevokeCmd(),
	)

	return cmd
}

// parseGrant turns a comma-separated access list into a grant.
func parseGrant(access string) (resources.PermissionGrant, error) {
	var grant resources.PermissionGrant
	for _, part := range strings.Split(access, ",") {
		switch strings.TrimSpace(part) {
		case "own_data":
			grant.OwnData = true
		case "all_data":
			grant.AllData = true
		case "insert":
			grant.Insert = true
		case "":
		default:
			return grant, output.ErrUsageHint(
				"Invalid access "+part,
				"Valid access values: own_data, all_data, insert")
		}
	}
	return grant, nil
}

func newPermsGrantCmd() *cobra.Command {
	var userID, groupID, access string

	cmd := &cobra.Command{
		Use:   "grant <schema-id>",
		Short: "Grant data access on a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if (userID == "") == (groupID == "") {
				return output.ErrUsage("Exactly one of --user or --group is required")
			}
			grant, err := parseGrant(access)
			if err != nil {
				return err
			}

			if userID != "" {
				err = app.Permissions.GrantUser(cmd.Context(), args[0], userID, grant)
			} else {
				err = app.Permissions.GrantGroup(cmd.Context(), args[0], groupID, grant)
			}
			if err != nil {
				return err
			}
			return app.Output.OK(grant, "Granted access on schema "+args[0])
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User to grant access to")
	cmd.Flags().StringVar(&groupID, "group", "", "Group to grant access to")
	cmd.Flags().StringVar(&access, "access", "own_data", "Access list: own_data,all_data,insert")
	return cmd
}

func newPermsRevokeCmd() *cobra.Command {
	var userID, groupID string

	cmd := &cobra.Command{
		Use:   "revoke <schema-id>",
		Short: "Revoke data access on a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if (userID == "") == (groupID == "") {
				return output.ErrUsage("Exactly one of --user or --group is required")
			}

			if userID != "" {
				err = app.Permissions.RevokeUser(cmd.Context(), args[0], userID)
			} else {
				err = app.Permissions.RevokeGroup(cmd.Context(), args[0], groupID)
			}
			if err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"schema_id": args[0],
				"status":    "revoked",
			}, "Revoked access on schema "+args[0])
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User to revoke access from")
	cmd.Flags().StringVar(&groupID, "group", "", "Group to revoke access from")
	return cmd
}
