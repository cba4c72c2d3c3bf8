package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewCollectionsCmd creates the collections command group.
func NewCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
	}

	cmd.AddCommand(
		newCollectionsListCmd(),
		newCollectionsShowCmd(),
		newCollectionsCreateCmd(),
		newCollectionsRenameCmd(),
		newCollectionsDeleteCmd(),
		newCollectionsDocsCmd(),
		newCollectionsAddCmd(),
		newCollectionsRemoveCmd(),
	)

	return cmd
}

func newCollectionsListCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Collections.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("collections", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newCollectionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection-id>",
		Short: "Show one collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			col, err := app.Collections.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(col, "Collection "+col.CollectionID)
		},
	}
}

func newCollectionsCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				return output.ErrUsage("--name is required")
			}
			col, err := app.Collections.Create(cmd.Context(), name)
			if err != nil {
				return err
			}
			return app.Output.OK(col, "Created collection "+col.CollectionID)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Collection name")
	return cmd
}

func newCollectionsRenameCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <collection-id>",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				return output.ErrUsage("--name is required")
			}
			col, err := app.Collections.Rename(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			return app.Output.OK(col, "Renamed collection "+col.CollectionID)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New collection name")
	return cmd
}

func newCollectionsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "Delete a collection (member documents are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Collections.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"collection_id": args[0],
				"status":        "deleted",
			}, "Deleted collection "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete permanently instead of deactivating")
	return cmd
}

func newCollectionsDocsCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "docs <collection-id>",
		Short: "List documents in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Collections.Documents(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("documents", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newCollectionsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection-id> <document-id>",
		Short: "Add a document to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Collections.AddDocument(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"collection_id": args[0],
				"document_id":   args[1],
				"status":        "added",
			}, "Added document to collection")
		},
	}
}

func newCollectionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection-id> <document-id>",
		Short: "Remove a document from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Collections.RemoveDocument(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"collection_id": args[0],
				"document_id":   args[1],
				"status":        "removed",
			}, "Removed document from collection")
		},
	}
}
