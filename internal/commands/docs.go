package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewDocsCmd creates the docs command group.
func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents",
	}

	cmd.AddCommand(
		newDocsListCmd(),
		newDocsShowCmd(),
		newDocsCreateCmd(),
		newDocsUpdateCmd(),
		newDocsDeleteCmd(),
	)

	return cmd
}

func newDocsListCmd() *cobra.Command {
	var opts resources.DocumentListOptions

	cmd := &cobra.Command{
		Use:   "list <schema-id>",
		Short: "List documents in a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Documents.List(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("documents", len(items), page))
		},
	}

	addListFlags(cmd, &opts.ListOptions)
	cmd.Flags().BoolVar(&opts.FullDocument, "full", false, "Include document content")
	return cmd
}

func newDocsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show one document with content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			doc, err := app.Documents.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(doc, "Document "+doc.DocumentID)
		},
	}
}

func newDocsCreateCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "create <schema-id>",
		Short: "Create a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if content == "" {
				return output.ErrUsage("--content is required")
			}
			fields, err := parseJSONObject(content)
			if err != nil {
				return err
			}
			doc, err := app.Documents.Create(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return app.Output.OK(doc, "Created document "+doc.DocumentID)
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Document content as a JSON object")
	return cmd
}

func newDocsUpdateCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "update <document-id>",
		Short: "Replace the content of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if content == "" {
				return output.ErrUsage("--content is required")
			}
			fields, err := parseJSONObject(content)
			if err != nil {
				return err
			}
			doc, err := app.Documents.Update(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return app.Output.OK(doc, "Updated document "+doc.DocumentID)
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Document content as a JSON object")
	return cmd
}

func newDocsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Documents.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"document_id": args[0],
				"status":      "deleted",
			}, "Deleted document "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete permanently instead of deactivating")
	return cmd
}
