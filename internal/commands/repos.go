package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/api"
	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewReposCmd creates the repos command group.
func NewReposCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Manage repositories",
	}

	cmd.AddCommand(
		newReposListCmd(),
		newReposShowCmd(),
		newReposCreateCmd(),
		newReposUpdateCmd(),
		newReposDeleteCmd(),
	)

	return cmd
}

func newReposListCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			var items []resources.Repository
			var page *api.Page
			err = withRetry(cmd.Context(), app, func(ctx context.Context) error {
				items, page, err = app.Repositories.List(ctx, opts)
				return err
			})
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("repositories", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newReposShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <repository-id>",
		Short: "Show one repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			repo, err := app.Repositories.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(repo, "Repository "+repo.RepositoryID)
		},
	}
}

func newReposCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if description == "" {
				return output.ErrUsage("--description is required")
			}
			repo, err := app.Repositories.Create(cmd.Context(), description)
			if err != nil {
				return err
			}
			return app.Output.OK(repo, "Created repository "+repo.RepositoryID)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Repository description")
	return cmd
}

func newReposUpdateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "update <repository-id>",
		Short: "Update a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if description == "" {
				return output.ErrUsage("--description is required")
			}
			repo, err := app.Repositories.Update(cmd.Context(), args[0],
				map[string]any{"description": description})
			if err != nil {
				return err
			}
			return app.Output.OK(repo, "Updated repository "+repo.RepositoryID)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newReposDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <repository-id>",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Repositories.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"repository_id": args[0],
				"status":        "deleted",
			}, "Deleted repository "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Also drop contained schemas and documents")
	return cmd
}
