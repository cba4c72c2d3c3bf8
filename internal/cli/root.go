// Package cli assembles the root command and process-level error
// handling.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/appctx"
	"github.com/chino-io/chino-go/internal/commands"
	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags
	var overrides config.FlagOverrides

	cmd := &cobra.Command{
		Use:           "chino",
		Short:         "Command-line client for the Chino document storage API",
		Long:          "chino manages repositories, schemas, documents, users, groups and blobs through the Chino multi-tenant storage API.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(overrides)
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output the JSON envelope")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (request-level debug logging)")
	cmd.PersistentFlags().BoolVar(&flags.NoRetry, "no-retry", false, "Disable retries of transient transport faults")

	cmd.PersistentFlags().StringVar(&overrides.BaseURL, "base-url", "", "API base URL")
	cmd.PersistentFlags().StringVar(&overrides.APIVersion, "api-version", "", "API version segment")
	cmd.PersistentFlags().IntVar(&overrides.Timeout, "timeout", 0, "Request timeout in seconds")
	cmd.PersistentFlags().IntVar(&overrides.ChunkSize, "chunk-size", 0, "Blob upload chunk size in bytes")
	cmd.PersistentFlags().StringVar(&overrides.CustomerID, "customer", "", "Customer ID for admin auth")
	cmd.PersistentFlags().StringVar(&overrides.ClientID, "client-id", "", "Application client ID")
	cmd.PersistentFlags().StringVar(&overrides.Format, "format", "", "Output format: auto, json, quiet, plain")

	cmd.AddCommand(
		commands.NewAuthCmd(),
		commands.NewReposCmd(),
		commands.NewSchemasCmd(),
		commands.NewDocsCmd(),
		commands.NewCollectionsCmd(),
		commands.NewUsersCmd(),
		commands.NewGroupsCmd(),
		commands.NewPermsCmd(),
		commands.NewBlobsCmd(),
		commands.NewSearchCmd(),
		commands.NewAPICmd(),
		commands.NewConfigCmd(),
		commands.NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	cmd := NewRootCmd()

	executed, err := cmd.ExecuteC()
	if err == nil {
		return
	}

	typed := output.AsError(err)

	writer := output.NewWriter(output.FormatAuto)
	if app := appctx.FromContext(executed.Context()); app != nil {
		writer = app.Output
	}
	_ = writer.Err(typed)
	os.Exit(typed.ExitCode())
}
