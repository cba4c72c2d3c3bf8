package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			}, version.Full())
		},
	}
}
