package commands

import (
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the effective configuration and where each value came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			cfg := app.Config
			// Secrets never leave the process; report only presence.
			data := map[string]any{
				"base_url":      cfg.BaseURL,
				"api_version":   cfg.APIVersion,
				"timeout":       cfg.Timeout,
				"chunk_size":    cfg.ChunkSize,
				"customer_id":   cfg.CustomerID,
				"customer_key":  cfg.CustomerKey != "",
				"client_id":     cfg.ClientID,
				"client_secret": cfg.ClientSecret != "",
				"format":        cfg.Format,
				"sources":       cfg.Sources,
			}
			return app.Output.OK(data, "Configuration for "+cfg.BaseURL)
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one config value and its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			value, source, err := app.Config.Get(args[0])
			if err != nil {
				return output.ErrUsage(err.Error())
			}
			return app.Output.OK(map[string]string{
				"key":    args[0],
				"value":  value,
				"source": source,
			}, args[0]+" = "+value+" ("+source+")")
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one config value to the global config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			path, err := config.SetGlobal(args[0], args[1])
			if err != nil {
				return output.ErrUsage(err.Error())
			}
			return app.Output.OK(map[string]string{
				"key":   args[0],
				"value": args[1],
				"file":  path,
			}, "Wrote "+args[0]+" to "+path)
		},
	}
}
