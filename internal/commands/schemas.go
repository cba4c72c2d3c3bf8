package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewSchemasCmd creates the schemas command group.
func NewSchemasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Manage schemas",
	}

	cmd.AddCommand(
		newSchemasListCmd(),
		newSchemasShowCmd(),
		newSchemasCreateCmd(),
		newSchemasUpdateCmd(),
		newSchemasDeleteCmd(),
	)

	return cmd
}

// parseFieldSpecs turns name:type[:indexed] flag values into schema fields.
func parseFieldSpecs(specs []string) ([]resources.SchemaField, error) {
	fields := make([]resources.SchemaField, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, output.ErrUsageHint(
				fmt.Sprintf("Invalid field %q", spec),
				"Use name:type or name:type:indexed, e.g. age:integer:indexed")
		}
		field := resources.SchemaField{Name: parts[0], Type: parts[1]}
		if len(parts) == 3 {
			if parts[2] != "indexed" {
				return nil, output.ErrUsageHint(
					fmt.Sprintf("Invalid field modifier %q", parts[2]),
					"The only modifier is indexed")
			}
			field.Indexed = true
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func newSchemasListCmd() *cobra.Command {
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "list <repository-id>",
		Short: "List schemas in a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			items, page, err := app.Schemas.List(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return app.Output.OK(items, pageSummary("schemas", len(items), page))
		},
	}

	addListFlags(cmd, &opts)
	return cmd
}

func newSchemasShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <schema-id>",
		Short: "Show one schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			schema, err := app.Schemas.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.Output.OK(schema, "Schema "+schema.SchemaID)
		},
	}
}

func newSchemasCreateCmd() *cobra.Command {
	var description string
	var fieldSpecs []string

	cmd := &cobra.Command{
		Use:   "create <repository-id>",
		Short: "Create a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if len(fieldSpecs) == 0 {
				return output.ErrUsage("At least one --field is required")
			}
			fields, err := parseFieldSpecs(fieldSpecs)
			if err != nil {
				return err
			}
			schema, err := app.Schemas.Create(cmd.Context(), args[0], resources.SchemaPayload{
				Description: description,
				Fields:      fields,
			})
			if err != nil {
				return err
			}
			return app.Output.OK(schema, "Created schema "+schema.SchemaID)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Schema description")
	cmd.Flags().StringArrayVarP(&fieldSpecs, "field", "f", nil, "Field as name:type[:indexed] (repeatable)")
	return cmd
}

func newSchemasUpdateCmd() *cobra.Command {
	var description string
	var fieldSpecs []string

	cmd := &cobra.Command{
		Use:   "update <schema-id>",
		Short: "Replace the description and structure of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if len(fieldSpecs) == 0 {
				return output.ErrUsage("At least one --field is required")
			}
			fields, err := parseFieldSpecs(fieldSpecs)
			if err != nil {
				return err
			}
			schema, err := app.Schemas.Update(cmd.Context(), args[0], resources.SchemaPayload{
				Description: description,
				Fields:      fields,
			})
			if err != nil {
				return err
			}
			return app.Output.OK(schema, "Updated schema "+schema.SchemaID)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Schema description")
	cmd.Flags().StringArrayVarP(&fieldSpecs, "field", "f", nil, "Field as name:type[:indexed] (repeatable)")
	return cmd
}

func newSchemasDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <schema-id>",
		Short: "Delete a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if err := app.Schemas.Delete(cmd.Context(), args[0], force); err != nil {
				return err
			}
			return app.Output.OK(map[string]string{
				"schema_id": args[0],
				"status":    "deleted",
			}, "Deleted schema "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Also drop contained documents")
	return cmd
}
