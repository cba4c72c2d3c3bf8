package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var schemaID, filterType, resultType string
	var filters, sorts []string
	var opts resources.ListOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search documents in a schema",
		Long:  "Run a filtered search over the documents of one schema. Filters use field:op:value, e.g. age:gt:30 or name:eq:Ada.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if schemaID == "" {
				return output.ErrUsage("--schema is required")
			}
			if len(filters) == 0 {
				return output.ErrUsage("At least one --filter is required")
			}

			query := resources.SearchQuery{
				SchemaID:   schemaID,
				FilterType: filterType,
				ResultType: resultType,
			}
			for _, f := range filters {
				clause, err := parseFilter(f)
				if err != nil {
					return err
				}
				query.Filters = append(query.Filters, clause)
			}
			for _, s := range sorts {
				clause, err := parseSort(s)
				if err != nil {
					return err
				}
				query.Sort = append(query.Sort, clause)
			}

			docs, page, err := app.Search.Documents(cmd.Context(), query, opts)
			if err != nil {
				return err
			}
			return app.Output.OK(docs, pageSummary("documents", len(docs), page))
		},
	}

	cmd.Flags().StringVarP(&schemaID, "schema", "s", "", "Schema to search in")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as field:op:value (repeatable)")
	cmd.Flags().StringArrayVar(&sorts, "sort", nil, "Sort as field:asc or field:desc (repeatable)")
	cmd.Flags().StringVar(&filterType, "filter-type", "and", "How filters combine: and, or")
	cmd.Flags().StringVar(&resultType, "result-type", "FULL_CONTENT", "Result shape: FULL_CONTENT, NO_CONTENT, ONLY_ID, COUNT")
	addListFlags(cmd, &opts)
	return cmd
}

// parseFilter splits field:op:value. The value keeps any further colons
// and is decoded as JSON when possible so numbers and booleans compare
// as their native types.
func parseFilter(spec string) (resources.FilterClause, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return resources.FilterClause{}, output.ErrUsageHint(
			fmt.Sprintf("Invalid filter %q", spec),
			"Use field:op:value, e.g. age:gt:30")
	}
	var value any = parts[2]
	var decoded any
	if err := json.Unmarshal([]byte(parts[2]), &decoded); err == nil {
		value = decoded
	}
	return resources.FilterClause{Field: parts[0], Type: parts[1], Value: value}, nil
}

func parseSort(spec string) (resources.SortClause, error) {
	parts := strings.SplitN(spec, ":", 2)
	order := "asc"
	if len(parts) == 2 {
		order = parts[1]
	}
	if parts[0] == "" || (order != "asc" && order != "desc") {
		return resources.SortClause{}, output.ErrUsageHint(
			fmt.Sprintf("Invalid sort %q", spec),
			"Use field:asc or field:desc")
	}
	return resources.SortClause{Field: parts[0], Order: order}, nil
}
