package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/output"
)

// NewAPICmd creates the api command for raw access to any endpoint.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Raw API access",
		Long:  "Dispatch requests to any endpoint. Useful for operations not covered by dedicated commands.",
	}

	cmd.AddCommand(
		newAPIVerbCmd("get"),
		newAPIVerbCmd("post"),
		newAPIVerbCmd("put"),
		newAPIVerbCmd("delete"),
	)

	return cmd
}

func newAPIVerbCmd(verb string) *cobra.Command {
	var data, jqExpr string

	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: strings.ToUpper(verb) + " request to the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			app.RestoreSession()

			path, params, err := splitPath(args[0])
			if err != nil {
				return err
			}

			var result json.RawMessage
			switch verb {
			case "get":
				result, err = app.API.Get(cmd.Context(), path, params)
			case "delete":
				result, err = app.API.Delete(cmd.Context(), path, params)
			default:
				if data == "" {
					return output.ErrUsage("--data is required")
				}
				var body any
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return output.ErrUsageHint("Invalid JSON data",
						fmt.Sprintf("JSON parse error: %v", err))
				}
				if verb == "post" {
					result, err = app.API.Post(cmd.Context(), path, body)
				} else {
					result, err = app.API.Put(cmd.Context(), path, body)
				}
			}
			if err != nil {
				return err
			}

			if jqExpr != "" {
				filtered, err := applyJQ(jqExpr, result)
				if err != nil {
					return err
				}
				return app.Output.OK(filtered, strings.ToUpper(verb)+" "+path)
			}
			return app.Output.OK(result, strings.ToUpper(verb)+" "+path)
		},
	}

	if verb == "post" || verb == "put" {
		cmd.Flags().StringVarP(&data, "data", "d", "", "Request body as JSON")
	}
	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the result data through a jq expression")
	return cmd
}

// splitPath separates an optional query string from the endpoint path.
func splitPath(arg string) (string, url.Values, error) {
	path, query, found := strings.Cut(arg, "?")
	path = strings.Trim(path, "/")
	if !found {
		return path, nil, nil
	}
	params, err := url.ParseQuery(query)
	if err != nil {
		return "", nil, output.ErrUsageHint("Invalid query string", err.Error())
	}
	return path, params, nil
}

// applyJQ runs a jq expression over the decoded result payload. A
// single result stays scalar; multiple results come back as an array.
func applyJQ(expr string, data json.RawMessage) (any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid jq expression", err.Error())
	}

	var input any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("result is not JSON: %w", err)
		}
	}

	var results []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, output.ErrUsageHint("jq evaluation failed", err.Error())
		}
		results = append(results, v)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
