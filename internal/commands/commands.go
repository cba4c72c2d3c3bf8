// Package commands implements the CLI commands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chino-io/chino-go/internal/appctx"
	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resources"
)

// appFrom pulls the application context out of the command.
func appFrom(cmd *cobra.Command) (*appctx.App, error) {
	app := appctx.FromContext(cmd.Context())
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// addListFlags registers the shared pagination flags.
func addListFlags(cmd *cobra.Command, opts *resources.ListOptions) {
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Skip this many results")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum results per page")
}

// withRetry runs op under the app retry policy. Transient transport
// faults are retried; everything else surfaces immediately.
func withRetry(ctx context.Context, app *appctx.App, op func(ctx context.Context) error) error {
	return app.Retry.Do(ctx, op)
}

// parseJSONObject decodes a --data style flag value into a map.
func parseJSONObject(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, output.ErrUsageHint("Invalid JSON data",
			fmt.Sprintf("JSON parse error: %v", err))
	}
	return fields, nil
}

// pageSummary renders a one-line pagination summary.
func pageSummary(noun string, n int, page interface{ HasMore() bool }) string {
	s := fmt.Sprintf("%d %s", n, noun)
	if page.HasMore() {
		s += " (more available, use --offset)"
	}
	return s
}
