// Package resources provides the typed resource modules of the API:
// repositories, schemas, documents, collections, users, groups,
// permissions and search. Each module is a thin mapping from parameters
// to dispatcher calls plus record decoding.
package resources

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/chino-io/chino-go/internal/api"
)

// ListOptions are the common pagination parameters of list endpoints.
type ListOptions struct {
	Offset int
	Limit  int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// forceParams returns the query parameters for a delete call.
func forceParams(force bool) url.Values {
	if !force {
		return nil
	}
	return url.Values{"force": {"true"}}
}

// decodeWrapped extracts the record held under key in a success payload,
// e.g. {"repository": {...}}.
func decodeWrapped(data json.RawMessage, key string, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("response has no %q field", key)
	}
	return json.Unmarshal(raw, v)
}

// listPage decodes a paged list payload into items.
func listPage(data json.RawMessage, key string, items any) (*api.Page, error) {
	page, err := api.DecodePage(data, key)
	if err != nil {
		return nil, err
	}
	if err := page.Items(items); err != nil {
		return nil, err
	}
	return page, nil
}
