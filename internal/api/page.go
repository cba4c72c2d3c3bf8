package api

import (
	"encoding/json"
	"fmt"
)

// Page wraps a list payload: pagination counters plus the items held
// under a resource-specific key (e.g. "repositories", "documents").
type Page struct {
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`

	items json.RawMessage
}

// HasMore reports whether further pages exist beyond this one.
func (p *Page) HasMore() bool {
	return p.Offset+p.Count < p.TotalCount
}

// Items unmarshals the page items into v, which must be a pointer to
// a slice.
func (p *Page) Items(v any) error {
	if p.items == nil {
		return fmt.Errorf("page has no items")
	}
	return json.Unmarshal(p.items, v)
}

// DecodePage interprets a success payload as a paged list whose items
// live under the given key.
func DecodePage(data json.RawMessage, key string) (*Page, error) {
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page counters: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode page fields: %w", err)
	}
	items, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("page has no %q field", key)
	}
	page.items = items
	return &page, nil
}
