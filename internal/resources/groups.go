package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// Groups exposes the group endpoints.
type Groups struct {
	client *api.Client
}

// NewGroups creates the groups module.
func NewGroups(client *api.Client) *Groups {
	return &Groups{client: client}
}

// List returns one page of groups.
func (g *Groups) List(ctx context.Context, opts ListOptions) ([]Group, *api.Page, error) {
	data, err := g.client.Get(ctx, "groups", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []Group
	page, err := listPage(data, "groups", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one group by id.
func (g *Groups) Detail(ctx context.Context, groupID string) (*Group, error) {
	data, err := g.client.Get(ctx, "groups/"+groupID, nil)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := decodeWrapped(data, "group", &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create creates a named group.
func (g *Groups) Create(ctx context.Context, name string, attributes map[string]any) (*Group, error) {
	body := map[string]any{
		"group_name": name,
		"attributes": attributes,
	}
	data, err := g.client.Post(ctx, "groups", body)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := decodeWrapped(data, "group", &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Update merges fields into a group record.
func (g *Groups) Update(ctx context.Context, groupID string, fields map[string]any) (*Group, error) {
	data, err := g.client.Put(ctx, "groups/"+groupID, fields)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := decodeWrapped(data, "group", &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes a group. Member users are untouched.
func (g *Groups) Delete(ctx context.Context, groupID string, force bool) error {
	_, err := g.client.Delete(ctx, "groups/"+groupID, forceParams(force))
	return err
}

// AddUser puts a user into a group.
func (g *Groups) AddUser(ctx context.Context, groupID, userID string) error {
	_, err := g.client.Post(ctx, "groups/"+groupID+"/users/"+userID, nil)
	return err
}

// RemoveUser takes a user out of a group.
func (g *Groups) RemoveUser(ctx context.Context, groupID, userID string) error {
	_, err := g.client.Delete(ctx, "groups/"+groupID+"/users/"+userID, nil)
	return err
}
