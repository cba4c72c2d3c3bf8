package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// Permissions exposes the schema permission endpoints.
type Permissions struct {
	client *api.Client
}

// NewPermissions creates the permissions module.
func NewPermissions(client *api.Client) *Permissions {
	return &Permissions{client: client}
}

// GrantUser sets the data access a user has on a schema.
func (p *Permissions) GrantUser(ctx context.Context, schemaID, userID string, grant PermissionGrant) error {
	_, err := p.client.Post(ctx, "perms/schemas/"+schemaID+"/users/"+userID, grant)
	return err
}

// GrantGroup sets the data access a group has on a schema.
func (p *Permissions) GrantGroup(ctx context.Context, schemaID, groupID string, grant PermissionGrant) error {
	_, err := p.client.Post(ctx, "perms/schemas/"+schemaID+"/groups/"+groupID, grant)
	return err
}

// RevokeUser removes a user's grant on a schema.
func (p *Permissions) RevokeUser(ctx context.Context, schemaID, userID string) error {
	_, err := p.client.Delete(ctx, "perms/schemas/"+schemaID+"/users/"+userID, nil)
	return err
}

// RevokeGroup removes a group's grant on a schema.
func (p *Permissions) RevokeGroup(ctx context.Context, schemaID, groupID string) error {
	_, err := p.client.Delete(ctx, "perms/schemas/"+schemaID+"/groups/"+groupID, nil)
	return err
}
