package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// SchemaPayload carries the writable schema fields and shapes them into
// the wire format on serialization.
type SchemaPayload struct {
	Description string
	Fields      []SchemaField
}

// APIPayload nests the fields under structure, as the endpoint expects.
func (p SchemaPayload) APIPayload() any {
	return map[string]any{
		"description": p.Description,
		"structure": map[string]any{
			"fields": p.Fields,
		},
	}
}

// Schemas exposes the schema endpoints of a repository.
type Schemas struct {
	client *api.Client
}

// NewSchemas creates the schemas module.
func NewSchemas(client *api.Client) *Schemas {
	return &Schemas{client: client}
}

// List returns one page of schemas in a repository.
func (s *Schemas) List(ctx context.Context, repositoryID string, opts ListOptions) ([]Schema, *api.Page, error) {
	data, err := s.client.Get(ctx, "repositories/"+repositoryID+"/schemas", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []Schema
	page, err := listPage(data, "schemas", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one schema by id.
func (s *Schemas) Detail(ctx context.Context, schemaID string) (*Schema, error) {
	data, err := s.client.Get(ctx, "schemas/"+schemaID, nil)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := decodeWrapped(data, "schema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Create creates a schema inside a repository.
func (s *Schemas) Create(ctx context.Context, repositoryID string, payload SchemaPayload) (*Schema, error) {
	data, err := s.client.Post(ctx, "repositories/"+repositoryID+"/schemas", payload)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := decodeWrapped(data, "schema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Update replaces the description and structure of a schema.
func (s *Schemas) Update(ctx context.Context, schemaID string, payload SchemaPayload) (*Schema, error) {
	data, err := s.client.Put(ctx, "schemas/"+schemaID, payload)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := decodeWrapped(data, "schema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Delete removes a schema. With force, its documents go with it.
func (s *Schemas) Delete(ctx context.Context, schemaID string, force bool) error {
	_, err := s.client.Delete(ctx, "schemas/"+schemaID, forceParams(force))
	return err
}
