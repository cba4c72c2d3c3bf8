package resources

import (
	"context"
	"net/url"

	"github.com/chino-io/chino-go/internal/api"
)

// DocumentListOptions extends pagination with content inlining.
type DocumentListOptions struct {
	ListOptions
	FullDocument bool
}

func (o DocumentListOptions) values() url.Values {
	v := o.ListOptions.values()
	if o.FullDocument {
		v.Set("full_document", "true")
	}
	return v
}

// Documents exposes the document endpoints of a schema.
type Documents struct {
	client *api.Client
}

// NewDocuments creates the documents module.
func NewDocuments(client *api.Client) *Documents {
	return &Documents{client: client}
}

// List returns one page of documents in a schema. Content is omitted
// unless FullDocument is set.
func (d *Documents) List(ctx context.Context, schemaID string, opts DocumentListOptions) ([]Document, *api.Page, error) {
	data, err := d.client.Get(ctx, "schemas/"+schemaID+"/documents", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []Document
	page, err := listPage(data, "documents", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one document, content included.
func (d *Documents) Detail(ctx context.Context, documentID string) (*Document, error) {
	data, err := d.client.Get(ctx, "documents/"+documentID, nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := decodeWrapped(data, "document", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create stores a schema-conforming document.
func (d *Documents) Create(ctx context.Context, schemaID string, content map[string]any) (*Document, error) {
	data, err := d.client.Post(ctx, "schemas/"+schemaID+"/documents", map[string]any{"content": content})
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := decodeWrapped(data, "document", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update replaces the content of a document.
func (d *Documents) Update(ctx context.Context, documentID string, content map[string]any) (*Document, error) {
	data, err := d.client.Put(ctx, "documents/"+documentID, map[string]any{"content": content})
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := decodeWrapped(data, "document", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes a document. Without force it is only deactivated.
func (d *Documents) Delete(ctx context.Context, documentID string, force bool) error {
	_, err := d.client.Delete(ctx, "documents/"+documentID, forceParams(force))
	return err
}
