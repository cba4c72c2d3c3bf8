package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// Collections exposes the collection endpoints.
type Collections struct {
	client *api.Client
}

// NewCollections creates the collections module.
func NewCollections(client *api.Client) *Collections {
	return &Collections{client: client}
}

// List returns one page of collections.
func (c *Collections) List(ctx context.Context, opts ListOptions) ([]Collection, *api.Page, error) {
	data, err := c.client.Get(ctx, "collections", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []Collection
	page, err := listPage(data, "collections", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one collection by id.
func (c *Collections) Detail(ctx context.Context, collectionID string) (*Collection, error) {
	data, err := c.client.Get(ctx, "collections/"+collectionID, nil)
	if err != nil {
		return nil, err
	}
	var col Collection
	if err := decodeWrapped(data, "collection", &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// Create creates a named collection.
func (c *Collections) Create(ctx context.Context, name string) (*Collection, error) {
	data, err := c.client.Post(ctx, "collections", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var col Collection
	if err := decodeWrapped(data, "collection", &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// Rename changes the name of a collection.
func (c *Collections) Rename(ctx context.Context, collectionID, name string) (*Collection, error) {
	data, err := c.client.Put(ctx, "collections/"+collectionID, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var col Collection
	if err := decodeWrapped(data, "collection", &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// Delete removes a collection. Member documents are never deleted.
func (c *Collections) Delete(ctx context.Context, collectionID string, force bool) error {
	_, err := c.client.Delete(ctx, "collections/"+collectionID, forceParams(force))
	return err
}

// Documents returns one page of documents in a collection.
func (c *Collections) Documents(ctx context.Context, collectionID string, opts ListOptions) ([]Document, *api.Page, error) {
	data, err := c.client.Get(ctx, "collections/"+collectionID+"/documents", opts.values())
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

// AddDocument inserts a document into a collection.
func (c *Collections) AddDocument(ctx context.Context, collectionID, documentID string) error {
	_, err := c.client.Post(ctx, "collections/"+collectionID+"/documents/"+documentID, nil)
	return err
}

// RemoveDocument takes a document out of a collection.
func (c *Collections) RemoveDocument(ctx context.Context, collectionID, documentID string) error {
	_, err := c.client.Delete(ctx, "collections/"+collectionID+"/documents/"+documentID, nil)
	return err
}
