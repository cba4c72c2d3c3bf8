package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// Repositories exposes the repository CRUD endpoints.
type Repositories struct {
	client *api.Client
}

// NewRepositories creates the repositories module.
func NewRepositories(client *api.Client) *Repositories {
	return &Repositories{client: client}
}

// List returns one page of repositories.
func (r *Repositories) List(ctx context.Context, opts ListOptions) ([]Repository, *api.Page, error) {
	data, err := r.client.Get(ctx, "repositories", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []Repository
	page, err := listPage(data, "repositories", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one repository by id.
func (r *Repositories) Detail(ctx context.Context, repositoryID string) (*Repository, error) {
	data, err := r.client.Get(ctx, "repositories/"+repositoryID, nil)
	if err != nil {
		return nil, err
	}
	var repo Repository
	if err := decodeWrapped(data, "repository", &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Create creates a repository with the given description.
func (r *Repositories) Create(ctx context.Context, description string) (*Repository, error) {
	data, err := r.client.Post(ctx, "repositories", map[string]string{"description": description})
	if err != nil {
		return nil, err
	}
	var repo Repository
	if err := decodeWrapped(data, "repository", &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Update replaces mutable repository fields.
func (r *Repositories) Update(ctx context.Context, repositoryID string, fields map[string]any) (*Repository, error) {
	data, err := r.client.Put(ctx, "repositories/"+repositoryID, fields)
	if err != nil {
		return nil, err
	}
	var repo Repository
	if err := decodeWrapped(data, "repository", &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Delete removes a repository. With force, contained data is dropped too.
func (r *Repositories) Delete(ctx context.Context, repositoryID string, force bool) error {
	_, err := r.client.Delete(ctx, "repositories/"+repositoryID, forceParams(force))
	return err
}
