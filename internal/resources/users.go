package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// Users exposes the user account endpoints.
type Users struct {
	client *api.Client
}

// NewUsers creates the users module.
func NewUsers(client *api.Client) *Users {
	return &Users{client: client}
}

// List returns one page of users.
func (u *Users) List(ctx context.Context, opts ListOptions) ([]User, *api.Page, error) {
	data, err := u.client.Get(ctx, "users", opts.values())
	if err != nil {
		return nil, nil, err
	}
	var items []User
	page, err := listPage(data, "users", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

// Detail returns one user by id.
func (u *Users) Detail(ctx context.Context, userID string) (*User, error) {
	data, err := u.client.Get(ctx, "users/"+userID, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeWrapped(data, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Current returns the account the active credentials resolve to. Under
// user auth this is the logged-in user.
func (u *Users) Current(ctx context.Context) (*User, error) {
	data, err := u.client.Get(ctx, "auth/info", nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeWrapped(data, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a user with credentials and attributes.
func (u *Users) Create(ctx context.Context, username, password string, attributes map[string]any) (*User, error) {
	body := map[string]any{
		"username":   username,
		"password":   password,
		"attributes": attributes,
	}
	data, err := u.client.Post(ctx, "users", body)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeWrapped(data, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update merges the given fields into a user record. Passing a
// "password" field rotates the credential.
func (u *Users) Update(ctx context.Context, userID string, fields map[string]any) (*User, error) {
	data, err := u.client.Put(ctx, "users/"+userID, fields)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeWrapped(data, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user account.
func (u *Users) Delete(ctx context.Context, userID string, force bool) error {
	_, err := u.client.Delete(ctx, "users/"+userID, forceParams(force))
	return err
}
