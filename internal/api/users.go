package api

import (
	"context"
	"net/url"

	"deliveryPortal/models"
)

// UserRequest creates or updates an account through the admin surface.
type UserRequest struct {
	Name     string      `json:"name,omitempty"`
	Email    string      `json:"email,omitempty"`
	Phone    string      `json:"phone,omitempty"`
	Password string      `json:"password,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// ListUsers returns platform accounts, optionally filtered by role.
// Admin only; other roles get a 403 from the backend.
func (c *Client) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", string(role))
	}
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.get(ctx, "/admin/users", q, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// GetUser fetches a single account.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.get(ctx, "/admin/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateUser creates an account (admin-created livreurs arrive pre-verified).
func (c *Client) CreateUser(ctx context.Context, req UserRequest) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.post(ctx, "/admin/users", req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateUser patches account fields.
func (c *Client) UpdateUser(ctx context.Context, id string, req UserRequest) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.patch(ctx, "/admin/users/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SetUserActive toggles account activation.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) error {
	return c.patch(ctx, "/admin/users/"+id+"/status", map[string]bool{"active": active}, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/users/"+id)
}
