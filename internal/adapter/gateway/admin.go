package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"authgate/internal/domain"
)

// Administrative CRUD consumed by admin and super-admin views. These ride
// the same classified transport as the session operations: a 401 on any of
// them invalidates the session process-wide.

// UserRecord is one managed user account.
type UserRecord struct {
	UUID     string   `json:"uuid"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}

// UserPage is a page of user search results.
type UserPage struct {
	Content       []UserRecord `json:"content"`
	TotalElements int          `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Number        int          `json:"number"`
}

// SearchUsers pages through user accounts matching query.
func (c *Client) SearchUsers(ctx context.Context, query string, page, size int) (*UserPage, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var result UserPage
	if err := c.do(ctx, http.MethodGet, "/api/users?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateUserRequest carries a new user account.
type CreateUserRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// CreateUser creates a user in the active tenant.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*UserRecord, error) {
	if req.Email == "" || req.Username == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrValidation)
	}
	var created UserRecord
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser replaces a user's mutable fields.
func (c *Client) UpdateUser(ctx context.Context, userID string, req CreateUserRequest) (*UserRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	var updated UserRecord
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID), nil, nil)
}

// AssignRoles replaces a user's role set.
func (c *Client) AssignRoles(ctx context.Context, userID string, roles []string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID)+"/roles",
		map[string][]string{"roles": roles}, nil)
}

// TenantRecord is one managed tenant, super-admin scope.
type TenantRecord struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Users  int    `json:"users"`
}

// ListAllTenants enumerates every tenant (super-admin scope).
func (c *Client) ListAllTenants(ctx context.Context) ([]TenantRecord, error) {
	var tenants []TenantRecord
	if err := c.do(ctx, http.MethodGet, "/api/super-admin/tenants", nil, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// CreateTenant creates a tenant (super-admin scope).
func (c *Client) CreateTenant(ctx context.Context, name string) (*TenantRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tenant name is required", domain.ErrValidation)
	}
	var created TenantRecord
	if err := c.do(ctx, http.MethodPost, "/api/super-admin/tenants", map[string]string{"name": name}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTenant removes a tenant and everything in it (super-admin scope).
func (c *Client) DeleteTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodDelete, "/api/super-admin/tenants/"+url.PathEscape(tenantID), nil, nil)
}
