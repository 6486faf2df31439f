package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"authgate/internal/domain"
)

// authResponse is the credential envelope returned by login, refresh, and
// tenant switch.
type authResponse struct {
	Token string `json:"token"`
}

// userAccountInfo is the backend's identity record.
type userAccountInfo struct {
	UUID              string   `json:"uuid"`
	Username          string   `json:"username"`
	TenantID          string   `json:"tenantId"`
	TenantName        string   `json:"tenantName"`
	Roles             []string `json:"roles"`
	Permissions       []string `json:"permissions"`
	CustomPermissions []string `json:"customPermissions"`
}

func (u userAccountInfo) toDomain() *domain.Identity {
	return &domain.Identity{
		UserID:            u.UUID,
		Username:          u.Username,
		TenantID:          u.TenantID,
		TenantName:        u.TenantName,
		Roles:             u.Roles,
		Permissions:       u.Permissions,
		CustomPermissions: u.CustomPermissions,
	}
}

// tenantInfo is one tenant the current user belongs to.
type tenantInfo struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Login exchanges email and password for a credential. Implements
// domain.Authenticator. The credential is returned, not stored; credential
// ownership stays with the caller's flow.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"email":      email,
		"password":   password,
		"rememberMe": rememberMe,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// FetchIdentity retrieves the identity record for the current credential.
// Implements domain.IdentityFetcher.
func (c *Client) FetchIdentity(ctx context.Context) (*domain.Identity, error) {
	var info userAccountInfo
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &info); err != nil {
		return nil, err
	}
	return info.toDomain(), nil
}

// RefreshCredential exchanges the current credential for a new one.
// Implements domain.CredentialRefresher.
func (c *Client) RefreshCredential(ctx context.Context) (string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListTenants enumerates tenants the current user belongs to. Implements
// part of domain.TenantSwitcher. Fetched fresh per call, never cached.
func (c *Client) ListTenants(ctx context.Context) ([]domain.TenantRef, error) {
	var infos []tenantInfo
	if err := c.do(ctx, http.MethodGet, "/api/auth/tenants", nil, &infos); err != nil {
		return nil, err
	}
	refs := make([]domain.TenantRef, 0, len(infos))
	for _, t := range infos {
		refs = append(refs, domain.TenantRef{ID: t.UUID, Name: t.Name})
	}
	return refs, nil
}

// SwitchTenant requests a credential scoped to tenantID. Implements part of
// domain.TenantSwitcher.
func (c *Client) SwitchTenant(ctx context.Context, tenantID string) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}
	var resp authResponse
	err := c.do(ctx, http.MethodPut, "/api/auth/tenant", map[string]string{"tenantId": tenantID}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// RequestPasswordReset asks the backend to mail a reset token to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/api/password-reset/request", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the mailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/api/password-reset/reset", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, nil)
}

// RegisterRequest carries a new-tenant registration.
type RegisterRequest struct {
	TenantName string `json:"tenantName"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Timezone   string `json:"timezone"`
	Language   string `json:"language"`
}

// Register creates a new tenant and its first user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if req.TenantName == "" || req.Email == "" || req.Username == "" {
		return fmt.Errorf("%w: tenant name, username and email are required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/api/registration/register", req, nil)
}

// ActivateAccount activates a registered account with the mailed token.
func (c *Client) ActivateAccount(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return fmt.Errorf("%w: token and password are required", domain.ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/api/activation/activate", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}
