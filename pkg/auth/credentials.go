// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"errors"
	"net/http"
	"strings"
)

const (
	// HeaderAccountToken carries the client credential on inbound requests.
	HeaderAccountToken  = "X-Account-Token"
	HeaderAuthorization = "Authorization"

	bearerPrefix = "Bearer "
)

// Credentials injects the upstream auth context: the caller's account token
// re-wrapped as a bearer credential, plus the configured tenant.
type Credentials struct {
	TenantHeader string
	Tenant       string
}

// NewCredentials constructs credentials for the given tenant header and value.
func NewCredentials(tenantHeader, tenant string) *Credentials {
	return &Credentials{
		TenantHeader: tenantHeader,
		Tenant:       tenant,
	}
}

// AccountToken returns the account token supplied by the client, or "" if
// the header is missing or blank.
func AccountToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderAccountToken))
}

// Attach mutates req by setting the bearer Authorization header and the
// tenant header. Values always come from token and the credentials, never
// from headers already on req.
func (c *Credentials) Attach(req *http.Request, token string) error {
	if token == "" {
		return errors.New("account token must be set")
	}
	if c.TenantHeader == "" || c.Tenant == "" {
		return errors.New("tenant header and tenant must be set")
	}

	req.Header.Set(HeaderAuthorization, bearerPrefix+token)
	req.Header.Set(c.TenantHeader, c.Tenant)

	return nil
}
