// Package auth verifies OIDC bearer tokens presented to the REST API.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Claims represents the claims read from a verified ID token.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Verifier validates bearer tokens against an OIDC issuer discovered at
// startup.
type Verifier struct {
	verifier       *oidc.IDTokenVerifier
	allowedDomains []string
}

// NewVerifier creates a Verifier with issuer discovery. allowedDomains,
// when non-empty, restricts accepted tokens to emails in those domains.
func NewVerifier(ctx context.Context, issuerURL, clientID string, allowedDomains []string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return &Verifier{
		verifier:       provider.Verifier(&oidc.Config{ClientID: clientID}),
		allowedDomains: allowedDomains,
	}, nil
}

// VerifyBearer verifies a raw bearer token and validates its claims.
func (v *Verifier) VerifyBearer(ctx context.Context, raw string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	if err := v.validateClaims(&claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// validateClaims checks the domain restriction, if configured.
func (v *Verifier) validateClaims(claims *Claims) error {
	if claims.Email == "" {
		return fmt.Errorf("email claim is required")
	}
	if len(v.allowedDomains) == 0 {
		return nil
	}

	emailParts := strings.Split(claims.Email, "@")
	if len(emailParts) != 2 {
		return fmt.Errorf("invalid email format")
	}
	domain := strings.ToLower(emailParts[1])
	for _, d := range v.allowedDomains {
		if strings.ToLower(d) == domain {
			return nil
		}
	}
	return fmt.Errorf("email domain %s is not allowed", domain)
}
