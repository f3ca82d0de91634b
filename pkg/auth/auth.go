// Package auth provides authentication support for release API requests.
//
//go:generate mockgen -destination=./mocks/auth.go . Authenticator
package auth

import (
	"net/http"
	"os"
	"strings"
)

// Authenticator applies credentials to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type represents the type of authentication.
type Type string

// Authentication types.
const (
	// BearerAuthType sends a token in the Authorization header.
	BearerAuthType Type = "bearer"
	// AnonymousAuthType sends no credentials.
	AnonymousAuthType Type = "anonymous"
)

// TokenEnvVars are consulted in order by FromEnv.
var TokenEnvVars = []string{"LEAF_GITHUB_TOKEN", "GITHUB_TOKEN"}

// BearerAuth represents Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply adds the token to the Authorization header of the request.
func (b BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// Type returns BearerAuthType.
func (b BearerAuth) Type() Type { return BearerAuthType }

// Anonymous leaves requests untouched.
type Anonymous struct{}

// Apply does nothing.
func (Anonymous) Apply(*http.Request) error { return nil }

// Type returns AnonymousAuthType.
func (Anonymous) Type() Type { return AnonymousAuthType }

// FromEnv returns a BearerAuth for the first non-empty variable in TokenEnvVars,
// or Anonymous when none is set. Unauthenticated GitHub API calls are rate limited per IP.
func FromEnv() Authenticator {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) Authenticator {
	for _, name := range TokenEnvVars {
		if token, ok := lookup(name); ok && strings.TrimSpace(token) != "" {
			return BearerAuth{Token: strings.TrimSpace(token)}
		}
	}
	return Anonymous{}
}
