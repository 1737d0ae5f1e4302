package auth

import (
	"context"
	"errors"
	"slices"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingRole  = errors.New("missing required role")
)

// Authenticator validates a bearer token and returns the caller it names.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

type Config struct {
	Enabled      bool
	Issuer       string
	JWKSURL      string
	Audience     string
	RequiredRole string
}

type Principal struct {
	Issuer   string
	Subject  string
	Username string
	Audience any
	Roles    []string
	Claims   map[string]any
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}
