package auth

import "context"

type principalKey struct{}

// WithPrincipal stores the authenticated caller on ctx.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext reports the caller stored by WithPrincipal. The
// second result is false on unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Username returns the caller's preferred username, or "anonymous" when
// the request was not authenticated.
func Username(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Username == "" {
		return "anonymous"
	}
	return p.Username
}
