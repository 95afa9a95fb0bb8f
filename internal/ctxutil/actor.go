// Package ctxutil provides context utilities that can be safely imported
// anywhere. This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting reviewer/admin identity.
type ActorKey struct{}

// WithActor returns a context with the actor identity embedded.
// The identity is whatever the surface authenticated: a reviewer email for
// the HTTP API, the --actor flag (or OS user) for the CLI.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor identity, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
