package client

import "context"

// unexported, collision-proof context key
type authContextKeyType struct{}

var authKey = authContextKeyType{}

// WithAuth places the auth Context into ctx for downstream consumers.
func WithAuth(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, authKey, c)
}

// FromContext extracts the auth Context, reporting whether one is in
// scope.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(authKey).(*Context)
	return c, ok
}

// MustFromContext extracts the auth Context and panics when none is in
// scope. Reading identity outside the container's lifetime is a
// programming error and must fail at development time, not silently
// return an empty identity.
func MustFromContext(ctx context.Context) *Context {
	c, ok := FromContext(ctx)
	if !ok {
		panic("client: auth Context not in scope; wrap the call graph with WithAuth")
	}
	return c
}
