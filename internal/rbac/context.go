package rbac

import (
	"context"
	"net/http"
)

// Caller is the verified identity a request acts as.
type Caller struct {
	UserID int64
	Role   string
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext reports false for requests that never passed token checks.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

func roleOf(r *http.Request) string {
	c, _ := CallerFromContext(r.Context())
	return c.Role
}
