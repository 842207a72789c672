package auth

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying c.
func NewContext(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the controller attached with NewContext. It panics
// when there is none: that is a wiring bug, not a runtime condition.
func FromContext(ctx context.Context) *Controller {
	c, ok := ctx.Value(contextKey{}).(*Controller)
	if !ok || c == nil {
		panic("auth: FromContext called without a controller; attach one with auth.NewContext")
	}
	return c
}
