package app

import "context"

type providerKey struct{}

type provider interface {
	Inject(key any) (any, bool)
}

func withProvided(ctx context.Context, p provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// Inject returns the value provided under key to the application rendering
// ctx. It returns false outside an application render.
func Inject(ctx context.Context, key any) (any, bool) {
	p, ok := ctx.Value(providerKey{}).(provider)
	if !ok {
		return nil, false
	}
	return p.Inject(key)
}

// WithValues returns a context in which Inject resolves keys from values.
// Views rendered outside an App use it to stand in for plugin-provided values.
func WithValues(ctx context.Context, values map[any]any) context.Context {
	return withProvided(ctx, staticProvider(values))
}

type staticProvider map[any]any

func (s staticProvider) Inject(key any) (any, bool) {
	v, ok := s[key]
	return v, ok
}
