package config

import "context"

type contextKey struct{}

// Clone returns a copy that can be changed without touching c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ContextWithConfig returns a context carrying cfg, the configuration of a
// single command invocation.
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the configuration stored by ContextWithConfig, or the
// global configuration when there is none.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return GetGlobalConfig()
}
