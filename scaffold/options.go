package scaffold

import "github.com/workerforge/workerforge/manifest"

// ============================================================================
// SCAFFOLD OPTIONS — Functional options for Generate()
// ============================================================================

// Option configures scaffold behavior via functional options.
type Option func(*config)

type config struct {
	extraFeatures []manifest.Feature
	objectName    string
	extraFiles    map[string]string // path → content, appended after the minimum set
}

// WithDurableObject requests a durable object class with the given name.
// An empty name derives one from the project name.
func WithDurableObject(name string) Option {
	return func(c *config) {
		c.extraFeatures = append(c.extraFeatures, manifest.FeatureDurableObject)
		c.objectName = name
	}
}

// WithAlarm adds a scheduled-wake handler to the object class.
func WithAlarm() Option {
	return func(c *config) {
		c.extraFeatures = append(c.extraFeatures, manifest.FeatureAlarm)
	}
}

// WithWebSockets adds hibernation-aware WebSocket handlers.
func WithWebSockets() Option {
	return func(c *config) {
		c.extraFeatures = append(c.extraFeatures, manifest.FeatureWebSocket)
	}
}

// WithSQLStorage switches object storage to the SQL interface.
func WithSQLStorage() Option {
	return func(c *config) {
		c.extraFeatures = append(c.extraFeatures, manifest.FeatureSQL)
	}
}

// WithRPCMethods exposes method-call style invocation on the object.
func WithRPCMethods() Option {
	return func(c *config) {
		c.extraFeatures = append(c.extraFeatures, manifest.FeatureRPC)
	}
}

// WithExtraFile adds a file beyond the minimum set, replacing any
// earlier extra file at the same path.
func WithExtraFile(path, content string) Option {
	return func(c *config) {
		if c.extraFiles == nil {
			c.extraFiles = map[string]string{}
		}
		c.extraFiles[path] = content
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
