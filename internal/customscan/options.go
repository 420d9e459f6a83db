package customscan

import (
	"github.com/creasty/defaults"
)

type ConfigOption func(c *Config)

// NewConfigWithOptions creates a new Config with the passed in options set
func NewConfigWithOptions(opts ...ConfigOption) *Config {
	c := &Config{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewConfigWithOptionsAndDefaults creates a new Config with the passed in options set starting from the defaults
func NewConfigWithOptionsAndDefaults(opts ...ConfigOption) *Config {
	c := &Config{}
	defaults.MustSet(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

// ToOption returns a new ConfigOption that sets the values from the passed in Config
func (c *Config) ToOption() ConfigOption {
	return func(to *Config) {
		to.QueryTypeName = c.QueryTypeName
		to.OperatorNamespace = c.OperatorNamespace
		to.OperatorName = c.OperatorName
		to.RegisterPath = c.RegisterPath
		to.ResidualFilter = c.ResidualFilter
	}
}

// DebugMap returns a map form of Config for debugging
func (c Config) DebugMap() map[string]any {
	debugMap := map[string]any{}
	debugMap["QueryTypeName"] = c.QueryTypeName
	debugMap["OperatorNamespace"] = c.OperatorNamespace
	debugMap["OperatorName"] = c.OperatorName
	debugMap["RegisterPath"] = c.RegisterPath
	debugMap["ResidualFilter"] = string(c.ResidualFilter)
	return debugMap
}

// ConfigWithOptions configures an existing Config with the passed in options set
func ConfigWithOptions(c *Config, opts ...ConfigOption) *Config {
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithOptions configures the receiver Config with the passed in options set
func (c *Config) WithOptions(opts ...ConfigOption) *Config {
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithQueryTypeName returns an option that can set QueryTypeName on a Config
func WithQueryTypeName(queryTypeName string) ConfigOption {
	return func(c *Config) {
		c.QueryTypeName = queryTypeName
	}
}

// WithOperatorNamespace returns an option that can set OperatorNamespace on a Config
func WithOperatorNamespace(operatorNamespace string) ConfigOption {
	return func(c *Config) {
		c.OperatorNamespace = operatorNamespace
	}
}

// WithOperatorName returns an option that can set OperatorName on a Config
func WithOperatorName(operatorName string) ConfigOption {
	return func(c *Config) {
		c.OperatorName = operatorName
	}
}

// WithRegisterPath returns an option that can set RegisterPath on a Config
func WithRegisterPath(registerPath bool) ConfigOption {
	return func(c *Config) {
		c.RegisterPath = registerPath
	}
}

// WithResidualFilter returns an option that can set ResidualFilter on a Config
func WithResidualFilter(residualFilter ResidualFilter) ConfigOption {
	return func(c *Config) {
		c.ResidualFilter = residualFilter
	}
}
