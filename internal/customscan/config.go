package customscan

import "fmt"

// ResidualFilter selects which restriction clauses the compiled scan
// re-checks on the rows returned by the push-down.
type ResidualFilter string

const (
	// ResidualFilterNone trusts the push-down for every clause.
	ResidualFilterNone ResidualFilter = "none"

	// ResidualFilterAll re-checks every non-pseudoconstant clause.
	ResidualFilterAll ResidualFilter = "all"

	// ResidualFilterUnconsumed re-checks the clauses the push-down did not
	// consume.
	ResidualFilterUnconsumed ResidualFilter = "unconsumed"
)

// ResidualFilters lists the accepted ResidualFilter values.
var ResidualFilters = []ResidualFilter{ResidualFilterNone, ResidualFilterAll, ResidualFilterUnconsumed}

func (r ResidualFilter) Validate() error {
	switch r {
	case ResidualFilterNone, ResidualFilterAll, ResidualFilterUnconsumed:
		return nil
	default:
		return fmt.Errorf("unknown residual filter %q, must be one of %v", string(r), ResidualFilters)
	}
}

// Config configures the provider.
type Config struct {
	// QueryTypeName is the type of the operator's right operand.
	QueryTypeName string `debugmap:"visible" default:"zdbquery"`

	// OperatorNamespace and OperatorName identify the push-down operator.
	OperatorNamespace string `debugmap:"visible" default:"pg_catalog"`
	OperatorName      string `debugmap:"visible" default:"==>"`

	// RegisterPath controls whether a matched relation gets its path added
	// to the planner. Without it the path is only built and logged.
	RegisterPath bool `debugmap:"visible" default:"true"`

	ResidualFilter ResidualFilter `debugmap:"visible" default:"none"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.QueryTypeName == "" {
		return fmt.Errorf("query type name is required")
	}
	if c.OperatorName == "" {
		return fmt.Errorf("operator name is required")
	}
	return c.ResidualFilter.Validate()
}

func (c *Config) operatorQualifiedName() []string {
	if c.OperatorNamespace == "" {
		return []string{c.OperatorName}
	}
	return []string{c.OperatorNamespace, c.OperatorName}
}
