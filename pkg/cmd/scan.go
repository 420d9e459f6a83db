package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/stringz"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zombodb/zdbscan/internal/customscan"
	"github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/internal/sqlclause"
	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/executor"
	"github.com/zombodb/zdbscan/pkg/explain"
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/planner"
)

// DefaultSchema is the schema queries are planned against when none is
// given.
const DefaultSchema = "CREATE TABLE docs (id bigint, title text, body text) WITH (tuples = 100000, pages = 1000)"

// ScanConfig is the configuration shared by the commands that plan queries.
type ScanConfig struct {
	// Schema holds CREATE TABLE statements defining the queryable relations.
	Schema []string

	Provider customscan.Config

	Verbose bool

	// Execution
	Workers int
	Rescans int
	Params  []string
}

// Session is a catalog with the provider installed into a planner.
type Session struct {
	catalog *catalog.MemCatalog
	planner *planner.Planner
	config  customscan.Config
}

// Complete builds the catalog described by the config and installs the
// provider.
func (c *ScanConfig) Complete() (*Session, error) {
	cat, err := catalog.New()
	if err != nil {
		return nil, fmt.Errorf("unable to create catalog: %w", err)
	}

	ext, err := customscan.NewExtension(cat, c.Provider.ToOption())
	if err != nil {
		return nil, err
	}
	if _, _, err := customscan.RegisterCatalogObjects(cat, ext.Config()); err != nil {
		return nil, err
	}

	oids, err := sqlclause.ApplyDDL(cat, stringz.DefaultEmpty(strings.Join(c.Schema, ";\n"), DefaultSchema))
	if err != nil {
		return nil, err
	}
	logging.Debug().Int("relations", len(oids)).Msg("applied schema")

	hooks := &planner.Hooks{}
	if err := ext.Install(hooks); err != nil {
		return nil, err
	}

	return &Session{catalog: cat, planner: planner.New(cat, hooks), config: ext.Config()}, nil
}

// Plan translates and plans sql.
func (s *Session) Plan(sql string) (*nodes.PlannedStmt, error) {
	query, err := sqlclause.Translate(s.catalog, sql)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(query)
}

// Explain renders the plan chosen for sql.
func (s *Session) Explain(sql string, verbose bool) (string, error) {
	stmt, err := s.Plan(sql)
	if err != nil {
		return "", err
	}
	return explain.Plan(stmt, explain.Options{Verbose: verbose, TypeNames: s.catalog})
}

// Run plans and executes sql.
func (s *Session) Run(ctx context.Context, sql string, opts executor.Options) (*executor.Result, error) {
	stmt, err := s.Plan(sql)
	if err != nil {
		return nil, err
	}
	return executor.Run(ctx, stmt, opts)
}

func registerProviderFlags(catalogFlags, providerFlags *pflag.FlagSet, config *ScanConfig) {
	defaults := customscan.NewConfigWithOptionsAndDefaults()

	catalogFlags.StringArrayVar(&config.Schema, "schema", nil, "CREATE TABLE statements defining the relations queries can reference (default \""+DefaultSchema+"\")")

	providerFlags.StringVar(&config.Provider.QueryTypeName, "query-type-name", defaults.QueryTypeName, "name of the type of the push-down operator's right operand")
	providerFlags.StringVar(&config.Provider.OperatorNamespace, "operator-namespace", defaults.OperatorNamespace, "namespace of the push-down operator")
	providerFlags.StringVar(&config.Provider.OperatorName, "operator-name", defaults.OperatorName, "name of the push-down operator")
	providerFlags.BoolVar(&config.Provider.RegisterPath, "register-path", defaults.RegisterPath, "add the custom path to the planner when a relation uses the push-down operator")
	providerFlags.StringVar((*string)(&config.Provider.ResidualFilter), "residual-filter", string(defaults.ResidualFilter), fmt.Sprintf("restriction clauses the custom scan re-checks %v", customscan.ResidualFilters))
}

func registerOutputFlags(flags *pflag.FlagSet, config *ScanConfig) {
	flags.BoolVar(&config.Verbose, "verbose", false, "include output columns and provider internals in explain output")
}

func RegisterExplainFlags(cmd *cobra.Command, config *ScanConfig) {
	nfs := cobrautil.NewNamedFlagSets(cmd)
	registerProviderFlags(nfs.FlagSet(BoldBlue("catalog")), nfs.FlagSet(BoldBlue("provider")), config)
	registerOutputFlags(nfs.FlagSet(BoldBlue("output")), config)

	// Attach the created flagsets to the command - they're created but not
	// registered until this function is called.
	nfs.AddFlagSets(cmd)
}

func RegisterRunFlags(cmd *cobra.Command, config *ScanConfig) {
	nfs := cobrautil.NewNamedFlagSets(cmd)
	registerProviderFlags(nfs.FlagSet(BoldBlue("catalog")), nfs.FlagSet(BoldBlue("provider")), config)

	executionFlags := nfs.FlagSet(BoldBlue("execution"))
	executionFlags.IntVar(&config.Workers, "workers", 0, "number of parallel workers to launch when the plan is parallel capable")
	executionFlags.IntVar(&config.Rescans, "rescans", 0, "number of times to rescan the plan after the first pass")
	executionFlags.StringArrayVar(&config.Params, "param", nil, "value of the next $n query parameter")

	nfs.AddFlagSets(cmd)
}
