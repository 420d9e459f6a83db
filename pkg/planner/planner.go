package planner

import (
	"errors"
	"fmt"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// ErrUnsupportedQuery is returned for queries the planner cannot handle.
var ErrUnsupportedQuery = errors.New("unsupported query")

// RelationStats is the part of the catalog the planner reads relation
// statistics from.
type RelationStats interface {
	RelationByOid(oid nodes.Oid) (catalog.Relation, bool)
}

// Planner plans single-relation queries.
type Planner struct {
	hooks *Hooks
	stats RelationStats
}

// New returns a planner dispatching to hooks. A nil hooks value disables the
// extension points.
func New(stats RelationStats, hooks *Hooks) *Planner {
	if hooks == nil {
		hooks = &Hooks{}
	}
	return &Planner{hooks: hooks, stats: stats}
}

// Plan builds the cheapest plan for query.
func (p *Planner) Plan(query *nodes.Query) (*nodes.PlannedStmt, error) {
	if query == nil {
		return nil, fmt.Errorf("%w: no query", ErrUnsupportedQuery)
	}
	if len(query.RangeTable) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one relation, found %d", ErrUnsupportedQuery, len(query.RangeTable))
	}

	const rti nodes.Index = 1
	rte := query.RangeTable[0]
	relation, ok := p.stats.RelationByOid(rte.RelID)
	if !ok {
		return nil, fmt.Errorf("relation %q (oid %d): %w", rte.RelName, rte.RelID, catalog.ErrUndefinedObject)
	}

	rel := buildSimpleRel(rti, relation.OID, relation.Tuples, relation.Pages, query)
	root := &nodes.PlannerInfo{
		Parse:          query,
		SimpleRelArray: []*nodes.RelOptInfo{nil, rel},
		SimpleRteArray: []*nodes.RangeTblEntry{nil, rte},
	}

	if err := AddPath(rel, CreateSeqScanPath(root, rel, rel.LateralRelids)); err != nil {
		return nil, err
	}

	if hook := p.hooks.SetRelPathlist; hook != nil {
		if err := hook(root, rel, rti, rte); err != nil {
			return nil, err
		}
	}

	if err := SetCheapest(rel); err != nil {
		return nil, err
	}

	best := rel.CheapestTotalPath
	log.Debug().
		Str("relation", rte.RefName()).
		Int("paths", len(rel.Pathlist)).
		Str("path", best.BasePath().PathType.String()).
		Float64("total_cost", float64(best.BasePath().TotalCost)).
		Msg("chose cheapest path")

	plan, err := createPlan(root, rel, best)
	if err != nil {
		return nil, err
	}

	return &nodes.PlannedStmt{
		PlanTree:   plan,
		RangeTable: query.RangeTable,
	}, nil
}
