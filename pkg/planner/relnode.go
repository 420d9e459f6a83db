package planner

import (
	"slices"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

const (
	defaultEqSel   = 0.005
	defaultIneqSel = 0.3333333333333333
	defaultBoolSel = 0.5

	defaultTypeWidth = 32

	// Page geometry used to guess the size of a relation that has never
	// been analyzed.
	blockSize          = 8192
	pageHeaderSize     = 24
	tupleOverhead      = 28
	unanalyzedMinPages = 10
)

// GetBaserelParamPathInfo returns the parameterization of a path for rel that
// requires the relations in requiredOuter, or nil for an unparameterized
// path.
func GetBaserelParamPathInfo(_ *nodes.PlannerInfo, rel *nodes.RelOptInfo, requiredOuter nodes.Relids) *nodes.ParamPathInfo {
	if len(requiredOuter) == 0 {
		return nil
	}

	info := &nodes.ParamPathInfo{
		ReqOuter: slices.Clone(requiredOuter),
		Rows:     rel.Rows,
	}
	for _, rinfo := range rel.BaseRestrictInfo {
		for _, relid := range rinfo.ClauseRelids {
			if requiredOuter.Contains(relid) {
				info.Clauses = append(info.Clauses, rinfo)
				break
			}
		}
	}
	return info
}

// buildSimpleRel constructs the RelOptInfo of a base relation from its
// catalog statistics and the query's restriction clauses.
func buildSimpleRel(rti nodes.Index, relationOid nodes.Oid, tuples, pages float64, query *nodes.Query) *nodes.RelOptInfo {
	rel := &nodes.RelOptInfo{
		RelID:            rti,
		RelationOID:      relationOid,
		Relids:           nodes.Relids{rti},
		ConsiderParallel: true,
	}

	target := &nodes.PathTarget{}
	for _, tle := range query.TargetList {
		target.Exprs = append(target.Exprs, tle.Expr)
		target.Width += typeWidth(tle.Expr.ResultType())
	}
	rel.RelTarget = target
	rel.Pages, rel.Tuples = estimateRelSize(tuples, pages, target.Width)

	selectivity := 1.0
	for _, qual := range query.Quals {
		relids := pullVarnos(qual)
		rinfo := &nodes.RestrictInfo{
			Clause:         qual,
			IsPushedDown:   true,
			Pseudoconstant: len(relids) == 0,
			ClauseRelids:   relids,
			NormSelec:      clauseSelectivity(qual),
		}
		selectivity *= rinfo.NormSelec
		rel.BaseRestrictInfo = append(rel.BaseRestrictInfo, rinfo)
	}
	rel.Rows = clampRowEstimate(rel.Tuples * selectivity)

	return rel
}

// estimateRelSize returns the statistics to plan with. A relation with no
// pages has never been analyzed and is assumed to span at least ten pages,
// filled to the density its tuple width allows.
func estimateRelSize(tuples, pages float64, width int) (float64, float64) {
	if pages > 0 {
		return pages, tuples
	}
	pages = unanalyzedMinPages
	if tuples <= 0 {
		density := float64((blockSize - pageHeaderSize) / (width + tupleOverhead))
		tuples = float64(int64(density * pages))
	}
	return pages, tuples
}

func typeWidth(typ nodes.Oid) int {
	switch typ {
	case nodes.BoolOID:
		return 1
	case nodes.Int4OID:
		return 4
	case nodes.Int8OID, nodes.Float8OID:
		return 8
	default:
		return defaultTypeWidth
	}
}

func clampRowEstimate(rows float64) float64 {
	if rows <= 1 {
		return 1
	}
	return float64(int64(rows + 0.5))
}
