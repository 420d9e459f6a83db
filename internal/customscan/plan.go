package customscan

import (
	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/planner"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

// planCustomPath converts the chosen path into a CustomScan. Flags and the
// private data are inherited from the path and the target list is used as
// given.
func planCustomPath(_ *nodes.PlannerInfo, rel *nodes.RelOptInfo, best *nodes.CustomPath, tlist []*nodes.TargetEntry, clauses []*nodes.RestrictInfo, customPlans []nodes.PlanNode) (nodes.PlanNode, error) {
	if rel == nil || best == nil {
		return nil, scanerrors.MustBugf("PlanCustomPath called without a relation or path")
	}

	cscan := &nodes.CustomScan{
		Scan: nodes.Scan{
			Plan: nodes.Plan{
				Type:       nodes.TagCustomScan,
				TargetList: tlist,
			},
			ScanRelID: rel.RelID,
		},
		Flags:         best.Flags,
		CustomPlans:   customPlans,
		CustomPrivate: best.CustomPrivate,
		Methods:       &ScanMethods,
	}

	private := privateFrom(best.CustomPrivate)
	cscan.Qual = residualQual(private, clauses)

	log.Debug().Str("plan", nodes.NodeToString(cscan)).Msg("finished PlanCustomPath")
	return cscan, nil
}

// residualQual returns the clauses the scan re-checks itself.
func residualQual(private *scanPrivate, clauses []*nodes.RestrictInfo) []nodes.Expr {
	mode := ResidualFilterNone
	if private != nil {
		mode = private.ResidualFilter
	}

	switch mode {
	case ResidualFilterAll:
		return planner.ExtractActualClauses(clauses, false)
	case ResidualFilterUnconsumed:
		var qual []nodes.Expr
		for _, clause := range planner.ExtractActualClauses(clauses, false) {
			if !private.consumed(clause) {
				qual = append(qual, clause)
			}
		}
		return qual
	default:
		return nil
	}
}
