package planner

import (
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

const (
	seqPageCost     = 1.0
	cpuTupleCost    = 0.01
	cpuOperatorCost = 0.0025
)

// AddPath registers path as a candidate for rel. Paths must carry a path tag,
// point back at rel and, for custom paths, carry a method table.
func AddPath(rel *nodes.RelOptInfo, path nodes.PathNode) error {
	if rel == nil {
		return scanerrors.MustBugf("add_path called without a relation")
	}
	if path == nil {
		return scanerrors.MustBugf("add_path called with a nil path")
	}

	base := path.BasePath()
	switch base.Type {
	case nodes.TagPath:
	case nodes.TagCustomPath:
		custom, ok := path.(*nodes.CustomPath)
		if !ok {
			return scanerrors.MustBugf("path tagged %s is a %T", base.Type, path)
		}
		if custom.Methods == nil {
			return scanerrors.MustBugf("custom path has no methods")
		}
		if custom.Methods.PlanCustomPath == nil {
			return scanerrors.MustBugf("custom path methods %q have no PlanCustomPath", custom.Methods.CustomName)
		}
	default:
		return scanerrors.MustBugf("unexpected path tag %s", base.Type)
	}

	if base.Parent == nil {
		return scanerrors.MustBugf("path has no parent relation")
	}
	if base.Parent != rel {
		return scanerrors.MustBugf("path parent %v does not match relation %v", base.Parent.Relids, rel.Relids)
	}

	rel.Pathlist = append(rel.Pathlist, path)
	return nil
}

// CreateSeqScanPath returns the default sequential scan path for rel.
func CreateSeqScanPath(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, requiredOuter nodes.Relids) *nodes.Path {
	path := &nodes.Path{
		Type:         nodes.TagPath,
		PathType:     nodes.TagSeqScan,
		Parent:       rel,
		PathTarget:   rel.RelTarget,
		ParamInfo:    GetBaserelParamPathInfo(root, rel, requiredOuter),
		ParallelSafe: rel.ConsiderParallel,
		Rows:         rel.Rows,
	}

	cpuPerTuple := cpuTupleCost + cpuOperatorCost*float64(len(rel.BaseRestrictInfo))
	path.TotalCost = nodes.Cost(seqPageCost*rel.Pages + cpuPerTuple*rel.Tuples)
	return path
}

// SetCheapest records the cheapest paths of rel. Ties keep the path added
// first.
func SetCheapest(rel *nodes.RelOptInfo) error {
	if len(rel.Pathlist) == 0 {
		return scanerrors.MustBugf("could not devise a query plan for relation %v", rel.Relids)
	}

	cheapestStartup := rel.Pathlist[0]
	cheapestTotal := rel.Pathlist[0]
	for _, path := range rel.Pathlist[1:] {
		base := path.BasePath()
		if base.StartupCost < cheapestStartup.BasePath().StartupCost {
			cheapestStartup = path
		}
		if base.TotalCost < cheapestTotal.BasePath().TotalCost {
			cheapestTotal = path
		}
	}

	rel.CheapestStartupPath = cheapestStartup
	rel.CheapestTotalPath = cheapestTotal
	return nil
}
