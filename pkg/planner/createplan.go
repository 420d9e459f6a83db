package planner

import (
	"fmt"

	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

// createPlan turns the chosen path for rel into a plan node.
func createPlan(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, best nodes.PathNode) (nodes.PlanNode, error) {
	tlist := buildPathTList(root.Parse)

	switch path := best.(type) {
	case *nodes.CustomPath:
		return createCustomScanPlan(root, rel, path, tlist)
	case *nodes.Path:
		if path.PathType != nodes.TagSeqScan {
			return nil, fmt.Errorf("unsupported path type %s", path.PathType)
		}
		scan := &nodes.SeqScan{Scan: nodes.Scan{
			Plan: nodes.Plan{
				Type:       nodes.TagSeqScan,
				TargetList: tlist,
				Qual:       ExtractActualClauses(rel.BaseRestrictInfo, false),
			},
			ScanRelID: rel.RelID,
		}}
		copyGenericPathInfo(&scan.Plan, path)
		return scan, nil
	default:
		return nil, scanerrors.MustBugf("unrecognized path node %T", best)
	}
}

func createCustomScanPlan(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, best *nodes.CustomPath, tlist []*nodes.TargetEntry) (nodes.PlanNode, error) {
	if best.Methods == nil || best.Methods.PlanCustomPath == nil {
		return nil, scanerrors.MustBugf("custom path has no PlanCustomPath callback")
	}

	var customPlans []nodes.PlanNode
	for _, child := range best.CustomPaths {
		childPlan, err := createPlan(root, child.BasePath().Parent, child)
		if err != nil {
			return nil, err
		}
		customPlans = append(customPlans, childPlan)
	}

	plan, err := best.Methods.PlanCustomPath(root, rel, best, tlist, rel.BaseRestrictInfo, customPlans)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", best.Methods.CustomName, err)
	}

	cscan, ok := plan.(*nodes.CustomScan)
	if !ok || cscan == nil {
		return nil, scanerrors.MustBugf("%s returned %T, expected a custom scan", best.Methods.CustomName, plan)
	}
	if cscan.Type != nodes.TagCustomScan {
		return nil, scanerrors.MustBugf("%s returned a plan tagged %s", best.Methods.CustomName, cscan.Type)
	}
	if cscan.Methods == nil || cscan.Methods.CreateCustomScanState == nil {
		return nil, scanerrors.MustBugf("%s returned a plan without scan methods", best.Methods.CustomName)
	}

	copyGenericPathInfo(&cscan.Plan, &best.Path)
	return cscan, nil
}

// buildPathTList returns a copy of the query's target list.
func buildPathTList(query *nodes.Query) []*nodes.TargetEntry {
	if query == nil {
		return nil
	}
	tlist := make([]*nodes.TargetEntry, 0, len(query.TargetList))
	for _, tle := range query.TargetList {
		copied := *tle
		tlist = append(tlist, &copied)
	}
	return tlist
}

func copyGenericPathInfo(plan *nodes.Plan, path *nodes.Path) {
	plan.StartupCost = path.StartupCost
	plan.TotalCost = path.TotalCost
	plan.PlanRows = path.Rows
	if path.PathTarget != nil {
		plan.PlanWidth = path.PathTarget.Width
	}
	plan.ParallelAware = path.ParallelAware
	plan.ParallelSafe = path.ParallelSafe
}
