package planner

import "github.com/zombodb/zdbscan/pkg/nodes"

// SetRelPathlistHook is called once per base relation after the default
// paths have been added. Providers propose paths by calling AddPath on rel.
type SetRelPathlistHook func(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, rti nodes.Index, rte *nodes.RangeTblEntry) error

// Hooks holds the planner's extension points. Providers install themselves
// by capturing the current value and replacing it with their own.
type Hooks struct {
	SetRelPathlist SetRelPathlistHook
}
