package nodes

// CustomFlags advertises the optional capabilities of a custom path, plan or
// scan state. The host only invokes an optional callback when the matching
// bit is set.
type CustomFlags uint32

const (
	CustomPathSupportBackwardScan CustomFlags = 1 << iota
	CustomPathSupportMarkRestore
	CustomPathSupportProjection
	CustomPathParallelCapable
)

// Has reports whether all bits of want are set.
func (f CustomFlags) Has(want CustomFlags) bool {
	return f&want == want
}

// RangeTblEntry describes one relation referenced by a query.
type RangeTblEntry struct {
	RelID   Oid
	RelName string
	Alias   string
}

func (*RangeTblEntry) Tag() NodeTag { return TagRangeTblEntry }

// RefName returns the alias if one was given, otherwise the relation name.
func (rte *RangeTblEntry) RefName() string {
	if rte == nil {
		return ""
	}
	if rte.Alias != "" {
		return rte.Alias
	}
	return rte.RelName
}

// PlannerInfo is the per-query planning context.
type PlannerInfo struct {
	Parse *Query

	// SimpleRelArray and SimpleRteArray are indexed by range table index;
	// slot zero is unused.
	SimpleRelArray []*RelOptInfo
	SimpleRteArray []*RangeTblEntry
}

func (*PlannerInfo) Tag() NodeTag { return TagPlannerInfo }

// RestrictInfo wraps one restriction clause applying to a relation.
type RestrictInfo struct {
	Clause         Expr
	IsPushedDown   bool
	Pseudoconstant bool
	ClauseRelids   Relids
	NormSelec      float64
}

func (*RestrictInfo) Tag() NodeTag { return TagRestrictInfo }

// PathTarget is the list of expressions a path emits.
type PathTarget struct {
	Exprs []Expr
	Width int
}

func (*PathTarget) Tag() NodeTag { return TagPathTarget }

// ParamPathInfo describes the parameterization of a path.
type ParamPathInfo struct {
	ReqOuter Relids
	Rows     float64
	Clauses  []*RestrictInfo
}

func (*ParamPathInfo) Tag() NodeTag { return TagParamPathInfo }

// RelOptInfo is the planner's view of a base relation.
type RelOptInfo struct {
	RelID       Index
	RelationOID Oid
	Relids      Relids

	Rows   float64
	Pages  float64
	Tuples float64

	RelTarget        *PathTarget
	BaseRestrictInfo []*RestrictInfo
	LateralRelids    Relids

	ConsiderParallel bool

	Pathlist        []PathNode
	PartialPathlist []PathNode

	CheapestStartupPath PathNode
	CheapestTotalPath   PathNode
}

func (*RelOptInfo) Tag() NodeTag { return TagRelOptInfo }

// PathNode is implemented by every path kind.
type PathNode interface {
	Node
	BasePath() *Path
}

// Path is the base record shared by all access paths.
type Path struct {
	Type       NodeTag
	PathType   NodeTag
	Parent     *RelOptInfo
	PathTarget *PathTarget
	ParamInfo  *ParamPathInfo

	ParallelAware   bool
	ParallelSafe    bool
	ParallelWorkers int

	Rows        float64
	StartupCost Cost
	TotalCost   Cost
}

func (p *Path) Tag() NodeTag { return p.Type }

func (p *Path) BasePath() *Path { return p }

// CustomPath is an access path proposed by a custom scan provider.
type CustomPath struct {
	Path

	Flags         CustomFlags
	CustomPaths   []PathNode
	CustomPrivate []Node
	Methods       *CustomPathMethods
}

// CustomPathMethods is the method table a provider attaches to its paths.
type CustomPathMethods struct {
	CustomName string

	// PlanCustomPath converts the chosen path into a finished plan node,
	// generally a *CustomScan.
	PlanCustomPath func(root *PlannerInfo, rel *RelOptInfo, best *CustomPath, tlist []*TargetEntry, clauses []*RestrictInfo, customPlans []PlanNode) (PlanNode, error)

	// ReparameterizeCustomPathByChild is optional.
	ReparameterizeCustomPathByChild func(root *PlannerInfo, customPrivate []Node, childRel *RelOptInfo) []Node
}
