package nodes

// Query is an analyzed single-relation SELECT.
type Query struct {
	SourceText string
	RangeTable []*RangeTblEntry
	TargetList []*TargetEntry

	// Quals holds the top-level conjuncts of the WHERE clause.
	Quals []Expr
}

// PlannedStmt is the output of the planner.
type PlannedStmt struct {
	PlanTree   PlanNode
	RangeTable []*RangeTblEntry
}

// PlanNode is implemented by every plan node kind.
type PlanNode interface {
	Node
	BasePlan() *Plan
}

// Plan is the base record shared by all plan nodes.
type Plan struct {
	Type       NodeTag
	PlanNodeID int

	StartupCost Cost
	TotalCost   Cost
	PlanRows    float64
	PlanWidth   int

	ParallelAware bool
	ParallelSafe  bool

	TargetList []*TargetEntry
	Qual       []Expr
}

func (p *Plan) Tag() NodeTag { return p.Type }

func (p *Plan) BasePlan() *Plan { return p }

// Scan is a plan node reading a single base relation.
type Scan struct {
	Plan
	ScanRelID Index
}

// SeqScan is the host's default sequential scan.
type SeqScan struct {
	Scan
}

// CustomScan is the executable form of a CustomPath.
type CustomScan struct {
	Scan

	Flags           CustomFlags
	CustomPlans     []PlanNode
	CustomExprs     []Expr
	CustomPrivate   []Node
	CustomScanTList []*TargetEntry
	CustomRelids    Relids
	Methods         *CustomScanMethods
}

// CustomScanMethods is the method table a provider attaches to its plans.
type CustomScanMethods struct {
	CustomName string

	// CreateCustomScanState allocates the scan state for a CustomScan. The
	// returned node must have its tag and exec methods set; everything else
	// is left zeroed until BeginCustomScan.
	CreateCustomScanState func(cscan *CustomScan) CustomScanNode
}
