package nodes

import (
	"sync"
)

// ScanDirection is the direction rows are fetched in.
type ScanDirection int

const (
	BackwardScanDirection   ScanDirection = -1
	NoMovementScanDirection ScanDirection = 0
	ForwardScanDirection    ScanDirection = 1
)

func (d ScanDirection) String() string {
	switch d {
	case BackwardScanDirection:
		return "backward"
	case NoMovementScanDirection:
		return "nomovement"
	case ForwardScanDirection:
		return "forward"
	default:
		return "unknown"
	}
}

// ExecFlags are the executor start-up flags passed to BeginCustomScan.
type ExecFlags int

const (
	ExecFlagExplainOnly ExecFlags = 1 << iota
	ExecFlagRewind
	ExecFlagBackward
	ExecFlagMark
)

// Has reports whether all bits of want are set.
func (f ExecFlags) Has(want ExecFlags) bool {
	return f&want == want
}

// EState is the per-query executor state.
type EState struct {
	Direction  ScanDirection
	RangeTable []*RangeTblEntry
	Params     []any
}

// TupleTableSlot holds one row. An empty slot, like a nil one, marks the
// end of data.
type TupleTableSlot struct {
	Values []any
	IsNull []bool
	valid  bool
}

// NewTupleTableSlot returns an empty slot of the given width.
func NewTupleTableSlot(natts int) *TupleTableSlot {
	return &TupleTableSlot{
		Values: make([]any, 0, natts),
		IsNull: make([]bool, 0, natts),
	}
}

func (*TupleTableSlot) Tag() NodeTag { return TagTupleTableSlot }

// Store copies values into the slot and marks it full.
func (s *TupleTableSlot) Store(values []any) {
	s.Values = append(s.Values[:0], values...)
	s.IsNull = s.IsNull[:0]
	for _, v := range values {
		s.IsNull = append(s.IsNull, v == nil)
	}
	s.valid = true
}

// Clear empties the slot.
func (s *TupleTableSlot) Clear() {
	s.Values = s.Values[:0]
	s.IsNull = s.IsNull[:0]
	s.valid = false
}

// IsEmpty reports whether the slot carries no row.
func (s *TupleTableSlot) IsEmpty() bool {
	return s == nil || !s.valid
}

// PlanState is the base record of every executor node state.
type PlanState struct {
	Type       NodeTag
	Plan       PlanNode
	State      *EState
	ResultSlot *TupleTableSlot
	Qual       []Expr
}

func (ps *PlanState) Tag() NodeTag { return ps.Type }

// ScanState is the base record of scan node states.
type ScanState struct {
	PlanState
	ScanRelation *RangeTblEntry
}

// CustomScanState is the fixed base record of a provider scan state.
type CustomScanState struct {
	ScanState

	Flags    CustomFlags
	PscanLen uint64
	Methods  *CustomExecMethods
}

// Base returns the fixed record itself, so a bare CustomScanState is also a
// CustomScanNode.
func (css *CustomScanState) Base() *CustomScanState { return css }

// CustomScanNode is a provider scan state as seen by the host: any value
// exposing the fixed CustomScanState record through Base.
type CustomScanNode interface {
	Node
	Base() *CustomScanState
}

// CustomExecMethods is the method table a provider attaches to its scan
// states. Begin, Exec, End and ReScan are required; the rest are optional
// and only invoked when the matching capability flag is set.
type CustomExecMethods struct {
	CustomName string

	BeginCustomScan  func(node CustomScanNode, estate *EState, eflags ExecFlags) error
	ExecCustomScan   func(node CustomScanNode) (*TupleTableSlot, error)
	EndCustomScan    func(node CustomScanNode)
	ReScanCustomScan func(node CustomScanNode) error

	MarkPosCustomScan  func(node CustomScanNode)
	RestrPosCustomScan func(node CustomScanNode)

	EstimateDSMCustomScan      func(node CustomScanNode, pcxt *ParallelContext) uint64
	InitializeDSMCustomScan    func(node CustomScanNode, pcxt *ParallelContext, coordinate []byte)
	ReInitializeDSMCustomScan  func(node CustomScanNode, pcxt *ParallelContext, coordinate []byte)
	InitializeWorkerCustomScan func(node CustomScanNode, toc *ShmToc, coordinate []byte)
	ShutdownCustomScan         func(node CustomScanNode)

	ExplainCustomScan func(node CustomScanNode, ancestors []Node, es ExplainSink)
}

// ExplainSink receives the private properties a provider adds to EXPLAIN.
type ExplainSink interface {
	PropertyText(label, value string)
	PropertyInteger(label, unit string, value int64)
	PropertyBool(label string, value bool)
	Verbose() bool
}

// ParallelContext is the leader's handle on a parallel query.
type ParallelContext struct {
	NWorkers int
	Toc      *ShmToc
}

// ShmToc is the table of contents of the shared region of a parallel
// query, keyed by plan node id.
type ShmToc struct {
	mu      sync.RWMutex
	entries map[uint64][]byte
}

// NewShmToc returns an empty table of contents.
func NewShmToc() *ShmToc {
	return &ShmToc{entries: make(map[uint64][]byte)}
}

// Allocate reserves a zeroed region of size bytes under key.
func (toc *ShmToc) Allocate(key uint64, size uint64) []byte {
	region := make([]byte, size)
	toc.mu.Lock()
	defer toc.mu.Unlock()
	toc.entries[key] = region
	return region
}

// Lookup returns the region stored under key.
func (toc *ShmToc) Lookup(key uint64) ([]byte, bool) {
	toc.mu.RLock()
	defer toc.mu.RUnlock()
	region, ok := toc.entries[key]
	return region, ok
}
