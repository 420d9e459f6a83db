package nodes

import "fmt"

// NodeTag identifies the concrete kind of a Node.
type NodeTag int

const (
	TagInvalid NodeTag = iota

	// expression nodes
	TagVar
	TagConst
	TagParam
	TagOpExpr
	TagBoolExpr
	TagTargetEntry

	// planner nodes
	TagPlannerInfo
	TagRelOptInfo
	TagRangeTblEntry
	TagRestrictInfo
	TagPathTarget
	TagParamPathInfo
	TagPath
	TagCustomPath

	// plan nodes
	TagSeqScan
	TagCustomScan

	// executor nodes
	TagSeqScanState
	TagCustomScanState
	TagTupleTableSlot

	// provider private data
	TagExtensibleNode
)

var tagNames = map[NodeTag]string{
	TagInvalid:         "Invalid",
	TagVar:             "Var",
	TagConst:           "Const",
	TagParam:           "Param",
	TagOpExpr:          "OpExpr",
	TagBoolExpr:        "BoolExpr",
	TagTargetEntry:     "TargetEntry",
	TagPlannerInfo:     "PlannerInfo",
	TagRelOptInfo:      "RelOptInfo",
	TagRangeTblEntry:   "RangeTblEntry",
	TagRestrictInfo:    "RestrictInfo",
	TagPathTarget:      "PathTarget",
	TagParamPathInfo:   "ParamPathInfo",
	TagPath:            "Path",
	TagCustomPath:      "CustomPath",
	TagSeqScan:         "SeqScan",
	TagCustomScan:      "CustomScan",
	TagSeqScanState:    "SeqScanState",
	TagCustomScanState: "CustomScanState",
	TagTupleTableSlot:  "TupleTableSlot",
	TagExtensibleNode:  "ExtensibleNode",
}

func (t NodeTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeTag(%d)", int(t))
}

// Node is implemented by every structure exchanged with the host.
type Node interface {
	Tag() NodeTag
}

// IsA reports whether n is non-nil and carries the given tag.
func IsA(n Node, tag NodeTag) bool {
	return n != nil && n.Tag() == tag
}

// Oid is a catalog object identifier.
type Oid uint32

// InvalidOid is returned by catalog lookups that find nothing.
const InvalidOid Oid = 0

// Well-known type OIDs of the bootstrap catalog.
const (
	BoolOID        Oid = 16
	Int8OID        Oid = 20
	Int4OID        Oid = 23
	TextOID        Oid = 25
	Float8OID      Oid = 701
	UnknownOID     Oid = 705
	AnyElementOID  Oid = 2283
	FirstNormalOid Oid = 16384
)

// Index is a 1-based range table index.
type Index uint32

// Relids is a set of range table indexes.
type Relids []Index

// Contains reports whether the set holds idx.
func (r Relids) Contains(idx Index) bool {
	for _, candidate := range r {
		if candidate == idx {
			return true
		}
	}
	return false
}

// Cost is a planner cost estimate in arbitrary units.
type Cost float64
