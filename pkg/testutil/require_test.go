package testutil

import (
	"testing"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

func TestRequireEqualEmptyNil(t *testing.T) {
	t.Parallel()
	RequireEqualEmptyNil(t, []int(nil), []int(nil))
	RequireEqualEmptyNil(t, []int(nil), []int{})
	RequireEqualEmptyNil(t, []int{}, []int(nil))
	RequireEqualEmptyNil(t, []int{}, []int{})
}

func TestRequireNodesEqual(t *testing.T) {
	t.Parallel()

	methods := &nodes.CustomScanMethods{
		CustomName:            "Test Scan",
		CreateCustomScanState: func(*nodes.CustomScan) nodes.CustomScanNode { return nil },
	}
	expected := &nodes.CustomScan{
		Scan:    nodes.Scan{Plan: nodes.Plan{Type: nodes.TagCustomScan}, ScanRelID: 1},
		Methods: methods,
	}
	actual := &nodes.CustomScan{
		Scan:          nodes.Scan{Plan: nodes.Plan{Type: nodes.TagCustomScan, Qual: []nodes.Expr{}}, ScanRelID: 1},
		CustomPrivate: []nodes.Node{},
		Methods:       methods,
	}
	RequireNodesEqual(t, expected, actual)
}
