package executor

import (
	"errors"
	"fmt"

	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

// ErrNotSupported is returned when the host is asked for a capability the
// scan did not advertise.
var ErrNotSupported = errors.New("custom scan does not support operation")

// ExecInitCustomScan creates the scan state of cscan, fills in its base
// record and begins it.
func ExecInitCustomScan(cscan *nodes.CustomScan, estate *nodes.EState, eflags nodes.ExecFlags) (nodes.CustomScanNode, error) {
	if cscan == nil || cscan.Type != nodes.TagCustomScan {
		return nil, scanerrors.MustBugf("ExecInitCustomScan called on a non custom scan plan")
	}
	if cscan.Methods == nil || cscan.Methods.CreateCustomScanState == nil {
		return nil, scanerrors.MustBugf("custom scan has no CreateCustomScanState callback")
	}

	node := cscan.Methods.CreateCustomScanState(cscan)
	if node == nil {
		return nil, scanerrors.MustBugf("%s returned a nil scan state", cscan.Methods.CustomName)
	}
	css := node.Base()
	if css.Type != nodes.TagCustomScanState {
		return nil, scanerrors.MustBugf("%s returned a scan state tagged %s", cscan.Methods.CustomName, css.Type)
	}
	if err := validateExecMethods(css.Methods); err != nil {
		return nil, err
	}

	css.Plan = cscan
	css.State = estate
	css.ResultSlot = nodes.NewTupleTableSlot(len(cscan.TargetList))
	css.Qual = cscan.Qual
	if estate != nil && cscan.ScanRelID > 0 && int(cscan.ScanRelID) <= len(estate.RangeTable) {
		css.ScanRelation = estate.RangeTable[cscan.ScanRelID-1]
	}

	if err := css.Methods.BeginCustomScan(node, estate, eflags); err != nil {
		return nil, fmt.Errorf("%s: begin: %w", css.Methods.CustomName, err)
	}
	return node, nil
}

func validateExecMethods(methods *nodes.CustomExecMethods) error {
	switch {
	case methods == nil:
		return scanerrors.MustBugf("scan state has no exec methods")
	case methods.BeginCustomScan == nil:
		return scanerrors.MustBugf("%s has no BeginCustomScan callback", methods.CustomName)
	case methods.ExecCustomScan == nil:
		return scanerrors.MustBugf("%s has no ExecCustomScan callback", methods.CustomName)
	case methods.EndCustomScan == nil:
		return scanerrors.MustBugf("%s has no EndCustomScan callback", methods.CustomName)
	case methods.ReScanCustomScan == nil:
		return scanerrors.MustBugf("%s has no ReScanCustomScan callback", methods.CustomName)
	}
	return nil
}

// ExecCustomScan returns the next row produced by node that passes the
// scan's qual, or nil at end of data.
func ExecCustomScan(node nodes.CustomScanNode) (*nodes.TupleTableSlot, error) {
	css := node.Base()
	var params []any
	if css.State != nil {
		params = css.State.Params
	}

	for {
		slot, err := css.Methods.ExecCustomScan(node)
		if err != nil {
			return nil, fmt.Errorf("%s: exec: %w", css.Methods.CustomName, err)
		}
		if slot.IsEmpty() {
			return nil, nil
		}

		ok, err := ExecQual(css.Qual, slot, params)
		if err != nil {
			return nil, err
		}
		if ok {
			return slot, nil
		}
	}
}

// ExecReScanCustomScan restarts node from the beginning.
func ExecReScanCustomScan(node nodes.CustomScanNode) error {
	css := node.Base()
	if css.ResultSlot != nil {
		css.ResultSlot.Clear()
	}
	if err := css.Methods.ReScanCustomScan(node); err != nil {
		return fmt.Errorf("%s: rescan: %w", css.Methods.CustomName, err)
	}
	return nil
}

// ExecCustomMarkPos saves the scan position of node.
func ExecCustomMarkPos(node nodes.CustomScanNode) error {
	css := node.Base()
	if !css.Flags.Has(nodes.CustomPathSupportMarkRestore) || css.Methods.MarkPosCustomScan == nil {
		return fmt.Errorf("%s: MarkPos: %w", css.Methods.CustomName, ErrNotSupported)
	}
	css.Methods.MarkPosCustomScan(node)
	return nil
}

// ExecCustomRestrPos rewinds node to the last marked position.
func ExecCustomRestrPos(node nodes.CustomScanNode) error {
	css := node.Base()
	if !css.Flags.Has(nodes.CustomPathSupportMarkRestore) || css.Methods.RestrPosCustomScan == nil {
		return fmt.Errorf("%s: RestrPos: %w", css.Methods.CustomName, ErrNotSupported)
	}
	css.Methods.RestrPosCustomScan(node)
	return nil
}

// ExecShutdownCustomScan lets node release resources before the end of the
// query. It is optional and may be skipped.
func ExecShutdownCustomScan(node nodes.CustomScanNode) {
	css := node.Base()
	if css.Methods.ShutdownCustomScan != nil {
		css.Methods.ShutdownCustomScan(node)
	}
}

// ExecEndCustomScan ends node. It may be called without the scan having been
// drained, or begun.
func ExecEndCustomScan(node nodes.CustomScanNode) {
	css := node.Base()
	css.Methods.EndCustomScan(node)
	if css.ResultSlot != nil {
		css.ResultSlot.Clear()
	}
}
