package executor

import (
	"github.com/ccoveille/go-safecast/v2"

	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

func tocKey(node nodes.CustomScanNode) (uint64, error) {
	plan := node.Base().Plan
	if plan == nil {
		return 0, scanerrors.MustBugf("scan state has no plan")
	}
	key, err := safecast.Convert[uint64](plan.BasePlan().PlanNodeID)
	if err != nil {
		return 0, scanerrors.MustBugf("invalid plan node id: %v", err)
	}
	return key, nil
}

// ExecCustomScanEstimate records how much shared memory node needs.
func ExecCustomScanEstimate(node nodes.CustomScanNode, pcxt *nodes.ParallelContext) uint64 {
	css := node.Base()
	css.PscanLen = 0
	if css.Methods.EstimateDSMCustomScan != nil {
		css.PscanLen = css.Methods.EstimateDSMCustomScan(node, pcxt)
	}
	return css.PscanLen
}

// ExecCustomScanInitializeDSM allocates the estimated region of node in the
// parallel context and lets the provider set it up.
func ExecCustomScanInitializeDSM(node nodes.CustomScanNode, pcxt *nodes.ParallelContext) error {
	css := node.Base()
	if css.Methods.InitializeDSMCustomScan == nil {
		return nil
	}
	key, err := tocKey(node)
	if err != nil {
		return err
	}
	coordinate := pcxt.Toc.Allocate(key, css.PscanLen)
	css.Methods.InitializeDSMCustomScan(node, pcxt, coordinate)
	return nil
}

// ExecCustomScanReInitializeDSM resets the shared region of node before a
// parallel rescan.
func ExecCustomScanReInitializeDSM(node nodes.CustomScanNode, pcxt *nodes.ParallelContext) error {
	css := node.Base()
	if css.Methods.ReInitializeDSMCustomScan == nil {
		return nil
	}
	key, err := tocKey(node)
	if err != nil {
		return err
	}
	coordinate, _ := pcxt.Toc.Lookup(key)
	css.Methods.ReInitializeDSMCustomScan(node, pcxt, coordinate)
	return nil
}

// ExecCustomScanInitializeWorker attaches a worker's node to the region the
// leader set up. A missing region is passed to the provider as nil.
func ExecCustomScanInitializeWorker(node nodes.CustomScanNode, toc *nodes.ShmToc) error {
	css := node.Base()
	if css.Methods.InitializeWorkerCustomScan == nil {
		return nil
	}
	key, err := tocKey(node)
	if err != nil {
		return err
	}
	coordinate, _ := toc.Lookup(key)
	css.Methods.InitializeWorkerCustomScan(node, toc, coordinate)
	return nil
}
