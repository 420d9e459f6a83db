package customscan

import (
	"errors"
	"fmt"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

var (
	// ErrUnsupportedDirection is returned by Begin when a backward scan is
	// requested from a plan without backward scan support.
	ErrUnsupportedDirection = errors.New("scan does not support backward direction")

	// ErrMarkRestoreNotSupported is returned by Begin when mark/restore is
	// requested from a plan without mark/restore support.
	ErrMarkRestoreNotSupported = errors.New("scan does not support mark/restore")
)

// createCustomScanState allocates a zeroed scan state for cscan with only
// the tag, flags and exec methods set.
func createCustomScanState(cscan *nodes.CustomScan) nodes.CustomScanNode {
	s := newScanState(cscan)
	s.Methods = &ExecMethods
	log.Trace().Str("scan", s.id).Msg("in CreateCustomScanState")
	return s
}

func beginCustomScan(node nodes.CustomScanNode, _ *nodes.EState, eflags nodes.ExecFlags) error {
	s, err := asScanState(node)
	if err != nil {
		return err
	}
	if s.phase != PhaseCreated {
		return fmt.Errorf("BeginCustomScan called on a scan in phase %s", s.phase)
	}

	if eflags.Has(nodes.ExecFlagBackward) && !s.Flags.Has(nodes.CustomPathSupportBackwardScan) {
		return ErrUnsupportedDirection
	}
	if eflags.Has(nodes.ExecFlagMark) && !s.Flags.Has(nodes.CustomPathSupportMarkRestore) {
		return ErrMarkRestoreNotSupported
	}

	if s.ResultSlot == nil {
		s.ResultSlot = nodes.NewTupleTableSlot(0)
	}
	s.resources.AddWithoutError(func() {
		s.results = nil
		s.pos, s.markPos = 0, 0
	})

	log.Trace().Str("scan", s.id).Bool("explain_only", eflags.Has(nodes.ExecFlagExplainOnly)).Msg("in BeginCustomScan")
	s.transition(PhaseBegan)
	return nil
}

// execCustomScan returns the next row in the estate's direction, or nil once
// the scan is exhausted. Exhaustion sticks until rescan or restore.
func execCustomScan(node nodes.CustomScanNode) (*nodes.TupleTableSlot, error) {
	s, err := asScanState(node)
	if err != nil {
		return nil, err
	}

	switch s.phase {
	case PhaseCreated, PhaseEnded:
		return nil, fmt.Errorf("ExecCustomScan called on a scan in phase %s", s.phase)
	case PhaseBegan, PhaseReScanning:
		s.transition(PhaseRunning)
	}

	if s.done {
		return nil, nil
	}

	direction := nodes.ForwardScanDirection
	if s.State != nil {
		direction = s.State.Direction
	}

	row, ok := s.fetch(direction)
	if !ok {
		if direction != nodes.NoMovementScanDirection {
			s.done = true
		}
		return nil, nil
	}

	s.countSharedResult()
	s.ResultSlot.Store(row)
	return s.ResultSlot, nil
}

// reScanCustomScan rewinds the scan so it behaves as if freshly begun. A scan
// that never began or has already ended cannot be rescanned.
func reScanCustomScan(node nodes.CustomScanNode) error {
	s, err := asScanState(node)
	if err != nil {
		return err
	}
	switch s.phase {
	case PhaseCreated, PhaseEnded:
		return fmt.Errorf("ReScanCustomScan called on a scan in phase %s", s.phase)
	}

	s.transition(PhaseReScanning)
	s.pos, s.markPos = 0, 0
	s.done, s.markDone = false, false
	if s.ResultSlot != nil {
		s.ResultSlot.Clear()
	}
	s.transition(PhaseRunning)
	return nil
}

func markPosCustomScan(node nodes.CustomScanNode) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	s.markPos, s.markDone = s.pos, s.done
}

func restrPosCustomScan(node nodes.CustomScanNode) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	s.pos, s.done = s.markPos, s.markDone
}

// shutdownCustomScan releases resources ahead of End, while any parallel
// region is still attached.
func shutdownCustomScan(node nodes.CustomScanNode) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	if s.phase == PhaseEnded {
		return
	}

	s.release("shutdown")
	s.shared = nil
	s.transition(PhaseShuttingDown)
}

// endCustomScan releases whatever is left. It is safe on a scan that never
// began and on one that already ended.
func endCustomScan(node nodes.CustomScanNode) {
	s, err := asScanState(node)
	if err != nil {
		return
	}
	if s.phase == PhaseEnded {
		return
	}

	s.release("end")
	s.results = nil
	s.shared = nil
	if s.ResultSlot != nil {
		s.ResultSlot.Clear()
	}
	log.Trace().Str("scan", s.id).Msg("in EndCustomScan")
	s.transition(PhaseEnded)
}
