package customscan

import (
	"github.com/google/uuid"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/closer"
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/scanerrors"
)

// Phase is the lifecycle phase of a scan state.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseBegan
	PhaseRunning
	PhaseReScanning
	PhaseShuttingDown
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseBegan:
		return "began"
	case PhaseRunning:
		return "running"
	case PhaseReScanning:
		return "rescanning"
	case PhaseShuttingDown:
		return "shutting_down"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// scanState is the provider's scan state. The host only sees the embedded
// CustomScanState through Base.
type scanState struct {
	nodes.CustomScanState

	id      string
	phase   Phase
	private *scanPrivate

	// results buffers the rows answered by the push-down; pos is the index
	// of the next row in forward direction.
	results  [][]any
	pos      int
	done     bool
	markPos  int
	markDone bool

	shared    []byte
	worker    bool
	resources closer.Stack
}

func newScanState(cscan *nodes.CustomScan) *scanState {
	s := &scanState{
		id:      uuid.NewString(),
		private: privateFrom(cscan.CustomPrivate),
	}
	s.Type = nodes.TagCustomScanState
	s.Flags = cscan.Flags
	scanPhaseTransitions.WithLabelValues(PhaseCreated.String()).Inc()
	return s
}

func (s *scanState) transition(to Phase) {
	if s.phase == to {
		return
	}
	log.Trace().Str("scan", s.id).Stringer("from", s.phase).Stringer("to", to).Msg("scan phase transition")
	scanPhaseTransitions.WithLabelValues(to.String()).Inc()
	s.phase = to
}

// fetch returns the next buffered row in direction.
func (s *scanState) fetch(direction nodes.ScanDirection) ([]any, bool) {
	switch direction {
	case nodes.BackwardScanDirection:
		if s.pos <= 0 {
			return nil, false
		}
		s.pos--
		return s.results[s.pos], true
	case nodes.ForwardScanDirection:
		if s.pos >= len(s.results) {
			return nil, false
		}
		row := s.results[s.pos]
		s.pos++
		return row, true
	default:
		return nil, false
	}
}

// release runs the pending release steps. Failures are logged and counted,
// never returned.
func (s *scanState) release(op string) {
	if !scanerrors.BestEffort(op, s.resources.Close) {
		cleanupFailures.Inc()
	}
}

// asScanState recovers the provider state from a host handle.
func asScanState(node nodes.CustomScanNode) (*scanState, error) {
	s, ok := node.(*scanState)
	if !ok || s == nil {
		return nil, scanerrors.MustBugf("expected a ZomboDB scan state, got %T", node)
	}
	return s, nil
}
