package customscan

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/zombodb/zdbscan/pkg/executor"
	"github.com/zombodb/zdbscan/pkg/explain"
	"github.com/zombodb/zdbscan/pkg/nodes"
	ztestutil "github.com/zombodb/zdbscan/pkg/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, ztestutil.GoLeakIgnores()...)
}

func testScan(flags nodes.CustomFlags) *nodes.CustomScan {
	private := newScanPrivate("pg_catalog.==>", 9000, 8999, nil, ResidualFilterNone)
	return &nodes.CustomScan{
		Scan: nodes.Scan{
			Plan:      nodes.Plan{Type: nodes.TagCustomScan, PlanNodeID: 3},
			ScanRelID: 1,
		},
		Flags:         flags,
		CustomPrivate: []nodes.Node{private},
		Methods:       &ScanMethods,
	}
}

func beginScan(t *testing.T, cscan *nodes.CustomScan, eflags nodes.ExecFlags) *scanState {
	t.Helper()

	node, err := executor.ExecInitCustomScan(cscan, &nodes.EState{Direction: nodes.ForwardScanDirection}, eflags)
	require.NoError(t, err)
	s, err := asScanState(node)
	require.NoError(t, err)
	return s
}

func TestCreateCustomScanState(t *testing.T) {
	t.Parallel()

	cscan := testScan(nodes.CustomPathSupportMarkRestore)
	s, err := asScanState(createCustomScanState(cscan))
	require.NoError(t, err)

	require.Equal(t, nodes.TagCustomScanState, s.Tag())
	require.Same(t, &ExecMethods, s.Methods)
	require.Equal(t, cscan.Flags, s.Flags)
	require.Same(t, privateFrom(cscan.CustomPrivate), s.private)
	require.NotEmpty(t, s.id)
	require.Equal(t, PhaseCreated, s.phase)
	require.Nil(t, s.ResultSlot)
	require.Nil(t, s.Plan)
}

func TestEndWithoutBegin(t *testing.T) {
	t.Parallel()

	node := createCustomScanState(testScan(0))
	require.NotPanics(t, func() {
		endCustomScan(node)
		endCustomScan(node)
	})

	s, err := asScanState(node)
	require.NoError(t, err)
	require.Equal(t, PhaseEnded, s.phase)
	require.Zero(t, s.resources.Len())
}

func TestAsScanStateRejectsForeignNodes(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_, _ = asScanState(&nodes.CustomScanState{})
	})
}

func TestBeginValidatesExecFlags(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		flags  nodes.CustomFlags
		eflags nodes.ExecFlags
		err    error
	}{
		{"plain", 0, 0, nil},
		{"explain only", 0, nodes.ExecFlagExplainOnly, nil},
		{"rewind", 0, nodes.ExecFlagRewind, nil},
		{"backward unsupported", 0, nodes.ExecFlagBackward, ErrUnsupportedDirection},
		{"backward supported", nodes.CustomPathSupportBackwardScan, nodes.ExecFlagBackward, nil},
		{"mark unsupported", 0, nodes.ExecFlagMark, ErrMarkRestoreNotSupported},
		{"mark supported", nodes.CustomPathSupportMarkRestore, nodes.ExecFlagMark, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node, err := executor.ExecInitCustomScan(testScan(tc.flags), &nodes.EState{}, tc.eflags)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			defer executor.ExecEndCustomScan(node)

			s, err := asScanState(node)
			require.NoError(t, err)
			require.Equal(t, PhaseBegan, s.phase)
			require.NotNil(t, s.ResultSlot)
		})
	}
}

func TestEndOfDataIsStable(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	defer executor.ExecEndCustomScan(s)

	for i := 0; i < 5; i++ {
		slot, err := executor.ExecCustomScan(s)
		require.NoError(t, err)
		require.Nil(t, slot)
		require.True(t, s.done)
	}
	require.Equal(t, PhaseRunning, s.phase)
}

func TestBufferedRows(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(nodes.CustomPathSupportMarkRestore|nodes.CustomPathSupportBackwardScan), 0)
	defer executor.ExecEndCustomScan(s)
	s.results = [][]any{{int64(1)}, {int64(2)}, {int64(3)}}

	next := func() any {
		t.Helper()
		slot, err := executor.ExecCustomScan(s)
		require.NoError(t, err)
		if slot == nil {
			return nil
		}
		return slot.Values[0]
	}

	require.Equal(t, int64(1), next())
	require.NoError(t, executor.ExecCustomMarkPos(s))
	require.Equal(t, int64(2), next())
	require.Equal(t, int64(3), next())
	require.Nil(t, next())
	require.Nil(t, next())

	require.NoError(t, executor.ExecCustomRestrPos(s))
	require.Equal(t, int64(2), next())

	s.State.Direction = nodes.BackwardScanDirection
	require.Equal(t, int64(2), next())
	require.Equal(t, int64(1), next())
	require.Nil(t, next())
	require.Nil(t, next())

	s.State.Direction = nodes.ForwardScanDirection
	require.NoError(t, executor.ExecReScanCustomScan(s))
	require.Equal(t, int64(1), next())
}

func TestNoMovementDoesNotExhaust(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	defer executor.ExecEndCustomScan(s)
	s.results = [][]any{{"a"}}

	s.State.Direction = nodes.NoMovementScanDirection
	slot, err := executor.ExecCustomScan(s)
	require.NoError(t, err)
	require.Nil(t, slot)
	require.False(t, s.done)

	s.State.Direction = nodes.ForwardScanDirection
	slot, err = executor.ExecCustomScan(s)
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, slot.Values)
}

func TestExecAfterEnd(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	executor.ExecEndCustomScan(s)

	_, err := executor.ExecCustomScan(s)
	require.ErrorContains(t, err, "phase ended")
}

func TestReScanRequiresActiveScan(t *testing.T) {
	t.Parallel()

	ended := beginScan(t, testScan(0), 0)
	executor.ExecEndCustomScan(ended)
	require.ErrorContains(t, executor.ExecReScanCustomScan(ended), "phase ended")
	require.Equal(t, PhaseEnded, ended.phase)

	_, err := executor.ExecCustomScan(ended)
	require.ErrorContains(t, err, "phase ended")

	created, err := asScanState(createCustomScanState(testScan(0)))
	require.NoError(t, err)
	require.ErrorContains(t, reScanCustomScan(created), "phase created")
	require.Equal(t, PhaseCreated, created.phase)

	_, err = execCustomScan(created)
	require.ErrorContains(t, err, "phase created")
}

func TestBeginOnlyOnce(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	defer executor.ExecEndCustomScan(s)

	pending := s.resources.Len()
	require.ErrorContains(t, beginCustomScan(s, &nodes.EState{}, 0), "phase began")
	require.Equal(t, pending, s.resources.Len())
	require.Equal(t, PhaseBegan, s.phase)
}

func TestReScanKeepsIdentity(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		flags := nodes.CustomFlags(rapid.Uint32Range(0, 15).Draw(t, "flags"))
		rescans := rapid.IntRange(0, 20).Draw(t, "rescans")

		node, err := executor.ExecInitCustomScan(testScan(flags), &nodes.EState{}, 0)
		require.NoError(t, err)
		defer executor.ExecEndCustomScan(node)

		tag, methods := node.Tag(), node.Base().Methods
		for i := 0; i < rescans; i++ {
			require.NoError(t, executor.ExecReScanCustomScan(node))
			require.Equal(t, tag, node.Tag())
			require.Same(t, methods, node.Base().Methods)

			slot, err := executor.ExecCustomScan(node)
			require.NoError(t, err)
			require.Nil(t, slot)
		}
	})
}

func TestShutdownBeforeEnd(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	require.Equal(t, 1, s.resources.Len())

	executor.ExecShutdownCustomScan(s)
	require.Equal(t, PhaseShuttingDown, s.phase)
	require.Zero(t, s.resources.Len())

	executor.ExecEndCustomScan(s)
	require.Equal(t, PhaseEnded, s.phase)

	executor.ExecShutdownCustomScan(s)
	require.Equal(t, PhaseEnded, s.phase)
}

func TestZeroSizeSharedRegion(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	defer executor.ExecEndCustomScan(s)

	pcxt := &nodes.ParallelContext{NWorkers: 2, Toc: nodes.NewShmToc()}
	require.Zero(t, executor.ExecCustomScanEstimate(s, pcxt))
	require.NotPanics(t, func() {
		require.NoError(t, executor.ExecCustomScanInitializeDSM(s, pcxt))
		initializeDSMCustomScan(s, pcxt, nil)
		reInitializeDSMCustomScan(s, pcxt, nil)
	})
	require.Nil(t, s.shared)

	region, ok := pcxt.Toc.Lookup(3)
	require.True(t, ok)
	require.Empty(t, region)
}

func TestSharedRegion(t *testing.T) {
	t.Parallel()

	leader := beginScan(t, testScan(nodes.CustomPathParallelCapable), 0)
	defer executor.ExecEndCustomScan(leader)

	pcxt := &nodes.ParallelContext{NWorkers: 1, Toc: nodes.NewShmToc()}
	require.Equal(t, uint64(sharedHeaderSize), executor.ExecCustomScanEstimate(leader, pcxt))
	require.NoError(t, executor.ExecCustomScanInitializeDSM(leader, pcxt))

	region, ok := pcxt.Toc.Lookup(3)
	require.True(t, ok)
	require.Len(t, region, sharedHeaderSize)
	require.Equal(t, sharedMagic, string(region[:4]))

	h, ok := readSharedHeader(region)
	require.True(t, ok)
	require.Equal(t, sharedHeader{version: sharedVersion, planNodeID: 3}, h)

	leader.results = [][]any{{int64(1)}, {int64(2)}}
	for range leader.results {
		slot, err := executor.ExecCustomScan(leader)
		require.NoError(t, err)
		require.NotNil(t, slot)
	}
	h, ok = readSharedHeader(region)
	require.True(t, ok)
	require.Equal(t, uint64(2), h.resultCount)

	require.NoError(t, executor.ExecCustomScanReInitializeDSM(leader, pcxt))
	h, ok = readSharedHeader(region)
	require.True(t, ok)
	require.Zero(t, h.resultCount)
	require.Equal(t, uint64(3), h.planNodeID)

	worker := beginScan(t, testScan(nodes.CustomPathParallelCapable), 0)
	defer executor.ExecEndCustomScan(worker)
	require.NoError(t, executor.ExecCustomScanInitializeWorker(worker, pcxt.Toc))
	require.NoError(t, executor.ExecCustomScanInitializeWorker(worker, pcxt.Toc))
	require.True(t, worker.worker)
	require.Equal(t, region, worker.shared)

	worker.results = [][]any{{int64(1)}}
	slot, err := executor.ExecCustomScan(worker)
	require.NoError(t, err)
	require.NotNil(t, slot)
	h, ok = readSharedHeader(region)
	require.True(t, ok)
	require.Zero(t, h.resultCount)

	initializeWorkerCustomScan(worker, pcxt.Toc, nil)
	require.Nil(t, worker.shared)
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, tc := range []struct {
		name    string
		flags   nodes.CustomFlags
		opts    executor.Options
		workers int
	}{
		{"serial", 0, executor.Options{}, 0},
		{"rescans", 0, executor.Options{Rescans: 2}, 0},
		{"workers without parallel support", 0, executor.Options{Workers: 2}, 0},
		{"parallel", nodes.CustomPathParallelCapable, executor.Options{Workers: 3, Rescans: 1}, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := f.plan(t, "SELECT * FROM docs WHERE title ==> 'cats'", nil)
			require.NoError(t, result.err)

			cscan := result.stmt.PlanTree.(*nodes.CustomScan)
			cscan.Flags = tc.flags

			out, err := executor.Run(context.Background(), result.stmt, tc.opts)
			require.NoError(t, err)
			require.Empty(t, out.Rows)
			require.Equal(t, tc.workers, out.Workers)
		})
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result := f.plan(t, "SELECT title FROM docs WHERE title ==> 'cats' AND id = 5", nil, WithResidualFilter(ResidualFilterUnconsumed))
	require.NoError(t, result.err)

	out, err := explain.Plan(result.stmt, explain.Options{TypeNames: f.cat})
	require.NoError(t, err)
	require.Contains(t, out, "Custom Scan (ZomboDB Custom Scan) on docs")
	require.Contains(t, out, "  Filter: (id = 5)\n")
	require.Contains(t, out, "  Query: cats\n")
	require.Contains(t, out, "  Operator: pg_catalog.==>\n")
	require.Contains(t, out, "  Residual Filter: unconsumed\n")
	require.NotContains(t, out, "Scan Id")

	verbose, err := explain.Plan(result.stmt, explain.Options{Verbose: true, TypeNames: f.cat})
	require.NoError(t, err)
	require.Contains(t, verbose, "  Output: title\n")
	require.Contains(t, verbose, "  Scan Id: ")
	require.Contains(t, verbose, "  Pushed Down Clauses: 1\n")
	require.Contains(t, verbose, "  Parallel Capable: false\n")
}

func TestExplainDoesNotMutate(t *testing.T) {
	t.Parallel()

	s := beginScan(t, testScan(0), 0)
	defer executor.ExecEndCustomScan(s)
	s.results = [][]any{{"a"}}

	phase, pos, done := s.phase, s.pos, s.done
	explainCustomScan(s, nil, explain.NewState(true))
	require.Equal(t, phase, s.phase)
	require.Equal(t, pos, s.pos)
	require.Equal(t, done, s.done)
	require.Equal(t, [][]any{{"a"}}, s.results)
}

func TestPhaseMetrics(t *testing.T) {
	created := testutil.ToFloat64(scanPhaseTransitions.WithLabelValues(PhaseCreated.String()))
	ended := testutil.ToFloat64(scanPhaseTransitions.WithLabelValues(PhaseEnded.String()))

	s := beginScan(t, testScan(0), 0)
	executor.ExecEndCustomScan(s)
	executor.ExecEndCustomScan(s)

	require.InDelta(t, created+1, testutil.ToFloat64(scanPhaseTransitions.WithLabelValues(PhaseCreated.String())), 0)
	require.InDelta(t, ended+1, testutil.ToFloat64(scanPhaseTransitions.WithLabelValues(PhaseEnded.String())), 0)
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "shutting_down", PhaseShuttingDown.String())
	require.Equal(t, "unknown", Phase(42).String())
}
