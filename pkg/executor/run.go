package executor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// ErrUnsupportedPlan is returned by Run for plans without a custom scan at
// the root. The reference executor has no heap storage to scan.
var ErrUnsupportedPlan = errors.New("plan cannot be executed")

// Options tunes a Run.
type Options struct {
	// Workers is the number of parallel workers to launch next to the
	// leader. Workers only run for scans flagged parallel capable.
	Workers int

	// ExecFlags are passed to BeginCustomScan of every participant.
	ExecFlags nodes.ExecFlags

	// Params are the values of the query's $n parameters.
	Params []any

	// Rescans is the number of times the leader restarts the scan after
	// draining it.
	Rescans int
}

// Result collects the rows returned by a Run.
type Result struct {
	Rows    [][]any
	Workers int
}

// Run executes stmt to completion and returns its rows. Cancelling ctx stops
// every participant and ends its scan without draining it.
func Run(ctx context.Context, stmt *nodes.PlannedStmt, opts Options) (*Result, error) {
	cscan, ok := stmt.PlanTree.(*nodes.CustomScan)
	if !ok {
		return nil, fmt.Errorf("%w: root is a %s", ErrUnsupportedPlan, stmt.PlanTree.Tag())
	}

	newEState := func() *nodes.EState {
		return &nodes.EState{
			Direction:  nodes.ForwardScanDirection,
			RangeTable: stmt.RangeTable,
			Params:     opts.Params,
		}
	}

	leader, err := ExecInitCustomScan(cscan, newEState(), opts.ExecFlags)
	if err != nil {
		return nil, err
	}
	defer func() {
		ExecShutdownCustomScan(leader)
		ExecEndCustomScan(leader)
	}()

	result := &Result{}
	var mu sync.Mutex
	collect := func(slot *nodes.TupleTableSlot) {
		mu.Lock()
		defer mu.Unlock()
		result.Rows = append(result.Rows, slices.Clone(slot.Values))
	}

	var pcxt *nodes.ParallelContext
	if opts.Workers > 0 && cscan.Flags.Has(nodes.CustomPathParallelCapable) {
		pcxt = &nodes.ParallelContext{NWorkers: opts.Workers, Toc: nodes.NewShmToc()}
		size := ExecCustomScanEstimate(leader, pcxt)
		if err := ExecCustomScanInitializeDSM(leader, pcxt); err != nil {
			return nil, err
		}
		log.Debug().Int("workers", opts.Workers).Uint64("dsm_size", size).Msg("launching parallel workers")
		result.Workers = opts.Workers
	}

	for pass := 0; pass <= opts.Rescans; pass++ {
		if pass > 0 {
			if err := ExecReScanCustomScan(leader); err != nil {
				return nil, err
			}
			if pcxt != nil {
				if err := ExecCustomScanReInitializeDSM(leader, pcxt); err != nil {
					return nil, err
				}
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		if pcxt != nil {
			for i := 0; i < pcxt.NWorkers; i++ {
				g.Go(func() error {
					return runWorker(gctx, cscan, newEState(), opts.ExecFlags, pcxt.Toc, collect)
				})
			}
		}
		g.Go(func() error {
			return drain(gctx, leader, collect)
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func runWorker(ctx context.Context, cscan *nodes.CustomScan, estate *nodes.EState, eflags nodes.ExecFlags, toc *nodes.ShmToc, collect func(*nodes.TupleTableSlot)) error {
	worker, err := ExecInitCustomScan(cscan, estate, eflags)
	if err != nil {
		return err
	}
	defer ExecEndCustomScan(worker)

	if err := ExecCustomScanInitializeWorker(worker, toc); err != nil {
		return err
	}
	defer ExecShutdownCustomScan(worker)

	return drain(ctx, worker, collect)
}

func drain(ctx context.Context, node nodes.CustomScanNode, collect func(*nodes.TupleTableSlot)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		slot, err := ExecCustomScan(node)
		if err != nil {
			return err
		}
		if slot == nil {
			return nil
		}
		collect(slot)
	}
}
