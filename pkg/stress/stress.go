// Package stress drives a folder tree with concurrent randomized workloads.
// It is the in-process harness behind the dittotree CLI's stress mode and
// the concurrency property tests.
package stress

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/marmos91/dittotree/internal/ratelimiter"
	"github.com/marmos91/dittotree/pkg/trace"
	"github.com/marmos91/dittotree/pkg/tree"
	"github.com/marmos91/dittotree/pkg/workload"
)

// Runner executes a workload against a tree from a pool of workers.
//
// Every worker owns a seeded RNG derived from Seed, so a run is
// reproducible up to scheduling. Limiter and Recorder are optional.
type Runner struct {
	Tree      *tree.Tree
	Generator workload.Generator
	Limiter   *ratelimiter.RateLimiter
	Recorder  *trace.Recorder
	Workers   int
	Duration  time.Duration
	Seed      int64
}

// Stats aggregates a run's outcomes.
type Stats struct {
	// Ops is the total number of completed operations.
	Ops uint64

	// ByKind counts completed operations per verb.
	ByKind map[workload.Kind]uint64

	// ByCode counts results per error code, Success included.
	ByCode map[tree.ErrorCode]uint64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Run drives the workers until Duration elapses or ctx is cancelled,
// whichever comes first, and returns the aggregated stats.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if r.Tree == nil || r.Generator == nil {
		return Stats{}, fmt.Errorf("stress: runner needs a tree and a generator")
	}
	if r.Workers < 1 {
		return Stats{}, fmt.Errorf("stress: workers must be at least 1, got %d", r.Workers)
	}

	runCtx := ctx
	if r.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Duration)
		defer cancel()
	}

	var (
		mu    sync.Mutex
		stats = Stats{
			ByKind: map[workload.Kind]uint64{},
			ByCode: map[tree.ErrorCode]uint64{},
		}
		wg sync.WaitGroup
	)

	started := time.Now()
	for i := range r.Workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			local := r.work(runCtx, rand.New(rand.NewSource(r.Seed+int64(worker))))
			mu.Lock()
			defer mu.Unlock()
			stats.Ops += local.Ops
			for kind, n := range local.ByKind {
				stats.ByKind[kind] += n
			}
			for code, n := range local.ByCode {
				stats.ByCode[code] += n
			}
		}(i)
	}
	wg.Wait()
	stats.Elapsed = time.Since(started)

	// Duration running out is a normal finish; only the caller's own
	// cancellation is surfaced.
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// work is one worker's loop: throttle, draw an operation, execute, record.
func (r *Runner) work(ctx context.Context, rng *rand.Rand) Stats {
	local := Stats{
		ByKind: map[workload.Kind]uint64{},
		ByCode: map[tree.ErrorCode]uint64{},
	}

	for {
		select {
		case <-ctx.Done():
			return local
		default:
		}

		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return local
			}
		}

		op := r.Generator.Next(rng)
		start := time.Now()
		code := apply(r.Tree, op)
		end := time.Now()

		if r.Recorder != nil {
			r.Recorder.Record(wireOp(op.Kind), op.Path, op.Target, int32(code), start, end)
		}

		local.Ops++
		local.ByKind[op.Kind]++
		local.ByCode[code]++
	}
}

func apply(t *tree.Tree, op workload.Op) tree.ErrorCode {
	switch op.Kind {
	case workload.KindList:
		_, err := t.List(op.Path)
		return tree.CodeOf(err)
	case workload.KindCreate:
		return tree.CodeOf(t.Create(op.Path))
	case workload.KindRemove:
		return tree.CodeOf(t.Remove(op.Path))
	case workload.KindMove:
		return tree.CodeOf(t.Move(op.Path, op.Target))
	default:
		return tree.ErrInvalidPath
	}
}

func wireOp(kind workload.Kind) uint32 {
	switch kind {
	case workload.KindList:
		return trace.OpList
	case workload.KindCreate:
		return trace.OpCreate
	case workload.KindRemove:
		return trace.OpRemove
	default:
		return trace.OpMove
	}
}
