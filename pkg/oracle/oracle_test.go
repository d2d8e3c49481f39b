package oracle_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/marmos91/dittotree/pkg/oracle"
	"github.com/marmos91/dittotree/pkg/trace"
	"github.com/marmos91/dittotree/pkg/tree"
	"github.com/marmos91/dittotree/pkg/workload"
	"github.com/stretchr/testify/require"
)

// applyToEngine runs op against the concurrent engine and returns the code.
func applyToEngine(tr *tree.Tree, op workload.Op) tree.ErrorCode {
	switch op.Kind {
	case workload.KindList:
		_, err := tr.List(op.Path)
		return tree.CodeOf(err)
	case workload.KindCreate:
		return tree.CodeOf(tr.Create(op.Path))
	case workload.KindRemove:
		return tree.CodeOf(tr.Remove(op.Path))
	default:
		return tree.CodeOf(tr.Move(op.Path, op.Target))
	}
}

// TestReferenceSemantics spot-checks the reference against the spec's
// boundary behaviors.
func TestReferenceSemantics(t *testing.T) {
	ref := oracle.New()

	require.Equal(t, tree.ErrExists, ref.Create("/"))
	require.Equal(t, tree.ErrBusy, ref.Remove("/"))
	require.Equal(t, tree.ErrBusy, ref.Move("/", "/a/"))
	require.Equal(t, tree.ErrExists, ref.Move("/a/", "/"))
	require.Equal(t, tree.ErrSuccessor, ref.Move("/a/", "/a/b/"))
	require.Equal(t, tree.ErrNotFound, ref.Move("/a/", "/a/"))

	require.Equal(t, tree.Success, ref.Create("/a/"))
	require.Equal(t, tree.Success, ref.Create("/a/b/"))
	require.Equal(t, tree.Success, ref.Move("/a/", "/a/"))
	require.Equal(t, tree.ErrNotEmpty, ref.Remove("/a/"))

	contents, code := ref.List("/a/")
	require.Equal(t, tree.Success, code)
	require.Equal(t, "b", contents)
}

// TestSequentialEquivalence runs one long random workload through both the
// concurrent engine (single-threaded, so program order is the
// linearization) and the reference, comparing every result code and the
// final hierarchy.
func TestSequentialEquivalence(t *testing.T) {
	generator, err := workload.NewUniform(40, 3)
	require.NoError(t, err)

	engine := tree.New()
	ref := oracle.New()
	rng := rand.New(rand.NewSource(42))

	for i := range 5000 {
		op := generator.Next(rng)
		engineCode := applyToEngine(engine, op)
		refCode := ref.Apply(op)
		require.Equal(t, refCode, engineCode,
			"op %d: %s %s %s diverged", i, op.Kind, op.Path, op.Target)
	}

	// The final hierarchies must match folder for folder.
	for path, contents := range ref.Snapshot() {
		engineContents, err := engine.List(path)
		require.NoError(t, err, "engine is missing %s", path)
		require.Equal(t, contents, engineContents, "contents of %s diverged", path)
	}

	require.NoError(t, engine.CheckInvariants())
}

// TestReplayDetectsDivergence feeds the replayer a doctored trace and
// expects exactly the doctored record to be flagged.
func TestReplayDetectsDivergence(t *testing.T) {
	now := time.Now()
	recorder := trace.NewRecorder()
	recorder.Record(trace.OpCreate, "/a/", "", int32(tree.Success), now, now)
	recorder.Record(trace.OpCreate, "/a/", "", int32(tree.Success), now, now) // actually EEXIST
	recorder.Record(trace.OpRemove, "/a/", "", int32(tree.Success), now, now)

	_, divergences := oracle.Replay(recorder.Records())
	require.Len(t, divergences, 1)
	require.Equal(t, uint64(2), divergences[0].Seq)
	require.Equal(t, tree.Success, divergences[0].Recorded)
	require.Equal(t, tree.ErrExists, divergences[0].Expected)
}

// TestReplayCleanTrace replays a consistent sequential trace and expects
// no divergences and the right final state.
func TestReplayCleanTrace(t *testing.T) {
	generator, err := workload.NewUniform(20, 2)
	require.NoError(t, err)

	ref := oracle.New()
	recorder := trace.NewRecorder()
	rng := rand.New(rand.NewSource(7))

	for range 1000 {
		op := generator.Next(rng)
		code := ref.Apply(op)
		wire := map[workload.Kind]uint32{
			workload.KindList:   trace.OpList,
			workload.KindCreate: trace.OpCreate,
			workload.KindRemove: trace.OpRemove,
			workload.KindMove:   trace.OpMove,
		}[op.Kind]
		now := time.Now()
		recorder.Record(wire, op.Path, op.Target, int32(code), now, now)
	}

	replayed, divergences := oracle.Replay(recorder.Records())
	require.Empty(t, divergences)
	require.Equal(t, ref.Snapshot(), replayed.Snapshot())
}
