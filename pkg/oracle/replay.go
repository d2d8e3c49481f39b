package oracle

import (
	"sort"
	"strings"

	"github.com/marmos91/dittotree/pkg/trace"
	"github.com/marmos91/dittotree/pkg/tree"
	"github.com/marmos91/dittotree/pkg/workload"
)

// Divergence is one replayed operation whose reference result differs from
// the recorded one.
type Divergence struct {
	Seq  uint64
	Op   string
	Path string
	// Target is set for move records.
	Target string
	// Recorded is what the concurrent engine returned; Expected is what the
	// reference produced at the same point of the completion order.
	Recorded tree.ErrorCode
	Expected tree.ErrorCode
}

// Replay executes a recorded trace against a fresh reference tree in
// completion order and collects every result divergence. The returned tree
// is the reference's final state.
//
// Completion order is the assumed linearization: it is exact for
// non-overlapping operations. For operations that overlapped in the
// original run a divergence is evidence worth inspecting, not proof of a
// bug, and callers report accordingly.
func Replay(records []trace.Record) (*Tree, []Divergence) {
	ordered := make([]trace.Record, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	t := New()
	divergences := []Divergence{}
	for _, record := range ordered {
		kind := kindOf(record.Op)
		code := t.Apply(workload.Op{
			Kind:   kind,
			Path:   record.Path,
			Target: record.Target,
		})
		if code != tree.ErrorCode(record.Code) {
			divergences = append(divergences, Divergence{
				Seq:      record.Seq,
				Op:       kind.String(),
				Path:     record.Path,
				Target:   record.Target,
				Recorded: tree.ErrorCode(record.Code),
				Expected: code,
			})
		}
	}
	return t, divergences
}

func kindOf(op uint32) workload.Kind {
	switch op {
	case trace.OpList:
		return workload.KindList
	case trace.OpCreate:
		return workload.KindCreate
	case trace.OpRemove:
		return workload.KindRemove
	case trace.OpMove:
		return workload.KindMove
	default:
		return workload.Kind(-1)
	}
}

// Snapshot returns every folder path in the tree mapped to its contents
// string, for whole-hierarchy comparisons in tests and post-run reports.
func (t *Tree) Snapshot() map[string]string {
	snapshot := map[string]string{}
	snapshotFolder(t.root, "/", snapshot)
	return snapshot
}

func snapshotFolder(f *folder, path string, into map[string]string) {
	into[path] = contentsString(f)
	for name, child := range f.children {
		snapshotFolder(child, path+name+"/", into)
	}
}

func contentsString(f *folder) string {
	names := make([]string, 0, len(f.children))
	for name := range f.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
