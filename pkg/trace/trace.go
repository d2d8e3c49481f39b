// Package trace records completed tree operations in completion order and
// streams them in XDR wire format for offline replay.
//
// The completion sequence number is the linearization order assumed by the
// replay oracle: mutations take effect inside write-locked critical
// sections, so an operation that finished before another began is sequenced
// before it.
package trace

import (
	"sync"
	"time"
)

// Operation kinds as they appear on the wire. They mirror workload.Kind;
// the duplication keeps the wire format self-contained.
const (
	OpList uint32 = iota
	OpCreate
	OpRemove
	OpMove
)

// Record is one completed operation.
type Record struct {
	// Seq is the 1-based completion sequence number.
	Seq uint64

	// Op is the operation kind (OpList..OpMove).
	Op uint32

	// Path is the operated path; Target is the move destination, empty for
	// other kinds.
	Path   string
	Target string

	// Code is the numeric result: 0 for success, the tree.ErrorCode value
	// otherwise.
	Code int32

	// Start and End bound the operation in wall-clock unix nanoseconds.
	Start int64
	End   int64
}

// Recorder accumulates records in memory, assigning completion sequence
// numbers under a single mutex so the order is total. Safe for concurrent
// use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a completed operation and assigns its sequence number.
// Callers invoke it immediately after the operation returns.
func (r *Recorder) Record(op uint32, path, target string, code int32, start, end time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{
		Seq:    uint64(len(r.records) + 1),
		Op:     op,
		Path:   path,
		Target: target,
		Code:   code,
		Start:  start.UnixNano(),
		End:    end.UnixNano(),
	})
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Records returns a copy of the recorded operations in sequence order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
