package tree

import "sync"

// node is a single folder.
//
// Each node carries its own reader/writer/subtree lock built from one mutex,
// three condition variables and five counters. The mutex protects every
// counter and the children map; it is only ever held for constant-time
// bookkeeping, never across a blocking wait outside the condition variables.
//
// Counter semantics:
//
//   - readCount / writeCount: locks currently held on this node. At most one
//     writer, never together with readers.
//   - readWait / writeWait: threads currently blocked on readCV / writeCV.
//   - subtreeCount: coarse ticket counting every protocol participant
//     accounted for on this node — each read or write acquisition and each
//     pending subtreeWait increments it on entry and decrements it on
//     release. Because traversals hold their whole root-to-target chain, a
//     thread working anywhere inside this node's subtree is counted here too.
type node struct {
	mu        sync.Mutex
	readCV    sync.Cond
	writeCV   sync.Cond
	subtreeCV sync.Cond

	readCount    int
	writeCount   int
	readWait     int
	writeWait    int
	subtreeCount int

	children nameMap

	// parent is a non-owning back-reference: parents own children through
	// the children map, a child merely remembers which node points to it.
	// Nil for the root. Rewritten by Move under both parents' write locks.
	parent *node
}

func newNode(parent *node) *node {
	n := &node{
		children: make(nameMap),
		parent:   parent,
	}
	n.readCV.L = &n.mu
	n.writeCV.L = &n.mu
	n.subtreeCV.L = &n.mu
	return n
}

// readLock acquires the node for shared reading. Any number of readers may
// hold a node at once.
//
// An incoming reader defers to writers that are already waiting (writeWait
// check), which keeps writers from starving behind a stream of readers. Once
// parked, it resumes as soon as no writer holds the node: the releasing
// writer wakes one reader, and each admitted reader wakes the next, so a
// whole waiting batch drains as a chain of unicasts.
func (n *node) readLock() {
	n.mu.Lock()
	n.subtreeCount++
	if n.writeCount > 0 || n.writeWait > 0 {
		n.readWait++
		for {
			n.readCV.Wait()
			if n.writeCount == 0 {
				break
			}
		}
		n.readWait--
	}
	n.readCount++
	n.readCV.Signal()
	n.mu.Unlock()
}

// readUnlock releases a shared hold. The last reader out wakes a waiting
// writer, if any.
func (n *node) readUnlock() {
	n.mu.Lock()
	n.readCount--
	if n.readCount == 0 {
		n.writeCV.Signal()
	}
	n.subtreeCount--
	if n.subtreeCount <= 1 {
		n.subtreeCV.Signal()
	}
	n.mu.Unlock()
}

// writeLock acquires the node exclusively, waiting out current readers and
// the current writer. Waiting writers queue on writeCV in arrival order as
// far as the runtime's condition variable provides; no stronger fairness is
// guaranteed.
func (n *node) writeLock() {
	n.mu.Lock()
	n.subtreeCount++
	for n.writeCount > 0 || n.readCount > 0 {
		n.writeWait++
		n.writeCV.Wait()
		n.writeWait--
	}
	n.writeCount = 1
	n.mu.Unlock()
}

// writeUnlock releases the exclusive hold. Waiting readers take precedence
// over the next writer: the first reader is woken and the admission chain in
// readLock drains the rest.
func (n *node) writeUnlock() {
	n.mu.Lock()
	n.writeCount = 0
	if n.readWait > 0 {
		n.readCV.Signal()
	} else {
		n.writeCV.Signal()
	}
	n.subtreeCount--
	if n.subtreeCount <= 1 {
		n.subtreeCV.Signal()
	}
	n.mu.Unlock()
}

// subtreeWait blocks until the caller is the only protocol participant
// accounted for within this node's subtree, then returns holding nothing.
//
// The caller must hold the parent's write lock: that is what prevents new
// traversers from entering the subtree while the in-flight ones drain, and
// what makes the wait terminate once current operations complete.
func (n *node) subtreeWait() {
	n.mu.Lock()
	n.subtreeCount++
	for n.subtreeCount > 1 {
		n.subtreeCV.Wait()
	}
	n.subtreeCount--
	n.mu.Unlock()
}
