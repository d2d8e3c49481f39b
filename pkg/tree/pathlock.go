package tree

import "github.com/marmos91/dittotree/internal/pathutil"

// Path lockers compose the per-node primitive along a root-to-target walk.
//
// The traversal is hand-over-hand: the current node is locked before the
// next component is looked up in its children, and nothing is released until
// the operation finishes or rolls back. Acquisition therefore always runs
// root-to-leaf, and every release walk below runs leaf-to-root — the only
// upward action is release, which never blocks, so downward acquisitions
// cannot form a wait cycle.

// readLockPath walks from the root to the folder at path, read-locking every
// node on the way. On success the whole chain is held and the target node is
// returned. If a component is missing, every lock taken so far is released
// leaf-to-root and the result is nil.
//
// path must be valid.
func (t *Tree) readLockPath(path string) *node {
	cur := t.root
	cur.readLock()
	for rest := path; rest != "/"; {
		component, tail := pathutil.Split(rest)
		child := cur.children.get(component)
		if child == nil {
			readUnlockPredecessors(cur)
			return nil
		}
		child.readLock()
		cur, rest = child, tail
	}
	return cur
}

// readWriteLockPath is readLockPath with the terminal node write-locked
// instead: ancestors stay read-locked, the target is held exclusively. If
// path is the root itself, the root is write-locked directly.
//
// path must be valid.
func (t *Tree) readWriteLockPath(path string) *node {
	if path == "/" {
		t.root.writeLock()
		return t.root
	}

	cur := t.root
	cur.readLock()
	for rest := path; ; {
		component, tail := pathutil.Split(rest)
		child := cur.children.get(component)
		if child == nil {
			readUnlockPredecessors(cur)
			return nil
		}
		if tail == "/" {
			child.writeLock()
			return child
		}
		child.readLock()
		cur, rest = child, tail
	}
}

// readWriteLockPathFrom descends from start along the relative path,
// read-locking intermediate nodes and write-locking the terminal one.
//
// start's own lock is the caller's: it is neither re-acquired nor released
// on rollback. Move uses this to continue from the already write-locked
// lowest common ancestor without double-locking it. A relative path of "/"
// returns start itself, signalling the caller to reuse its held lock.
func readWriteLockPathFrom(start *node, path string) *node {
	if path == "/" {
		return start
	}

	cur := start
	for rest := path; ; {
		component, tail := pathutil.Split(rest)
		child := cur.children.get(component)
		if child == nil {
			if cur != start {
				readUnlockPredecessorsUntil(cur, start)
			}
			return nil
		}
		if tail == "/" {
			child.writeLock()
			return child
		}
		child.readLock()
		cur, rest = child, tail
	}
}

// readUnlockPredecessors read-unlocks n, then its parent, and so on up to
// and including the root.
func readUnlockPredecessors(n *node) {
	for n != nil {
		n.readUnlock()
		n = n.parent
	}
}

// readUnlockPredecessorsUntil is readUnlockPredecessors halting at stop,
// which is left untouched.
func readUnlockPredecessorsUntil(n, stop *node) {
	for n != stop {
		n.readUnlock()
		n = n.parent
	}
}

// writeUnlockPath releases a chain produced by readWriteLockPath: the
// write-locked terminal first, then its read-locked ancestors leaf-to-root.
func writeUnlockPath(n *node) {
	n.writeUnlock()
	if n.parent != nil {
		readUnlockPredecessors(n.parent)
	}
}
