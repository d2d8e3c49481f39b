package tree

import "fmt"

// CheckInvariants verifies the tree's structural and counter invariants.
//
// It is a quiescent check: the caller must guarantee no operation is running
// (the same precondition as Free). With that guarantee it inspects nodes
// without taking their long-term locks, briefly acquiring each node's mutex
// only to snapshot counters.
//
// Checked, for every reachable node:
//   - all five counters are zero
//   - every child's parent reference points back at this node
//   - no node is reachable twice (the children relation is a tree)
//
// Returns nil if every invariant holds, or an error naming the first
// violation found.
func (t *Tree) CheckInvariants() error {
	seen := make(map[*node]bool)
	return checkNode(t.root, "/", nil, seen)
}

func checkNode(n *node, path string, parent *node, seen map[*node]bool) error {
	if seen[n] {
		return fmt.Errorf("node %s reachable through more than one parent", path)
	}
	seen[n] = true

	if n.parent != parent {
		return fmt.Errorf("node %s has a stale parent reference", path)
	}

	n.mu.Lock()
	readCount := n.readCount
	writeCount := n.writeCount
	readWait := n.readWait
	writeWait := n.writeWait
	subtreeCount := n.subtreeCount
	n.mu.Unlock()

	if readCount != 0 || writeCount != 0 || readWait != 0 || writeWait != 0 || subtreeCount != 0 {
		return fmt.Errorf(
			"node %s not quiescent: readCount=%d writeCount=%d readWait=%d writeWait=%d subtreeCount=%d",
			path, readCount, writeCount, readWait, writeWait, subtreeCount,
		)
	}

	for _, name := range n.children.names() {
		child := n.children.get(name)
		if err := checkNode(child, path+name+"/", n, seen); err != nil {
			return err
		}
	}
	return nil
}
