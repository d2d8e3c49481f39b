package tree

import "github.com/marmos91/dittotree/internal/pathutil"

// Move relocates the folder at source to the target path, carrying its
// whole subtree with it. The moved node keeps its identity: moving relinks
// the child in the two parents' maps and rewrites its parent reference.
//
// The two parent paths are locked through their lowest common ancestor: the
// LCA is write-locked first, then each branch is descended separately from
// there (ancestors read-locked, branch terminal write-locked). Both descents
// run downward from a single pivot held in write mode, so they cannot
// interleave with each other or with other Moves in a cycle-forming way.
// Before relinking, the source node's subtree is drained the same way
// Remove drains its victim.
//
// Syntactic screens run before any locking, in this order:
//   - either path invalid: ErrInvalidPath
//   - source is the root: ErrBusy
//   - target is the root: ErrExists
//   - target lies inside source's subtree: ErrSuccessor (the check never
//     inspects the tree, so it fires even when source does not exist)
//   - source equals target: presence is verified under read locks, then
//     SUCCESS with no observable change, or ErrNotFound
//
// The general case returns *Error with:
//   - ErrNotFound: the source folder, or any component of either parent
//     path, does not exist
//   - ErrExists: the target name is already taken
func (t *Tree) Move(source, target string) error {
	if !pathutil.IsValid(source) || !pathutil.IsValid(target) {
		path := source
		if pathutil.IsValid(source) {
			path = target
		}
		return &Error{
			Code:    ErrInvalidPath,
			Message: "invalid path",
			Path:    path,
		}
	}

	if source == "/" {
		return &Error{
			Code:    ErrBusy,
			Message: "root folder cannot be moved",
			Path:    source,
		}
	}

	if target == "/" {
		return &Error{
			Code:    ErrExists,
			Message: "root folder already exists",
			Path:    target,
		}
	}

	if pathutil.IsProperAncestor(source, target) {
		return &Error{
			Code:    ErrSuccessor,
			Message: "target is inside the moved folder",
			Path:    target,
		}
	}

	if source == target {
		folder := t.readLockPath(source)
		if folder == nil {
			return &Error{
				Code:    ErrNotFound,
				Message: "folder not found",
				Path:    source,
			}
		}
		readUnlockPredecessors(folder)
		return nil
	}

	sourceParentPath, sourceName, _ := pathutil.Parent(source)
	targetParentPath, targetName, _ := pathutil.Parent(target)
	lcaPath := pathutil.CommonAncestor(sourceParentPath, targetParentPath)

	// Pivot: write-lock the lowest common ancestor of the two parent
	// paths, read-locking its own ancestors on the way down.
	lca := t.readWriteLockPath(lcaPath)
	if lca == nil {
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    lcaPath,
		}
	}

	sourceParent := readWriteLockPathFrom(lca, pathutil.Relative(sourceParentPath, lcaPath))
	if sourceParent == nil {
		writeUnlockPath(lca)
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    source,
		}
	}

	sourceNode := sourceParent.children.get(sourceName)
	if sourceNode == nil {
		releaseMoveBranch(sourceParent, lca)
		writeUnlockPath(lca)
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    source,
		}
	}

	// Drain the moved subtree. The source parent's write lock keeps new
	// traversers out while in-flight ones finish; afterwards the subtree
	// can be relinked without walking it.
	sourceNode.subtreeWait()

	targetParent := readWriteLockPathFrom(lca, pathutil.Relative(targetParentPath, lcaPath))
	if targetParent == nil {
		releaseMoveBranch(sourceParent, lca)
		writeUnlockPath(lca)
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    target,
		}
	}

	if targetParent.children.get(targetName) != nil {
		releaseMoveBranch(targetParent, lca)
		releaseMoveBranch(sourceParent, lca)
		writeUnlockPath(lca)
		return &Error{
			Code:    ErrExists,
			Message: "folder already exists",
			Path:    target,
		}
	}

	// The relink itself: atomic with respect to every other operation,
	// since both parents (or the shared LCA) are held in write mode.
	sourceParent.children.remove(sourceName)
	targetParent.children.insert(targetName, sourceNode)
	sourceNode.parent = targetParent

	releaseMoveBranch(sourceParent, lca)
	releaseMoveBranch(targetParent, lca)
	writeUnlockPath(lca)
	return nil
}

// releaseMoveBranch releases one descent made by readWriteLockPathFrom: the
// write-locked branch terminal, then its read-locked ancestors up to (not
// including) the LCA. A branch that reused the LCA itself is a no-op; the
// caller releases the LCA last.
func releaseMoveBranch(terminal, lca *node) {
	if terminal == lca {
		return
	}
	terminal.writeUnlock()
	readUnlockPredecessorsUntil(terminal.parent, lca)
}
