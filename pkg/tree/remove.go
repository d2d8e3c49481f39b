package tree

import "github.com/marmos91/dittotree/internal/pathutil"

// Remove deletes the empty folder at path.
//
// The parent is write-locked, then the victim's subtree is drained: Remove
// waits until no operation is accounted for anywhere inside the victim.
// Holding the parent's write lock guarantees no new traverser can enter, so
// the wait terminates once in-flight operations complete. After the drain
// the victim is only reachable through the write-locked parent, so its
// children can be inspected without taking its own lock.
//
// Returns *Error with:
//   - ErrInvalidPath: path failed validation (no lock taken)
//   - ErrBusy: path is the root, which cannot be removed
//   - ErrNotFound: the folder or some ancestor does not exist
//   - ErrNotEmpty: the folder still has children
func (t *Tree) Remove(path string) error {
	if !pathutil.IsValid(path) {
		return &Error{
			Code:    ErrInvalidPath,
			Message: "invalid path",
			Path:    path,
		}
	}

	parentPath, name, ok := pathutil.Parent(path)
	if !ok {
		return &Error{
			Code:    ErrBusy,
			Message: "root folder cannot be removed",
			Path:    path,
		}
	}

	parent := t.readWriteLockPath(parentPath)
	if parent == nil {
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    path,
		}
	}

	victim := parent.children.get(name)
	if victim == nil {
		writeUnlockPath(parent)
		return &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    path,
		}
	}

	victim.subtreeWait()

	if victim.children.size() > 0 {
		writeUnlockPath(parent)
		return &Error{
			Code:    ErrNotEmpty,
			Message: "folder is not empty",
			Path:    path,
		}
	}

	parent.children.remove(name)
	victim.parent = nil

	writeUnlockPath(parent)
	return nil
}
