package tree

import "github.com/marmos91/dittotree/internal/pathutil"

// List returns the contents string of the folder at path: its child names,
// sorted and comma-joined. An empty folder yields "".
//
// Any number of Lists on any paths run simultaneously; a List blocks only
// writers, only on the nodes it traverses, and only for the duration of the
// traversal plus the contents-string construction.
//
// Returns *Error with:
//   - ErrInvalidPath: path failed validation (no lock taken)
//   - ErrNotFound: some component of path does not exist
func (t *Tree) List(path string) (string, error) {
	if !pathutil.IsValid(path) {
		return "", &Error{
			Code:    ErrInvalidPath,
			Message: "invalid path",
			Path:    path,
		}
	}

	folder := t.readLockPath(path)
	if folder == nil {
		return "", &Error{
			Code:    ErrNotFound,
			Message: "folder not found",
			Path:    path,
		}
	}

	// Safe under folder's read lock; the chain above is still held too.
	contents := folder.children.contentsString()

	readUnlockPredecessors(folder)
	return contents, nil
}
