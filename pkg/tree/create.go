package tree

import "github.com/marmos91/dittotree/internal/pathutil"

// Create adds an empty folder at path. The parent folder must already
// exist.
//
// Only the parent is write-locked; the parent's ancestors are read-locked
// for the duration, so creations in disjoint subtrees proceed in parallel.
//
// Returns *Error with:
//   - ErrInvalidPath: path failed validation (no lock taken)
//   - ErrExists: path is the root, or the name is already taken
//   - ErrNotFound: some component of the parent path does not exist
func (t *Tree) Create(path string) error {
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
			Code:    ErrExists,
			Message: "root folder already exists",
			Path:    path,
		}
	}

	parent := t.readWriteLockPath(parentPath)
	if parent == nil {
		return &Error{
			Code:    ErrNotFound,
			Message: "parent folder not found",
			Path:    parentPath,
		}
	}

	if parent.children.get(name) != nil {
		writeUnlockPath(parent)
		return &Error{
			Code:    ErrExists,
			Message: "folder already exists",
			Path:    path,
		}
	}

	parent.children.insert(name, newNode(parent))

	writeUnlockPath(parent)
	return nil
}
