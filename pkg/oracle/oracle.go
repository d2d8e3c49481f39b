// Package oracle is a single-threaded reference implementation of the
// folder-tree semantics. It shares nothing with the concurrent engine
// except the path grammar and the error taxonomy, which is what makes it
// useful: a randomized workload replayed through both must produce the same
// result codes and the same final hierarchy.
package oracle

import (
	"github.com/marmos91/dittotree/internal/pathutil"
	"github.com/marmos91/dittotree/pkg/tree"
	"github.com/marmos91/dittotree/pkg/workload"
)

// folder is a reference node: a plain children map, nothing else.
type folder struct {
	children map[string]*folder
}

func newFolder() *folder {
	return &folder{children: map[string]*folder{}}
}

// Tree is the reference tree. Not safe for concurrent use; that is the
// point.
type Tree struct {
	root *folder
}

// New returns an empty reference tree.
func New() *Tree {
	return &Tree{root: newFolder()}
}

// find walks to the folder at path, or nil.
func (t *Tree) find(path string) *folder {
	cur := t.root
	for rest := path; rest != "/" && rest != ""; {
		component, tail := pathutil.Split(rest)
		cur = cur.children[component]
		if cur == nil {
			return nil
		}
		rest = tail
	}
	return cur
}

// List returns the contents string of the folder at path.
func (t *Tree) List(path string) (string, tree.ErrorCode) {
	if !pathutil.IsValid(path) {
		return "", tree.ErrInvalidPath
	}
	cur := t.find(path)
	if cur == nil {
		return "", tree.ErrNotFound
	}
	return contentsString(cur), tree.Success
}

// Create adds an empty folder at path.
func (t *Tree) Create(path string) tree.ErrorCode {
	if !pathutil.IsValid(path) {
		return tree.ErrInvalidPath
	}
	parentPath, name, ok := pathutil.Parent(path)
	if !ok {
		return tree.ErrExists
	}
	parent := t.find(parentPath)
	if parent == nil {
		return tree.ErrNotFound
	}
	if parent.children[name] != nil {
		return tree.ErrExists
	}
	parent.children[name] = newFolder()
	return tree.Success
}

// Remove deletes the empty folder at path.
func (t *Tree) Remove(path string) tree.ErrorCode {
	if !pathutil.IsValid(path) {
		return tree.ErrInvalidPath
	}
	parentPath, name, ok := pathutil.Parent(path)
	if !ok {
		return tree.ErrBusy
	}
	parent := t.find(parentPath)
	if parent == nil {
		return tree.ErrNotFound
	}
	victim := parent.children[name]
	if victim == nil {
		return tree.ErrNotFound
	}
	if len(victim.children) > 0 {
		return tree.ErrNotEmpty
	}
	delete(parent.children, name)
	return tree.Success
}

// Move relocates the folder at source to target, mirroring the engine's
// screening order exactly.
func (t *Tree) Move(source, target string) tree.ErrorCode {
	if !pathutil.IsValid(source) || !pathutil.IsValid(target) {
		return tree.ErrInvalidPath
	}
	if source == "/" {
		return tree.ErrBusy
	}
	if target == "/" {
		return tree.ErrExists
	}
	if pathutil.IsProperAncestor(source, target) {
		return tree.ErrSuccessor
	}
	if source == target {
		if t.find(source) == nil {
			return tree.ErrNotFound
		}
		return tree.Success
	}

	sourceParentPath, sourceName, _ := pathutil.Parent(source)
	targetParentPath, targetName, _ := pathutil.Parent(target)

	sourceParent := t.find(sourceParentPath)
	if sourceParent == nil {
		return tree.ErrNotFound
	}
	sourceNode := sourceParent.children[sourceName]
	if sourceNode == nil {
		return tree.ErrNotFound
	}
	targetParent := t.find(targetParentPath)
	if targetParent == nil {
		return tree.ErrNotFound
	}
	if targetParent.children[targetName] != nil {
		return tree.ErrExists
	}

	delete(sourceParent.children, sourceName)
	targetParent.children[targetName] = sourceNode
	return tree.Success
}

// Apply executes op and returns its result code.
func (t *Tree) Apply(op workload.Op) tree.ErrorCode {
	switch op.Kind {
	case workload.KindList:
		_, code := t.List(op.Path)
		return code
	case workload.KindCreate:
		return t.Create(op.Path)
	case workload.KindRemove:
		return t.Remove(op.Path)
	case workload.KindMove:
		return t.Move(op.Path, op.Target)
	default:
		return tree.ErrInvalidPath
	}
}
