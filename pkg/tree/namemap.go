package tree

import (
	"sort"
	"strings"
)

// nameMap maps child names to child nodes. It is not itself thread-safe:
// every access happens under the owning node's lock (read lock for lookups
// and iteration, write lock for mutation).
type nameMap map[string]*node

// get returns the child with the given name, or nil.
func (m nameMap) get(name string) *node {
	return m[name]
}

// insert adds a child under name. The name must not be taken.
func (m nameMap) insert(name string, child *node) {
	m[name] = child
}

// remove deletes the entry for name, if any.
func (m nameMap) remove(name string) {
	delete(m, name)
}

// size returns the number of children.
func (m nameMap) size() int {
	return len(m)
}

// names returns the child names in sorted order.
func (m nameMap) names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// contentsString renders the children as a comma-joined list of sorted
// names. An empty folder yields the empty string.
func (m nameMap) contentsString() string {
	return strings.Join(m.names(), ",")
}
