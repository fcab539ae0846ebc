package location

import (
	"sort"

	"kigalimove/models"
)

type node struct {
	children map[string]*node
}

func newNode() *node {
	return &node{children: map[string]*node{}}
}

// Tree is the province → district → sector → cell → village hierarchy held in memory.
type Tree struct {
	root *node
}

// BuildTree folds flat rows into a Tree. Rows with an empty level are cut at that level.
func BuildTree(rows []models.Location) *Tree {
	t := &Tree{root: newNode()}
	for _, r := range rows {
		cur := t.root
		for _, name := range []string{r.Province, r.District, r.Sector, r.Cell, r.Village} {
			if name == "" {
				break
			}
			next, ok := cur.children[name]
			if !ok {
				next = newNode()
				cur.children[name] = next
			}
			cur = next
		}
	}
	return t
}

// Children returns the sorted names under path. An unknown path yields nil.
func (t *Tree) Children(path ...string) []string {
	cur := t.root
	for _, p := range path {
		next, ok := cur.children[p]
		if !ok {
			return nil
		}
		cur = next
	}
	names := make([]string, 0, len(cur.children))
	for name := range cur.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
