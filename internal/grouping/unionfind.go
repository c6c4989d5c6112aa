package grouping

import (
	"fmt"
	"sort"
)

// ErrInvalidPartition signals a defect in the disjoint-set bookkeeping. It
// is returned by Validate and indicates the run must abort rather than
// persist an inconsistent grouping.
var ErrInvalidPartition = fmt.Errorf("grouping: invalid partition")

// DisjointSet is a map-backed union-find structure with path compression
// and union by rank. Ids are registered lazily on first use.
type DisjointSet struct {
	parent map[int64]int64
	rank   map[int64]int
}

// NewDisjointSet returns an empty partition.
func NewDisjointSet() *DisjointSet {
	return &DisjointSet{
		parent: make(map[int64]int64),
		rank:   make(map[int64]int),
	}
}

// Find returns the class representative for id, compressing the path as it
// walks. An unseen id becomes its own singleton class.
func (d *DisjointSet) Find(id int64) int64 {
	root, ok := d.parent[id]
	if !ok {
		d.parent[id] = id
		d.rank[id] = 0
		return id
	}
	if root == id {
		return id
	}
	top := d.Find(root)
	d.parent[id] = top
	return top
}

// Union merges the classes containing a and b.
func (d *DisjointSet) Union(a, b int64) {
	ra := d.Find(a)
	rb := d.Find(b)
	if ra == rb {
		return
	}
	if d.rank[ra] < d.rank[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	if d.rank[ra] == d.rank[rb] {
		d.rank[ra]++
	}
}

// SameClass reports whether a and b already share a class.
func (d *DisjointSet) SameClass(a, b int64) bool {
	return d.Find(a) == d.Find(b)
}

// Groups returns every equivalence class with at least two members.
// Singleton records were matched by nothing and stay out of grouping
// entirely. Roots and members are sorted so output order is reproducible.
func (d *DisjointSet) Groups() map[int64][]int64 {
	groups := make(map[int64][]int64)
	ids := make([]int64, 0, len(d.parent))
	for id := range d.parent {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		root := d.Find(id)
		groups[root] = append(groups[root], id)
	}
	for root, members := range groups {
		if len(members) < 2 {
			delete(groups, root)
		}
	}
	return groups
}

// Validate checks the partition invariant: every id resolves to exactly
// one root and that root resolves to itself. A violation means a logic
// defect and the run must fail loudly.
func (d *DisjointSet) Validate() error {
	for id := range d.parent {
		root := d.Find(id)
		if d.Find(root) != root {
			return fmt.Errorf("%w: id %d resolves to root %d which is not self-rooted", ErrInvalidPartition, id, root)
		}
	}
	return nil
}
