package cluster

// disjointSet is a union-find forest over station indices.
// parent[i] == i marks a root.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

// find returns the root of x and compresses the path walked.
func (s *disjointSet) find(x int) int {
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[x] != root {
		next := s.parent[x]
		s.parent[x] = root
		x = next
	}
	return root
}

// union attaches the root of child under the root of parent and returns
// the surviving root.
func (s *disjointSet) union(parent, child int) int {
	rp, rc := s.find(parent), s.find(child)
	if rp != rc {
		s.parent[rc] = rp
	}
	return rp
}
