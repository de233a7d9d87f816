package process

import (
	"slices"
	"time"
)

// Record is one process as reported by a Source. A PID is unique only at a
// single instant; the OS may hand it to an unrelated process later.
type Record struct {
	PID         int
	PPID        int
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
	CreateTime  time.Time
}

// Node is a reconciled process with its owned children. It keeps no
// reference to its parent; ancestry is derived by walking from the roots.
type Node struct {
	Record
	Children []*Node
}

// TotalCPU returns the CPU percent of n and all of its descendants.
func (n *Node) TotalCPU() float64 {
	total := n.CPUPercent
	for _, c := range n.Children {
		total += c.TotalCPU()
	}
	return total
}

// TotalMemory returns the memory of n and all of its descendants.
func (n *Node) TotalMemory() uint64 {
	total := n.MemoryBytes
	for _, c := range n.Children {
		total += c.TotalMemory()
	}
	return total
}

// Clone deep-copies n and its subtree.
func (n *Node) Clone() *Node {
	out := &Node{Record: n.Record}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Forest is an ordered set of process trees, one per root.
type Forest []*Node

// Clone returns a deep copy sharing no nodes with f.
func (f Forest) Clone() Forest {
	if f == nil {
		return nil
	}
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of nodes in the forest.
func (f Forest) Len() int {
	n := 0
	f.Walk(func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// Walk visits every node in pre-order. Returning false from fn skips the
// children of the current node.
func (f Forest) Walk(fn func(n *Node, depth int) bool) {
	for _, root := range f {
		walk(root, 0, fn)
	}
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Find returns the node for pid, or nil.
func (f Forest) Find(pid int) *Node {
	path := f.Path(pid)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// Path returns the chain of nodes from a root down to pid, or nil if pid is
// not in the forest.
func (f Forest) Path(pid int) []*Node {
	var stack []*Node
	for _, root := range f {
		if found := pathTo(root, pid, stack); found != nil {
			return found
		}
	}
	return nil
}

func pathTo(n *Node, pid int, stack []*Node) []*Node {
	stack = append(stack, n)
	if n.PID == pid {
		return slices.Clone(stack)
	}
	for _, c := range n.Children {
		if found := pathTo(c, pid, stack); found != nil {
			return found
		}
	}
	return nil
}

// SortBy returns a deep copy of f with roots and every sibling list ordered
// by less. The sort is stable.
func (f Forest) SortBy(less func(a, b *Node) int) Forest {
	out := f.Clone()
	sortNodes(out, less)
	return out
}

func sortNodes(nodes []*Node, less func(a, b *Node) int) {
	slices.SortStableFunc(nodes, less)
	for _, n := range nodes {
		sortNodes(n.Children, less)
	}
}

// Orderings for SortBy.
var (
	ByPID = func(a, b *Node) int { return a.PID - b.PID }

	ByCPU = func(a, b *Node) int {
		switch ta, tb := a.TotalCPU(), b.TotalCPU(); {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		}
		return a.PID - b.PID
	}

	ByMemory = func(a, b *Node) int {
		switch ma, mb := a.TotalMemory(), b.TotalMemory(); {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		}
		return a.PID - b.PID
	}
)
