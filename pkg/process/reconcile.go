package process

// Reconcile builds a forest from a flat enumeration.
//
// A record is attached under the record whose PID equals its PPID only when
// that candidate is a different record and was created strictly before it.
// When the parent has exited and its PID was reused by a newer process, the
// candidate is younger than the child and the child becomes a root. The
// strict ordering also rules out cycles.
//
// Roots and siblings keep input order. If a PID occurs more than once the
// first occurrence is the link target and later ones become roots, so the
// node count always equals len(records).
func Reconcile(records []Record) Forest {
	nodes := make([]*Node, len(records))
	index := make(map[int]int, len(records))
	for i, r := range records {
		nodes[i] = &Node{Record: r}
		if _, dup := index[r.PID]; !dup {
			index[r.PID] = i
		}
	}

	// parent holds a generation-local index, -1 for roots.
	parent := make([]int, len(records))
	for i, r := range records {
		parent[i] = -1
		if index[r.PID] != i {
			continue
		}
		j, ok := index[r.PPID]
		if !ok || j == i {
			continue
		}
		if records[j].CreateTime.Before(r.CreateTime) {
			parent[i] = j
		}
	}

	var roots Forest
	for i, n := range nodes {
		if p := parent[i]; p >= 0 {
			nodes[p].Children = append(nodes[p].Children, n)
			continue
		}
		roots = append(roots, n)
	}
	return roots
}
