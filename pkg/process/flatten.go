package process

// Row is one line of a flattened forest.
type Row struct {
	Record
	Depth       int
	NumChildren int
	TotalCPU    float64
	TotalMemory uint64
}

// FlattenOptions controls Flatten.
type FlattenOptions struct {
	// Limit caps the number of rows; 0 means no limit.
	Limit int
	// Expand shows every level. When false only roots and their direct
	// children are listed.
	Expand bool
}

// Flatten lists the forest in pre-order for display.
func (f Forest) Flatten(opts FlattenOptions) []Row {
	var rows []Row
	f.Walk(func(n *Node, depth int) bool {
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			return false
		}
		rows = append(rows, Row{
			Record:      n.Record,
			Depth:       depth,
			NumChildren: len(n.Children),
			TotalCPU:    n.TotalCPU(),
			TotalMemory: n.TotalMemory(),
		})
		return opts.Expand || depth == 0
	})
	return rows
}
