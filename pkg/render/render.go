// Package render draws one monitor frame as text with optional ANSI colors.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/process"
	"github.com/ja7ad/sysmon/pkg/system/util"
	"github.com/ja7ad/sysmon/pkg/types"
)

// MaxCores is the number of per-core gauges drawn.
const MaxCores = 16

const defaultWidth = 80

// Host describes the machine in the frame header.
type Host struct {
	Hostname    string
	Platform    string
	Kernel      string
	CPUs        int
	MemoryTotal uint64
	Cgroup      string
	Source      string
}

// Options controls the layout of a frame.
type Options struct {
	Colors      bool
	ShowPerCore bool

	// Percent thresholds; a reading strictly above raises an alert.
	CPUAlert    float64
	MemoryAlert float64

	// MaxProcesses caps the table rows; 0 means unlimited.
	MaxProcesses int
	Expand       bool
	Order        func(a, b *process.Node) int

	// Width is the terminal width in columns; 0 means 80.
	Width int
}

// Frame is everything one redraw shows.
type Frame struct {
	Host    Host
	Metrics metrics.Snapshot
	Forest  process.Forest
	Now     time.Time
}

// Alerts returns the alert labels raised by s.
func Alerts(s metrics.Snapshot, cpuThreshold, memThreshold float64) []string {
	var out []string
	if s.CPUPercent > cpuThreshold {
		out = append(out, "CPU ALERT")
	}
	if s.MemoryPercent > memThreshold {
		out = append(out, "MEMORY ALERT")
	}
	return out
}

// Render writes f to w in a single Write call.
func Render(w io.Writer, f Frame, opts Options) error {
	var buf bytes.Buffer
	p := painter(opts.Colors)
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	s := f.Metrics

	writeHeader(&buf, p, f.Host)

	// CPU
	gauge := max(10, min(width-30, 60))
	fmt.Fprintf(&buf, "%s\n", p.paint(bold, "CPU Usage"))
	fmt.Fprintf(&buf, "  Overall  %s %s\n", bar(p, s.CPUPercent, gauge), p.paint(bold, pct(s.CPUPercent)))
	if opts.ShowPerCore {
		for i, v := range s.PerCore {
			if i == MaxCores {
				fmt.Fprintf(&buf, "  ... %d more cores\n", len(s.PerCore)-MaxCores)
				break
			}
			fmt.Fprintf(&buf, "  Core %-3d %s %s\n", i, bar(p, v, gauge), pct(v))
		}
	}

	// Memory
	fmt.Fprintf(&buf, "\n%s\n", p.paint(bold, "Memory"))
	fmt.Fprintf(&buf, "  Used: %s | Total: %s %s %s\n",
		types.Bytes(s.MemoryUsed).Humanized(), types.Bytes(s.MemoryTotal).Humanized(),
		bar(p, s.MemoryPercent, max(10, gauge-30)), p.paint(bold, pct(s.MemoryPercent)))

	// Disk and network
	const col = 30
	fmt.Fprintf(&buf, "\n%s%s%s\n", p.paint(bold, "Disk I/O"), strings.Repeat(" ", col-len("Disk I/O")), p.paint(bold, "Network I/O"))
	fmt.Fprintf(&buf, "  %-*s%s\n", col-2, "Read:  "+types.Rate(s.DiskReadBps).Humanized(), "Recv: "+types.Rate(s.NetRecvBps).Humanized())
	fmt.Fprintf(&buf, "  %-*s%s\n", col-2, "Write: "+types.Rate(s.DiskWriteBps).Humanized(), "Send: "+types.Rate(s.NetSendBps).Humanized())

	// Processes
	writeProcesses(&buf, p, f.Forest, opts)

	// Status line
	fmt.Fprintln(&buf)
	status := f.Now.Format("15:04:05")
	if alerts := Alerts(s, opts.CPUAlert, opts.MemoryAlert); len(alerts) > 0 {
		labels := make([]string, len(alerts))
		for i, a := range alerts {
			labels[i] = "[" + a + "]"
		}
		status += " | " + p.paint(bold+red, strings.Join(labels, " "))
	}
	fmt.Fprintf(&buf, "%s  %s\n", status, p.paint(dim, "Ctrl+C:Quit"))

	_, err := w.Write(buf.Bytes())
	return err
}

// ProcessTable writes only the process section of a frame.
func ProcessTable(w io.Writer, forest process.Forest, opts Options) error {
	var buf bytes.Buffer
	writeProcesses(&buf, painter(opts.Colors), forest, opts)
	_, err := w.Write(bytes.TrimPrefix(buf.Bytes(), []byte("\n")))
	return err
}

func writeHeader(buf *bytes.Buffer, p painter, h Host) {
	name := h.Hostname
	if name == "" {
		name = "localhost"
	}
	fmt.Fprintf(buf, "%s  %s\n", p.paint(bold+cobalt, "sysmon"), name)

	var parts []string
	for _, s := range []string{h.Platform, h.Kernel} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if h.CPUs > 0 {
		parts = append(parts, fmt.Sprintf("%d CPUs", h.CPUs))
	}
	if h.MemoryTotal > 0 {
		parts = append(parts, types.Bytes(h.MemoryTotal).Humanized())
	}
	if h.Cgroup != "" {
		parts = append(parts, h.Cgroup)
	}
	if h.Source != "" {
		parts = append(parts, "source "+h.Source)
	}
	if len(parts) > 0 {
		fmt.Fprintf(buf, "%s\n", p.paint(dim, strings.Join(parts, " | ")))
	}
	fmt.Fprintln(buf)
}

func writeProcesses(buf *bytes.Buffer, p painter, forest process.Forest, opts Options) {
	if opts.Order != nil {
		forest = forest.SortBy(opts.Order)
	}
	rows := forest.Flatten(process.FlattenOptions{Limit: opts.MaxProcesses, Expand: opts.Expand})

	fmt.Fprintf(buf, "\n%s\n", p.paint(bold, fmt.Sprintf("Processes (%d roots, %d total)", len(forest), forest.Len())))
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PID\tCPU%\tMemory\t  Name")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t  %s\n", r.PID, pct(r.CPUPercent),
			types.Bytes(r.MemoryBytes).Humanized(), treeLabel(r, opts.Expand))
	}
	tw.Flush()
}

// treeLabel indents the name by depth and marks nodes whose children are
// hidden with "+".
func treeLabel(r process.Row, expand bool) string {
	marker := "  "
	if r.NumChildren > 0 {
		marker = "- "
		if !expand && r.Depth > 0 {
			marker = "+ "
		}
	}
	return strings.Repeat("  ", r.Depth) + marker + r.Name
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

// bar draws a gauge of width cells filled to pct percent.
func bar(p painter, pct float64, width int) string {
	filled := int(util.ClampPercent(pct)/100*float64(width) + 0.5)
	return "[" + p.paint(usageColor(pct), strings.Repeat("|", filled)) + strings.Repeat(" ", width-filled) + "]"
}
