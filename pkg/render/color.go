package render

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[38;5;196m"
	yellow = "\033[38;5;226m"
	green  = "\033[38;5;46m"
	cobalt = "\033[38;5;33m"
)

// usageColor maps a percentage to green below 60, yellow below 80, red above.
func usageColor(pct float64) string {
	switch {
	case pct < 60:
		return green
	case pct < 80:
		return yellow
	default:
		return red
	}
}

type painter bool

func (p painter) paint(color, s string) string {
	if !p || s == "" {
		return s
	}
	return color + s + reset
}
