package render

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Screen clears and redraws a terminal. On a non-terminal writer frames are
// appended one after another.
type Screen struct {
	w     io.Writer
	tty   bool
	fd    int
	width int
}

// NewScreen wraps f, usually os.Stdout.
func NewScreen(f *os.File) *Screen {
	fd := int(f.Fd())
	return &Screen{w: f, fd: fd, tty: term.IsTerminal(fd)}
}

// IsTerminal reports whether the screen is attached to a terminal.
func (s *Screen) IsTerminal() bool { return s.tty }

// Width returns the terminal width in columns, or 0 when unknown.
func (s *Screen) Width() int {
	if !s.tty {
		return 0
	}
	if w, _, err := term.GetSize(s.fd); err == nil && w > 0 {
		s.width = w
	}
	return s.width
}

// Draw renders f, clearing the terminal first when attached to one.
func (s *Screen) Draw(f Frame, opts Options) error {
	if s.tty {
		if _, err := io.WriteString(s.w, "\033[H\033[2J"); err != nil {
			return err
		}
		opts.Width = s.Width()
	} else {
		opts.Colors = false
	}
	return Render(s.w, f, opts)
}
