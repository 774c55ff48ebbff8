package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Renderer is the UI side of the indicator.
type Renderer interface {
	Render(label string, frame string)
	Clear()
}

// TerminalRenderer redraws a single line in place.
type TerminalRenderer struct {
	w io.Writer

	mu    sync.Mutex
	width int
}

func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w}
}

func (r *TerminalRenderer) Render(label string, frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := label + " " + frame
	if label == "" {
		line = frame
	}
	r.width = max(r.width, len(line))
	fmt.Fprint(r.w, "\r"+line)
}

func (r *TerminalRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width == 0 {
		return
	}
	fmt.Fprint(r.w, "\r"+strings.Repeat(" ", r.width)+"\r")
	r.width = 0
}
