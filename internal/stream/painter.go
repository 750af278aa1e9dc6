package stream

import (
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/a-abella/docklog/internal/model"
)

// Painter renders a container name in its session color: bold weight plus the
// token's ANSI foreground, with a reset after the name. Styles are built once
// per token and cached. The renderer profile is pinned to ANSI so the emitted
// escapes match the token codes even on terminals reporting a richer profile.
type Painter struct {
	renderer *lipgloss.Renderer

	// mu guards the style cache; workers paint concurrently.
	mu     sync.Mutex
	styles map[model.ColorToken]lipgloss.Style
}

func NewPainter(w io.Writer, noColor bool) *Painter {
	profile := termenv.ANSI
	if noColor {
		profile = termenv.Ascii
	}
	return &Painter{
		renderer: lipgloss.NewRenderer(w, termenv.WithProfile(profile)),
		styles:   make(map[model.ColorToken]lipgloss.Style),
	}
}

func (p *Painter) Paint(name string, token model.ColorToken) string {
	p.mu.Lock()
	style, ok := p.styles[token]
	if !ok {
		style = p.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(strconv.Itoa(ansiIndex(token))))
		p.styles[token] = style
	}
	p.mu.Unlock()
	return style.Render(name)
}

// ansiIndex maps an SGR foreground code to the equivalent ANSI color index:
// 31..35 to 1..5, 91..94 to 9..12.
func ansiIndex(token model.ColorToken) int {
	if token.Bright() {
		return int(token) - 91 + 9
	}
	return int(token) - 30
}
