package export

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NarrativeRenderer renders comparison narratives (markdown) for terminals
type NarrativeRenderer struct {
	renderer *glamour.TermRenderer
}

// NewNarrativeRenderer creates a renderer. An empty style picks one from the
// terminal background; "notty" produces plain text.
func NewNarrativeRenderer(style string, width int) (*NarrativeRenderer, error) {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &NarrativeRenderer{renderer: renderer}, nil
}

// Render renders markdown, falling back to the raw text if rendering fails
func (r *NarrativeRenderer) Render(md string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = md
		}
	}()

	if r == nil || r.renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	rendered, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
