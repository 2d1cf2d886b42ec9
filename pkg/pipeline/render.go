package pipeline

import (
	"context"
	"fmt"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/render"
)

// renderArtifacts produces the requested formats from one graph and
// layout. SVG and JSON are drawn from the force layout; DOT and PNG go
// through Graphviz, which applies its own layout.
func renderArtifacts(ctx context.Context, s *graph.Store, l layout.Layout, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatSVG:
			artifacts[format] = render.LayoutSVG(s, l)
		case FormatJSON:
			data, err := graph.MarshalLayout(l.Export())
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(s))
		case FormatPNG:
			data, err := render.RenderPNG(ctx, render.ToDOT(s))
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}
