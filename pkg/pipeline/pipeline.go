// Package pipeline provides the core analysis pipeline for lspgraph.
//
// This package implements the complete analyze → layout → render
// pipeline used by both the CLI and the HTTP server. Centralizing it
// keeps behavior and caching identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Analyze: walk the workspace and collect language server symbols
//  2. Layout: compute force-directed positions for the graph
//  3. Render: generate output in various formats (SVG, DOT, PNG, JSON)
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    RootPath:      "/path/to/workspace",
//	    ServerCommand: "rust-analyzer",
//	    Extensions:    []string{"rs"},
//	    Formats:       []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/cache"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// DefaultFormats is used when no formats are requested.
var DefaultFormats = []string{FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analyze options
	RootPath      string   `json:"root_path"`
	ServerCommand string   `json:"server_command,omitempty"`
	ServerArgs    []string `json:"server_args,omitempty"`
	Extensions    []string `json:"extensions,omitempty"`
	SkipSymbols   bool     `json:"skip_symbols,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"`

	// Layout options
	SpringLength  float64 `json:"spring_length,omitempty"`
	Threshold     float64 `json:"threshold,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Store is the analyzed structural graph.
	Store *graph.Store

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Layout contains the computed geometry.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	AnalyzeTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the graph came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, dot, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAnalyze checks required fields for workspace analysis.
func (o *Options) ValidateForAnalyze() error {
	if o.RootPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "root_path is required")
	}
	if o.ServerCommand != "" {
		if err := errors.ValidateServerCommand(o.ServerCommand); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.SpringLength <= 0 {
		o.SpringLength = layout.DefaultSpringLength
	}
	if o.Threshold <= 0 {
		o.Threshold = layout.DefaultThreshold
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = layout.DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutOptions converts the pipeline options to engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		SpringLength:  o.SpringLength,
		Threshold:     o.Threshold,
		MaxIterations: o.MaxIterations,
	}
}

// GraphKeyOpts returns cache key options for workspace analysis.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		ServerCommand: o.ServerCommand,
		Extensions:    o.Extensions,
		SkipSymbols:   o.SkipSymbols,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		SpringLength:  o.SpringLength,
		Threshold:     o.Threshold,
		MaxIterations: o.MaxIterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}
