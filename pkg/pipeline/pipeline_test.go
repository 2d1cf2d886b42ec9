package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/cache"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
)

func writeWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range map[string]string{
		"src/main.rs": "fn main() {}",
		"src/lib.rs":  "",
		"Cargo.toml":  "[package]",
	} {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatSVG, FormatDOT, FormatPNG, FormatJSON}); err != nil {
		t.Errorf("ValidateFormats() error = %v for valid formats", err)
	}
	err := ValidateFormat("pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) error = %v, want INVALID_FORMAT", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("ValidateAndSetDefaults() = nil without root_path, want error")
	}

	o = Options{RootPath: "/work"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if o.SpringLength != 50 || o.Threshold != 0.1 || o.MaxIterations != 50000 {
		t.Errorf("layout defaults = %g/%g/%d, want 50/0.1/50000", o.SpringLength, o.Threshold, o.MaxIterations)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Logger == nil {
		t.Error("Logger not defaulted")
	}

	o = Options{RootPath: "/work", Formats: []string{"pdf"}}
	if err := o.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	root := writeWorkspace(t)
	runner := NewRunner(cache.NewNullCache(), nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		RootPath:      root,
		SkipSymbols:   true,
		MaxIterations: 100,
		Formats:       []string{FormatSVG, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Root + src + 2 rust files + Cargo.toml.
	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if len(result.Layout.Rects) != 5 || len(result.Layout.Lines) != 4 {
		t.Errorf("layout = %d rects, %d lines, want 5 and 4", len(result.Layout.Rects), len(result.Layout.Lines))
	}
	for _, format := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %q is empty", format)
		}
	}
	if result.CacheInfo.AnalyzeHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v with NullCache, want all misses", result.CacheInfo)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	root := writeWorkspace(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		RootPath:      root,
		SkipSymbols:   true,
		MaxIterations: 100,
		Formats:       []string{FormatSVG},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.AnalyzeHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.AnalyzeHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the graph cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute() error = %v", err)
	}
	if third.CacheInfo.AnalyzeHit {
		t.Error("AnalyzeHit = true with Refresh")
	}
}

func TestRoundTrippedGraphPreservesLayoutKeys(t *testing.T) {
	// A cached graph restored via the wire format must produce the same
	// layout cache key as the freshly analyzed one.
	root := writeWorkspace(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{RootPath: root, SkipSymbols: true, MaxIterations: 50}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.GraphHash != second.GraphHash {
		t.Errorf("graph hash changed across cache round trip: %s vs %s", first.GraphHash, second.GraphHash)
	}
}
