package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Serialized Geometry
// =============================================================================

// Layout is the serialization format for computed layouts.
//
// After a successful layout run there is exactly one rect per node ID
// and one line per edge ID of the graph it was computed from; lines are
// always derived from the rects they connect. Entries are sorted by ID
// for deterministic output.
//
// There is also an internal representation (pkg/layout.Layout)
// optimized for computation. Use its Export/Parse methods to convert
// between them.
type Layout struct {
	Rects []Rect `json:"rects" bson:"rects"`
	Lines []Line `json:"lines" bson:"lines"`
}

// Rect is a node's positioned rectangle: origin plus fixed display size.
type Rect struct {
	ID     int     `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Line is an edge's straight segment between the centers of its
// endpoint rectangles.
type Line struct {
	ID int     `json:"id" bson:"id"`
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
