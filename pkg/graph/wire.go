package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Wire Format - Graph Serialization
// =============================================================================

// Node kinds in the wire format.
const (
	KindFolder = "folder"
	KindFile   = "file"
	KindItem   = "item"
)

// Graph is the canonical serialization format for structural graphs.
// Used for graph.json files, API responses and cache entries.
//
// The format is designed for round-trip fidelity: a store serialized
// with [FromStore] and restored with [ToStore] assigns identical node
// and edge IDs, so a layout computed against one is valid against the
// other.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the serialized form of a node. Kind discriminates the
// payload: folder and file nodes carry Path, item nodes carry Moniker.
type Node struct {
	ID      int    `json:"id" bson:"id"`
	Kind    string `json:"kind" bson:"kind"`
	Name    string `json:"name" bson:"name"`
	Path    string `json:"path,omitempty" bson:"path,omitempty"`
	Moniker string `json:"moniker,omitempty" bson:"moniker,omitempty"`
}

// Edge is the serialized form of an edge.
type Edge struct {
	ID       int    `json:"id" bson:"id"`
	From     int    `json:"from" bson:"from"`
	To       int    `json:"to" bson:"to"`
	Relation string `json:"relation" bson:"relation"`
}

// =============================================================================
// Store ↔ Graph Conversion
// =============================================================================

// FromStore converts a store to its serialization format.
// Nodes and edges are emitted in ascending ID order for deterministic
// output.
func FromStore(s *Store) Graph {
	out := Graph{
		Nodes: make([]Node, 0, s.NodeCount()),
		Edges: make([]Edge, 0, s.EdgeCount()),
	}
	for _, id := range s.NodeIDs() {
		data, _ := s.Node(id)
		out.Nodes = append(out.Nodes, nodeFromData(id, data))
	}
	for _, id := range s.EdgeIDs() {
		e, _ := s.Edge(id)
		out.Edges = append(out.Edges, Edge{
			ID:       int(id),
			From:     int(e.From),
			To:       int(e.To),
			Relation: e.Relation.String(),
		})
	}
	return out
}

// ToStore converts a serialized graph back to a store. Nodes and edges
// are replayed in ID order, which reproduces the original IDs because a
// store assigns them densely from zero. Returns an error if the
// serialized IDs are not dense, an edge references an unknown node, or
// a kind/relation is unrecognized.
func ToStore(g Graph) (*Store, error) {
	s := NewStore()
	for i, n := range g.Nodes {
		data, err := dataFromNode(n)
		if err != nil {
			return nil, err
		}
		if id := s.AddNode(data); int(id) != n.ID {
			return nil, fmt.Errorf("node id %d out of sequence (expected %d)", n.ID, i)
		}
	}
	for i, e := range g.Edges {
		rel, err := relationFromString(e.Relation)
		if err != nil {
			return nil, err
		}
		id, err := s.AddEdge(EdgeData{From: NodeID(e.From), To: NodeID(e.To), Relation: rel})
		if err != nil {
			return nil, fmt.Errorf("add edge %d→%d: %w", e.From, e.To, err)
		}
		if int(id) != e.ID {
			return nil, fmt.Errorf("edge id %d out of sequence (expected %d)", e.ID, i)
		}
	}
	return s, nil
}

func nodeFromData(id NodeID, data NodeData) Node {
	n := Node{ID: int(id), Name: data.DisplayName()}
	switch d := data.(type) {
	case Folder:
		n.Kind = KindFolder
		n.Path = d.Path
	case File:
		n.Kind = KindFile
		n.Path = d.Path
	case Item:
		n.Kind = KindItem
		n.Moniker = d.Moniker
	}
	return n
}

func dataFromNode(n Node) (NodeData, error) {
	switch n.Kind {
	case KindFolder:
		return Folder{Name: n.Name, Path: n.Path}, nil
	case KindFile:
		return File{Name: n.Name, Path: n.Path}, nil
	case KindItem:
		return Item{Name: n.Name, Moniker: n.Moniker}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

func relationFromString(s string) (Relation, error) {
	switch s {
	case RelationIsParentOf.String():
		return RelationIsParentOf, nil
	default:
		return 0, fmt.Errorf("unknown relation %q", s)
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a store to pretty-printed JSON bytes.
func MarshalGraph(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// WriteGraph writes a store as JSON to w.
func WriteGraph(s *Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromStore(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r into a store.
func ReadGraph(r io.Reader) (*Store, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToStore(g)
}

// WriteGraphFile writes a store to a JSON file with 0644 permissions.
func WriteGraphFile(s *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(s, f)
}

// ReadGraphFile reads a JSON file and returns the restored store.
func ReadGraphFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
