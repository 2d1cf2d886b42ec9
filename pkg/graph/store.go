package graph

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [Store.AddEdge] when the From node
	// does not exist in the store.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Store.AddEdge] when the To node
	// does not exist in the store.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeID identifies a node for the lifetime of a Store.
// IDs are opaque, monotonically increasing and never reused. They are
// assigned exclusively by [Store.AddNode]; sharing IDs across stores is
// a caller error.
type NodeID int

// EdgeID identifies an edge for the lifetime of a Store.
// Like node IDs, edge IDs are assigned exclusively by [Store.AddEdge]
// and never reused.
type EdgeID int

// Relation describes how an edge's source relates to its target.
// It is a closed enumeration with a single member today; new relation
// kinds (references, implements, ...) are expected to be added, so it
// must not be collapsed into a boolean.
type Relation int

const (
	// RelationIsParentOf means the source node contains the target node:
	// a folder contains a file, a file contains an item, an item contains
	// a nested item.
	RelationIsParentOf Relation = iota
)

// String returns the wire name of the relation.
func (r Relation) String() string {
	switch r {
	case RelationIsParentOf:
		return "is_parent_of"
	default:
		return "unknown"
	}
}

// EdgeData is a directed relation between two nodes in the same store.
type EdgeData struct {
	From     NodeID
	To       NodeID
	Relation Relation
}

// Store holds a structural model of a codebase as an arena of nodes and
// edges addressed by integer handles. All graph state lives in the
// store's internal maps; nodes never point at each other directly, which
// keeps the structure trivially snapshot-able and free of ownership
// cycles.
//
// A Store is built once per analysis run and treated as frozen once
// layout begins. It is not safe for concurrent mutation; concurrent
// reads are fine.
type Store struct {
	nodes    map[NodeID]NodeData
	edges    map[EdgeID]EdgeData
	outgoing map[NodeID][]EdgeID // edges with this node as source
	incoming map[NodeID][]EdgeID // edges with this node as target
	nextNode NodeID
	nextEdge EdgeID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[NodeID]NodeData),
		edges:    make(map[EdgeID]EdgeData),
		outgoing: make(map[NodeID][]EdgeID),
		incoming: make(map[NodeID][]EdgeID),
	}
}

// AddNode inserts a node and returns its freshly assigned ID.
func (s *Store) AddNode(data NodeData) NodeID {
	id := s.nextNode
	s.nextNode++
	s.nodes[id] = data
	s.outgoing[id] = nil
	s.incoming[id] = nil
	return id
}

// AddEdge inserts a directed edge between two existing nodes and returns
// its freshly assigned ID. Both adjacency indices are updated. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint has not
// been allocated by this store.
func (s *Store) AddEdge(e EdgeData) (EdgeID, error) {
	if _, ok := s.nodes[e.From]; !ok {
		return 0, ErrUnknownSourceNode
	}
	if _, ok := s.nodes[e.To]; !ok {
		return 0, ErrUnknownTargetNode
	}
	id := s.nextEdge
	s.nextEdge++
	s.edges[id] = e
	s.outgoing[e.From] = append(s.outgoing[e.From], id)
	s.incoming[e.To] = append(s.incoming[e.To], id)
	return id, nil
}

// Node returns the node data for id and true, or the zero value and
// false if the id is unknown. An absent id is never fatal.
func (s *Store) Node(id NodeID) (NodeData, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge returns the edge for id and true, or the zero value and false if
// the id is unknown.
func (s *Store) Edge(id EdgeID) (EdgeData, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// OutgoingEdges returns the IDs of edges whose source is id.
// The returned slice is a read-only view; callers must not modify it.
func (s *Store) OutgoingEdges(id NodeID) []EdgeID { return s.outgoing[id] }

// IncomingEdges returns the IDs of edges whose target is id.
// The returned slice is a read-only view; callers must not modify it.
func (s *Store) IncomingEdges(id NodeID) []EdgeID { return s.incoming[id] }

// Neighbors returns the targets of all outgoing edges of id.
func (s *Store) Neighbors(id NodeID) []NodeID {
	edges := s.outgoing[id]
	if edges == nil {
		return nil
	}
	targets := make([]NodeID, len(edges))
	for i, eid := range edges {
		targets[i] = s.edges[eid].To
	}
	return targets
}

// Children returns the targets of outgoing RelationIsParentOf edges of id.
func (s *Store) Children(id NodeID) []NodeID {
	var children []NodeID
	for _, eid := range s.outgoing[id] {
		if e := s.edges[eid]; e.Relation == RelationIsParentOf {
			children = append(children, e.To)
		}
	}
	return children
}

// NodeIDs returns all node IDs in ascending order. Because IDs are
// assigned monotonically, this equals insertion order, but callers must
// not attach meaning to the ordering beyond determinism.
func (s *Store) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EdgeIDs returns all edge IDs in ascending order.
func (s *Store) EdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, len(s.edges))
	for id := range s.edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() int { return len(s.edges) }
