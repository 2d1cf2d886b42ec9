// Package graph stores structural models of codebases and defines their
// serialization formats.
//
// # Architecture
//
// The package has two layers:
//
//   - [Store]: the in-memory arena. Nodes and edges are addressed by
//     opaque integer handles ([NodeID], [EdgeID]) that the store
//     allocates monotonically and never reuses. Forward and reverse
//     adjacency indices are maintained alongside the edge table.
//   - [Graph], [Layout]: the serialization types (JSON node-link
//     format, also BSON-taggable for document storage).
//
// Use [FromStore]/[ToStore] to convert between them. Restoring a
// serialized graph reproduces the original handles, so layouts keyed by
// those handles survive a round trip.
//
// # Data Model
//
// Node content is the closed sum type [NodeData] with three members:
// [Folder] and [File] carry a display name and a path, [Item] carries a
// display name and an optional moniker. Edges carry a [Relation]; the
// only relation today is [RelationIsParentOf], forming a containment
// forest: folders contain folders and files, files contain items, items
// contain nested items.
//
// # Common Operations
//
//	s := graph.NewStore()
//	root := s.AddNode(graph.Folder{Name: "proj", Path: "/src/proj"})
//	file := s.AddNode(graph.File{Name: "main.go", Path: "/src/proj/main.go"})
//	s.AddEdge(graph.EdgeData{From: root, To: file, Relation: graph.RelationIsParentOf})
//
//	graph.WriteGraphFile(s, "graph.json")
//	s2, _ := graph.ReadGraphFile("graph.json")
//
// # Concurrency
//
// A Store is safe for concurrent reads but not concurrent writes.
// Populate it fully, then treat it as frozen for layout and rendering.
package graph
