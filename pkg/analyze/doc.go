// Package analyze builds structural graphs of codebases.
//
// An analysis has two passes. The walk pass traverses the workspace
// directory tree, skipping hidden entries and anything matched by the
// .gitignore files in scope, and records folders and files as nodes
// connected by containment edges. The optional symbol pass starts a
// language server, waits for it to finish indexing and nests every
// file's hierarchical documentSymbol outline beneath the file node as
// Item nodes.
//
// The result is a containment forest ready for layout and rendering.
package analyze
