package graph

// NodeData is the content of a node: a folder, a file, or a code item.
// It is a closed sum type - the only implementations are [Folder],
// [File] and [Item], and switches over NodeData are expected to be
// exhaustive over those three.
type NodeData interface {
	// DisplayName returns the human-readable label of the node.
	DisplayName() string

	isNodeData()
}

// Folder is a directory in the analyzed tree.
type Folder struct {
	Name string // display name (base name of the directory)
	Path string // path on disk
}

// File is a regular file in the analyzed tree.
type File struct {
	Name string // display name (base name of the file)
	Path string // path on disk
}

// Item is a code symbol inside a file: a function, type, method, and so
// on, as reported by the language server.
type Item struct {
	Name    string // display name (symbol name)
	Moniker string // stable symbol identifier, empty if unknown
}

func (f Folder) DisplayName() string { return f.Name }
func (f File) DisplayName() string   { return f.Name }
func (i Item) DisplayName() string   { return i.Name }

func (Folder) isNodeData() {}
func (File) isNodeData()   {}
func (Item) isNodeData()   {}
