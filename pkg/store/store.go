// Package store persists analyzed graphs and their layouts for the
// HTTP server.
//
// A [Document] bundles one analyzed graph with its optional layout
// under a UUID. Two backends are provided: [MemoryStore] for tests and
// single-process serving, and [MongoStore] for durable deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

// ErrNotFound is returned when no document exists for an ID.
var ErrNotFound = errors.New("document not found")

// Document is one stored analysis result.
type Document struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Graph     graph.Graph   `json:"graph" bson:"graph"`
	Layout    *graph.Layout `json:"layout,omitempty" bson:"layout,omitempty"`
}

// NewDocument creates a document with a fresh UUID and creation time.
func NewDocument(name string, g graph.Graph) Document {
	return Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Graph:     g,
	}
}

// Store persists documents.
type Store interface {
	// Put inserts or replaces a document by ID.
	Put(ctx context.Context, doc Document) error

	// Get retrieves a document. Returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (Document, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]Document, error)

	// Delete removes a document. Deleting an absent ID returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
