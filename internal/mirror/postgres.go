package mirror

import (
	"github.com/gatewise/vms-backend/internal/database"
)

// PostgresBackend adapts the JSONB document store to the mirror backend
// contract.
type PostgresBackend struct {
	docs *database.DocumentStore
}

// NewPostgresBackend wraps a document store as a mirror backend.
func NewPostgresBackend(docs *database.DocumentStore) *PostgresBackend {
	return &PostgresBackend{docs: docs}
}

// GetAll returns all documents of a collection.
func (b *PostgresBackend) GetAll(collection string) ([][]byte, error) {
	return b.docs.GetAll(collection)
}

// Set writes a full document.
func (b *PostgresBackend) Set(collection, id string, doc []byte) error {
	return b.docs.Set(collection, id, doc)
}

// Update merges a partial document.
func (b *PostgresBackend) Update(collection, id string, partial []byte) error {
	return b.docs.Update(collection, id, partial)
}

// DeleteAll removes a collection.
func (b *PostgresBackend) DeleteAll(collection string) error {
	return b.docs.DeleteAll(collection)
}
