package database

import (
	"fmt"
)

// DocumentStore is a key-value document layer over a single Postgres
// table: documents are addressed by collection name plus id and stored as
// JSONB. It backs the persistence mirror; the in-memory store stays
// authoritative and every write here is best-effort.
type DocumentStore struct {
	db DB
}

// NewDocumentStore creates a document store on the given connection.
func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *DocumentStore) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure documents schema: %w", err)
	}
	return nil
}

// GetAll returns the raw JSON documents of a collection.
func (s *DocumentStore) GetAll(collection string) ([][]byte, error) {
	query := `SELECT doc FROM documents WHERE collection = $1`
	rows, err := s.db.Query(query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection %s: %w", collection, err)
	}
	return docs, nil
}

// Set writes a full document, inserting or replacing by (collection, id).
func (s *DocumentStore) Set(collection, id string, doc []byte) error {
	query := `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	if _, err := s.db.Exec(query, collection, id, doc); err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges a partial document into an existing one. Missing
// documents are created from the partial alone, matching upsert
// semantics of the mirror contract.
func (s *DocumentStore) Update(collection, id string, partial []byte) error {
	query := `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = documents.doc || EXCLUDED.doc, updated_at = now()
	`
	if _, err := s.db.Exec(query, collection, id, partial); err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	return nil
}

// DeleteAll removes every document of a collection.
func (s *DocumentStore) DeleteAll(collection string) error {
	query := `DELETE FROM documents WHERE collection = $1`
	if _, err := s.db.Exec(query, collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}
