// Package vectorstore persists embedded documents in sqlite and answers
// nearest-neighbour queries by cosine distance. It is the retrieval
// collaborator of the advice engine: rules are stored under a global user
// id, task snippets under the owning user's id.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Embedder turns texts into vectors. Implemented by llm.OllamaClient.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is one stored text with its scoping metadata.
type Document struct {
	ID        string `json:"id"`
	Module    string `json:"module"`
	Type      string `json:"type"` // "rule" or "task"
	UserID    string `json:"userId"`
	SourceRow *int   `json:"source_row,omitempty"`
	Content   string `json:"content"`
}

// Filter restricts a query to matching metadata. Empty fields match
// everything.
type Filter struct {
	Module string
	Type   string
	UserID string
}

// Result is one query hit with its cosine distance (0 = identical).
type Result struct {
	Doc      Document
	Distance float64
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	module     TEXT NOT NULL,
	doc_type   TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	source_row INTEGER,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_scope ON documents(module, doc_type, user_id);
`

// Store is a sqlite-backed vector store. Safe for concurrent use; sqlite
// serializes writers internally.
type Store struct {
	db       *sql.DB
	embedder Embedder
}

// Open opens (or creates) the store at path. Use ":memory:" for tests.
func Open(path string, embedder Embedder) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing store schema: %w", err)
	}
	return &Store{db: db, embedder: embedder}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add embeds the documents and upserts them. A document without an ID gets
// a fresh one.
func (s *Store) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := s.embedder.CreateEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, module, doc_type, user_id, source_row, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			module = excluded.module,
			doc_type = excluded.doc_type,
			user_id = excluded.user_id,
			source_row = excluded.source_row,
			content = excluded.content,
			embedding = excluded.embedding`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		var sourceRow interface{}
		if d.SourceRow != nil {
			sourceRow = *d.SourceRow
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Module, d.Type, d.UserID, sourceRow, d.Content, encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("storing document %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored documents matching the filter.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, args := f.clause()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...).Scan(&n)
	return n, err
}

// Query embeds text and returns the n closest matching documents by cosine
// distance, nearest first.
func (s *Store) Query(ctx context.Context, text string, n int, f Filter) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}

	vectors, err := s.embedder.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	query := vectors[0]

	where, args := f.clause()
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, module, doc_type, user_id, source_row, content, embedding FROM documents"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var d Document
		var sourceRow sql.NullInt64
		var blob []byte
		if err := rows.Scan(&d.ID, &d.Module, &d.Type, &d.UserID, &sourceRow, &d.Content, &blob); err != nil {
			return nil, err
		}
		if sourceRow.Valid {
			v := int(sourceRow.Int64)
			d.SourceRow = &v
		}
		results = append(results, Result{Doc: d, Distance: cosineDistance(query, decodeVector(blob))})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (f Filter) clause() (string, []interface{}) {
	where := ""
	var args []interface{}
	add := func(col, val string) {
		if val == "" {
			return
		}
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += col + " = ?"
		args = append(args, val)
	}
	add("module", f.Module)
	add("doc_type", f.Type)
	add("user_id", f.UserID)
	return where, args
}

// encodeVector packs a vector as little-endian float32 bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero vectors
// count as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

