// Package retrieve persists chunk-level cell embeddings in a single-file
// SQLite database and serves dense and hybrid (dense+BM25) search over
// them, gated by sensitivity level and encryption policy (spec §4.I, §6).
package retrieve

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/docmodel"
)

// Store is the SQLite-backed retrieval store (spec §6 schema).
type Store struct {
	db   *sql.DB
	path string
}

// Open creates (or reuses) the database file at path and ensures the
// schema exists. A single connection is held open; callers serialize
// writes through the one-transaction-per-batch idiom in AddCells.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ctxerr.Wrapf(ctxerr.KindExternal, err, "create retrieval store directory %q", dir)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, ctxerr.Wrapf(ctxerr.KindExternal, err, "open retrieval store %q", path)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, ctxerr.Wrapf(ctxerr.KindExternal, err, "ping retrieval store %q", path)
	}
	s := &Store{db: db, path: path}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return ctxerr.Wrap(ctxerr.KindExternal, err, "apply retrieval store schema")
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// EnsureCollection returns the id of the named collection, creating it if
// it does not already exist.
func (s *Store) EnsureCollection(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM collections WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "look up collection")
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO collections (name) VALUES (?)`, name)
	if err != nil {
		return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "insert collection")
	}
	return res.LastInsertId()
}

// DocumentInsert describes a document to register under a collection.
type DocumentInsert struct {
	SourcePath string
	DcfPath    string
	Title      string
}

// DocumentRecord is the persisted form of DocumentInsert.
type DocumentRecord struct {
	ID         int64
	SourcePath string
}

// AddDocument registers doc under collectionID.
func (s *Store) AddDocument(ctx context.Context, collectionID int64, doc DocumentInsert) (DocumentRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection_id, source_path, dcf_path, title) VALUES (?, ?, ?, ?)`,
		collectionID, doc.SourcePath, doc.DcfPath, doc.Title,
	)
	if err != nil {
		return DocumentRecord{}, ctxerr.Wrap(ctxerr.KindExternal, err, "insert document")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return DocumentRecord{}, ctxerr.Wrap(ctxerr.KindExternal, err, "read inserted document id")
	}
	return DocumentRecord{ID: id, SourcePath: doc.SourcePath}, nil
}

// CellInsert is one row to persist, one per retrieval-indexed cell.
type CellInsert struct {
	Page          uint32
	Importance    uint8
	Sensitivity   string
	CellType      docmodel.CellType
	Text          *string
	TextEncrypted []byte
	Encryption    string
	Embedding     []float32
	BBoxX, BBoxY  int32
	BBoxW, BBoxH  uint32
}

// AddCells inserts cells for documentID in a single transaction, the way
// the teacher batches its RAG document writes.
func (s *Store) AddCells(ctx context.Context, documentID int64, cells []CellInsert) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "begin cell insert transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cells
		(document_id, page, importance, sensitivity, cell_type, text, text_encrypted, encryption, embedding, bbox_x, bbox_y, bbox_w, bbox_h)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "prepare cell insert")
	}
	defer stmt.Close()

	for _, c := range cells {
		var encryptedArg any
		if c.TextEncrypted != nil {
			encryptedArg = c.TextEncrypted
		}
		var encryptionArg any
		if c.Encryption != "" {
			encryptionArg = c.Encryption
		}
		var textArg any
		if c.Text != nil {
			textArg = *c.Text
		}
		sensitivity := NormalizeSensitivity(c.Sensitivity)
		_, err := stmt.ExecContext(ctx,
			documentID, c.Page, c.Importance, sensitivity, c.CellType.String(),
			textArg, encryptedArg, encryptionArg, embeddingToBlob(c.Embedding),
			c.BBoxX, c.BBoxY, c.BBoxW, c.BBoxH,
		)
		if err != nil {
			return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "insert cell")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, ctxerr.Wrap(ctxerr.KindExternal, err, "commit cell insert transaction")
	}
	return len(cells), nil
}

// embeddingToBlob encodes a float32 vector as native little-endian bytes
// (spec §6: "native little-endian f32").
func embeddingToBlob(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		bits := math.Float32bits(f)
		out[4*i] = byte(bits)
		out[4*i+1] = byte(bits >> 8)
		out[4*i+2] = byte(bits >> 16)
		out[4*i+3] = byte(bits >> 24)
	}
	return out
}

func blobToEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}
