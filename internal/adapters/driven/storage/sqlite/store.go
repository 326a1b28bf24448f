package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/vectorcodec"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// maxParams bounds the IN list of a single GetByIDs query.
const maxParams = 500

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recall/data/recall.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recall.db")

	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InsertIfAbsent stores content unless identical content already exists.
// The insert and the lookup of an existing row share one transaction.
func (s *Store) InsertIfAbsent(ctx context.Context, content string, vector []float32) (domain.InsertResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.InsertResult{}, wrap("begin insert", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (content, vector, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(content) DO NOTHING`,
		content, vectorcodec.Encode(vector), time.Now().UnixMilli())
	if err != nil {
		return domain.InsertResult{}, wrap("insert document", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InsertResult{}, wrap("insert document", err)
	}

	var result domain.InsertResult
	if affected == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return domain.InsertResult{}, wrap("insert document", err)
		}
		result = domain.InsertResult{Created: true, ID: domain.DocumentID(id)}
	} else {
		var id int64
		row := tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE content = ?", content)
		if err := row.Scan(&id); err != nil {
			return domain.InsertResult{}, wrap("find existing document", err)
		}
		result = domain.InsertResult{Created: false, ID: domain.DocumentID(id)}
	}

	if err := tx.Commit(); err != nil {
		return domain.InsertResult{}, wrap("commit insert", err)
	}
	return result, nil
}

// GetByIDs returns the content of the requested documents that exist.
func (s *Store) GetByIDs(ctx context.Context, ids []domain.DocumentID) (map[domain.DocumentID]string, error) {
	result := make(map[domain.DocumentID]string, len(ids))

	for start := 0; start < len(ids); start += maxParams {
		end := min(start+maxParams, len(ids))
		batch := ids[start:end]

		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = int64(id)
		}
		query := "SELECT id, content FROM documents WHERE id IN (?" +
			strings.Repeat(", ?", len(batch)-1) + ")"

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, wrap("get documents", err)
		}
		for rows.Next() {
			var id int64
			var content string
			if err := rows.Scan(&id, &content); err != nil {
				rows.Close()
				return nil, wrap("scan document", err)
			}
			result[domain.DocumentID(id)] = content
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, wrap("get documents", err)
		}
	}

	return result, nil
}

// GetAllIDsAndVectors returns every (id, vector) pair ordered by id,
// read inside a single transaction.
func (s *Store) GetAllIDsAndVectors(ctx context.Context) ([]domain.IndexEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin snapshot", err)
	}
	defer tx.Rollback() //nolint:errcheck // nothing to commit

	rows, err := tx.QueryContext(ctx, "SELECT id, vector FROM documents ORDER BY id")
	if err != nil {
		return nil, wrap("read vectors", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, wrap("scan vector", err)
		}
		vec, err := vectorcodec.Decode(blob)
		if err != nil {
			return nil, wrap(fmt.Sprintf("decode vector of document %d", id), err)
		}
		entries = append(entries, domain.IndexEntry{ID: domain.DocumentID(id), Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("read vectors", err)
	}
	return entries, nil
}

// List returns every document ordered by id.
func (s *Store) List(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.Each(ctx, func(doc domain.Document) error {
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Each streams documents ordered by id from a single query.
func (s *Store) Each(ctx context.Context, fn func(domain.Document) error) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, vector, created_at FROM documents ORDER BY id")
	if err != nil {
		return wrap("list documents", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return wrap("list documents", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, wrap("count documents", err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_documents.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var (
		id        int64
		content   string
		blob      []byte
		createdAt int64
	)
	if err := row.Scan(&id, &content, &blob, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, wrap("scan document", err)
	}
	vec, err := vectorcodec.Decode(blob)
	if err != nil {
		return domain.Document{}, wrap(fmt.Sprintf("decode vector of document %d", id), err)
	}
	return domain.Document{
		ID:        domain.DocumentID(id),
		Content:   content,
		Vector:    vec,
		CreatedAt: time.UnixMilli(createdAt),
	}, nil
}

// wrap classifies a database error as a storage failure.
// Context cancellation is passed through unchanged.
func wrap(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
