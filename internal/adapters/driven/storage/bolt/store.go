// Package bolt provides a bbolt implementation of driven.DocumentStore.
//
// Documents are kept in three buckets keyed by the big-endian document ID:
// "documents" holds the content and creation time, "vectors" holds the
// encoded embedding. A third bucket, "content", maps the SHA-256 of a
// document's content to its ID and enforces uniqueness. IDs come from the
// documents bucket's sequence, so they increase monotonically and are never
// reused. Every write runs in a single bbolt transaction.
package bolt

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/recall/internal/adapters/driven/storage/vectorcodec"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

var (
	bucketDocs    = []byte("documents")
	bucketVectors = []byte("vectors")
	bucketContent = []byte("content")
)

var errCorrupt = errors.New("bolt store is missing a bucket")

type record struct {
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// Store is a bbolt-backed document store.
type Store struct {
	db   *bbolt.DB
	path string
}

// NewStore opens or creates recall.bolt in dataDir.
// If dataDir is empty, defaults to ~/.recall/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "recall.bolt")
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketVectors, bucketContent} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InsertIfAbsent stores content unless identical content already exists.
func (s *Store) InsertIfAbsent(ctx context.Context, content string, vector []float32) (domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.InsertResult{}, err
	}

	var result domain.InsertResult
	err := s.db.Update(func(tx *bbolt.Tx) error {
		docs, vectors, contents := tx.Bucket(bucketDocs), tx.Bucket(bucketVectors), tx.Bucket(bucketContent)
		if docs == nil || vectors == nil || contents == nil {
			return errCorrupt
		}

		hash := contentKey(content)
		if existing := contents.Get(hash); existing != nil {
			id := decodeID(existing)
			rec, err := getRecord(docs, existing)
			if err != nil {
				return err
			}
			if rec.Content != content {
				return fmt.Errorf("content hash collision with document %d", id)
			}
			result = domain.InsertResult{Created: false, ID: id}
			return nil
		}

		seq, err := docs.NextSequence()
		if err != nil {
			return err
		}
		key := encodeID(domain.DocumentID(seq))

		data, err := json.Marshal(record{Content: content, CreatedAt: time.Now().UnixMilli()})
		if err != nil {
			return err
		}
		if err := docs.Put(key, data); err != nil {
			return err
		}
		if err := vectors.Put(key, vectorcodec.Encode(vector)); err != nil {
			return err
		}
		if err := contents.Put(hash, key); err != nil {
			return err
		}

		result = domain.InsertResult{Created: true, ID: domain.DocumentID(seq)}
		return nil
	})
	if err != nil {
		return domain.InsertResult{}, wrap("insert document", err)
	}
	return result, nil
}

// GetByIDs returns the content of the requested documents that exist.
func (s *Store) GetByIDs(_ context.Context, ids []domain.DocumentID) (map[domain.DocumentID]string, error) {
	result := make(map[domain.DocumentID]string, len(ids))
	err := s.db.View(func(tx *bbolt.Tx) error {
		docs := tx.Bucket(bucketDocs)
		if docs == nil {
			return errCorrupt
		}
		for _, id := range ids {
			if docs.Get(encodeID(id)) == nil {
				continue
			}
			rec, err := getRecord(docs, encodeID(id))
			if err != nil {
				return err
			}
			result[id] = rec.Content
		}
		return nil
	})
	if err != nil {
		return nil, wrap("get documents", err)
	}
	return result, nil
}

// GetAllIDsAndVectors returns every (id, vector) pair ordered by id.
// Big-endian keys make cursor order equal id order.
func (s *Store) GetAllIDsAndVectors(_ context.Context) ([]domain.IndexEntry, error) {
	var entries []domain.IndexEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		vectors := tx.Bucket(bucketVectors)
		if vectors == nil {
			return errCorrupt
		}
		return vectors.ForEach(func(k, v []byte) error {
			vec, err := vectorcodec.Decode(v)
			if err != nil {
				return fmt.Errorf("decode vector of document %d: %w", decodeID(k), err)
			}
			entries = append(entries, domain.IndexEntry{ID: decodeID(k), Vector: vec})
			return nil
		})
	})
	if err != nil {
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

// Each walks the documents bucket in key order inside one read transaction.
func (s *Store) Each(_ context.Context, fn func(domain.Document) error) error {
	var fnErr error
	err := s.db.View(func(tx *bbolt.Tx) error {
		docBucket, vectors := tx.Bucket(bucketDocs), tx.Bucket(bucketVectors)
		if docBucket == nil || vectors == nil {
			return errCorrupt
		}
		return docBucket.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			vec, err := vectorcodec.Decode(vectors.Get(k))
			if err != nil {
				return err
			}
			fnErr = fn(domain.Document{
				ID:        decodeID(k),
				Content:   rec.Content,
				Vector:    vec,
				CreatedAt: time.UnixMilli(rec.CreatedAt),
			})
			return fnErr
		})
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return wrap("list documents", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		docs := tx.Bucket(bucketDocs)
		if docs == nil {
			return errCorrupt
		}
		n = docs.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, wrap("count documents", err)
	}
	return n, nil
}

func getRecord(docs *bbolt.Bucket, key []byte) (record, error) {
	var rec record
	data := docs.Get(key)
	if data == nil {
		return rec, fmt.Errorf("document %d: %w", decodeID(key), domain.ErrNotFound)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode document %d: %w", decodeID(key), err)
	}
	return rec, nil
}

func contentKey(content string) []byte {
	sum := sha256.Sum256([]byte(content))
	return sum[:]
}

func encodeID(id domain.DocumentID) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func decodeID(b []byte) domain.DocumentID {
	if len(b) != 8 {
		return 0
	}
	return domain.DocumentID(binary.BigEndian.Uint64(b))
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
