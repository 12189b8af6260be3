package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"instagen/internal/types"
)

var (
	bucketHistory     = []byte("post_history")
	bucketCredentials = []byte("credentials")
	keyHistory        = []byte("records")
	keyCredentials    = []byte("keys")
)

// HistoryStore persists the capped, newest-first list of published posts.
type HistoryStore interface {
	List(ctx context.Context) ([]*types.HistoryRecord, error)
	Record(ctx context.Context, record *types.HistoryRecord) (*types.HistoryRecord, error)
	Clear(ctx context.Context) error
}

// CredentialsStore persists the optional remote-operation secrets.
type CredentialsStore interface {
	Load(ctx context.Context) (types.Credentials, error)
	Save(ctx context.Context, creds types.Credentials) error
}

type Repository interface {
	History() HistoryStore
	Credentials() CredentialsStore
	Close() error
}

type bboltRepository struct {
	db          *bolt.DB
	history     HistoryStore
	credentials CredentialsStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{
		db:          db,
		history:     &bboltHistoryStore{db: db},
		credentials: &bboltCredentialsStore{db: db},
	}, nil
}

func (r *bboltRepository) History() HistoryStore {
	return r.history
}

func (r *bboltRepository) Credentials() CredentialsStore {
	return r.credentials
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketHistory); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketCredentials); err != nil {
			return err
		}
		return nil
	})
}
