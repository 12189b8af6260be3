package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	bolt "go.etcd.io/bbolt"

	"instagen/internal/types"
)

type bboltCredentialsStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltCredentialsStore) Load(ctx context.Context) (types.Credentials, error) {
	var creds types.Credentials
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCredentials)
		if b == nil {
			return nil
		}
		raw := b.Get(keyCredentials)
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, &creds); err != nil {
			// Treat unreadable stored credentials as absent.
			creds = types.Credentials{}
		}
		return nil
	})
	if err != nil {
		return types.Credentials{}, err
	}
	return creds, nil
}

func (s *bboltCredentialsStore) Save(ctx context.Context, creds types.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCredentials)
		if b == nil {
			return errors.New("credentials bucket missing")
		}
		return b.Put(keyCredentials, raw)
	})
}
