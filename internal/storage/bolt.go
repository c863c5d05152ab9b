package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

var sessionsBucket = []byte("sessions")

// Compile-time interface check.
var _ domain.SessionStore = (*BoltStore)(nil)

// BoltStore keeps sessions in a BoltDB file, one JSON document per
// session keyed by ID.
type BoltStore struct {
	db  *bolt.DB
	log *logger.Logger
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string, log *logger.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	log.Info("session db opened at %s", path)
	return &BoltStore{db: db, log: log}, nil
}

// Close releases the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save persists a session. Overwrites if it already exists.
func (s *BoltStore) Save(ctx context.Context, session *domain.Session) error {
	js, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}

	s.log.Debug("saving session %s (%d bytes)", session.ID, len(js))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), js)
	})
}

// Load retrieves a session by ID.
func (s *BoltStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(sessionsBucket).Get([]byte(id))
		if bs == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(bs, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete removes a session by ID.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		key := []byte(id)
		if b.Get(key) == nil {
			return domain.ErrNotFound
		}
		s.log.Debug("deleted session %s", id)
		return b.Delete(key)
	})
}

// ListActive returns all active sessions, oldest first.
func (s *BoltStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	out, err := s.list(domain.SessionActive)
	if err != nil {
		return nil, err
	}
	sortSessions(out)
	s.log.Debug("listing active sessions, count=%d", len(out))
	return out, nil
}

// ListFinished returns all finished sessions, most recently served first.
func (s *BoltStore) ListFinished(ctx context.Context) ([]*domain.Session, error) {
	out, err := s.list(domain.SessionFinished)
	if err != nil {
		return nil, err
	}
	sortServed(out)
	s.log.Debug("listing finished sessions, count=%d", len(out))
	return out, nil
}

func (s *BoltStore) list(status domain.SessionStatus) ([]*domain.Session, error) {
	var out []*domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			var sess domain.Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("decoding session %s: %w", k, err)
			}
			if sess.Status == status {
				out = append(out, &sess)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
