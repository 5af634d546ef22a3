package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"go.etcd.io/bbolt"
)

const (
	savesBucket  = "saves"
	eventsBucket = "events"
)

// BoltStore keeps saves and the journal in a single BoltDB file. It implements
// both SaveRepository and EventRepository.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens a BoltDB-backed store at the provided path.
func OpenBolt(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &BoltStore{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists a save slot.
func (s *BoltStore) Save(ctx context.Context, snap save.Snapshot) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := save.ValidateName(snap.Name); err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	snap.SavedAt = snap.SavedAt.UTC()

	payload, err := json.Marshal(snap)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "marshal save", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(savesBucket))
		if bucket == nil {
			return fmt.Errorf("saves bucket is missing")
		}
		return bucket.Put([]byte(snap.Name), payload)
	})
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to write save "+snap.Name, err)
	}
	return nil
}

// Load fetches a save slot by name.
func (s *BoltStore) Load(ctx context.Context, name string) (save.Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return save.Snapshot{}, err
	}

	var snap save.Snapshot
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(savesBucket))
		if bucket == nil {
			return fmt.Errorf("saves bucket is missing")
		}
		payload := bucket.Get([]byte(name))
		if payload == nil {
			return nil
		}
		found = true
		if err := json.Unmarshal(payload, &snap); err != nil {
			return shellerrors.Wrap(shellerrors.CodeDataIntegrity, "corrupt save "+name, err)
		}
		return nil
	})
	if err != nil {
		if shellerrors.HasCode(err, shellerrors.CodeDataIntegrity) {
			return save.Snapshot{}, err
		}
		return save.Snapshot{}, shellerrors.Wrap(shellerrors.CodePersistence, "failed to read save "+name, err)
	}
	if !found {
		return save.Snapshot{}, shellerrors.New(shellerrors.CodeNotFound, fmt.Sprintf("no save named %q", name))
	}
	return snap, nil
}

// List returns every save slot, most recent first.
func (s *BoltStore) List(ctx context.Context) ([]save.Info, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var infos []save.Info
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(savesBucket))
		if bucket == nil {
			return fmt.Errorf("saves bucket is missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var snap save.Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("unmarshal save %s: %w", k, err)
			}
			infos = append(infos, snap.Info())
			return nil
		})
	})
	if err != nil {
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "failed to list saves", err)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

// Append adds an event to the save's journal. Each save has its own nested
// bucket keyed by a big-endian sequence number, so iteration is append order.
func (s *BoltStore) Append(ctx context.Context, event GameEvent) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "marshal event", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(eventsBucket))
		if root == nil {
			return fmt.Errorf("events bucket is missing")
		}
		bucket, err := root.CreateBucketIfNotExists([]byte(event.SaveName))
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(sequenceKey(seq), payload)
	})
	if err != nil {
		return shellerrors.Wrap(shellerrors.CodePersistence, "failed to append event", err)
	}
	return nil
}

// GetBySave returns a save's journal in append order.
func (s *BoltStore) GetBySave(ctx context.Context, saveName string) ([]GameEvent, error) {
	return s.scan(ctx, saveName, func(GameEvent) bool { return true })
}

// GetByEventType returns a save's events of one type in append order.
func (s *BoltStore) GetByEventType(ctx context.Context, saveName, eventType string) ([]GameEvent, error) {
	return s.scan(ctx, saveName, func(e GameEvent) bool { return e.EventType == eventType })
}

func (s *BoltStore) scan(ctx context.Context, saveName string, keep func(GameEvent) bool) ([]GameEvent, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var out []GameEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(eventsBucket))
		if root == nil {
			return fmt.Errorf("events bucket is missing")
		}
		bucket := root.Bucket([]byte(saveName))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var e GameEvent
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal event: %w", err)
			}
			if keep(e) {
				out = append(out, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, shellerrors.Wrap(shellerrors.CodePersistence, "failed to read journal", err)
	}
	return out, nil
}

func (s *BoltStore) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return shellerrors.New(shellerrors.CodePersistence, "storage is not configured")
	}
	return nil
}

func (s *BoltStore) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{savesBucket, eventsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
