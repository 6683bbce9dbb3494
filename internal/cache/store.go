// Package cache keeps a history of committed manifests in BadgerDB, keyed
// by the canonical manifest path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// ErrNotFound indicates no manifest was recorded for a target
var ErrNotFound = errors.New("no manifest recorded")

// DefaultMaxHistory is the number of records kept per target
const DefaultMaxHistory = 20

// Record is one committed manifest
type Record struct {
	Target      string    `json:"target"`
	Seq         uint64    `json:"seq"`
	Digest      string    `json:"digest"`
	Content     []byte    `json:"content"`
	CommittedAt time.Time `json:"committed_at"`
}

// Options contains store configuration options
type Options struct {
	Directory string
	InMemory  bool
	// MaxHistory bounds the records kept per target; zero uses the default
	MaxHistory int
	Logger     *utils.Logger
}

// DefaultOptions returns default store options
func DefaultOptions() Options {
	return Options{MaxHistory: DefaultMaxHistory}
}

// Store is a manifest history backed by BadgerDB
type Store struct {
	db         *badger.DB
	maxHistory int
	logger     *utils.Logger
	stop       chan struct{}
}

// NewStore opens the store
func NewStore(opts Options) (*Store, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = filepath.Join(homeDir, ".assetmanifest", "history")
		}

		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}

	s := &Store{
		db:         db,
		maxHistory: opts.MaxHistory,
		logger:     opts.Logger.OrNop().WithComponent("cache"),
		stop:       make(chan struct{}),
	}

	if !opts.InMemory {
		go s.gc()
	}

	return s, nil
}

func (s *Store) gc() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			_ = s.db.RunValueLogGC(0.5)
		}
	}
}

// Record stores content as the latest manifest of target. Content equal
// to the latest record is not stored again; changed reports whether a new
// record was written.
func (s *Store) Record(ctx context.Context, target string, content []byte) (rec *Record, changed bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	target = utils.CanonicalPath(target)
	digest := Digest(content)

	err = s.db.Update(func(txn *badger.Txn) error {
		latest, err := getRecord(txn, LatestKey(target))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if latest != nil && latest.Digest == digest {
			rec = latest
			return nil
		}

		rec = &Record{
			Target:      target,
			Digest:      digest,
			Content:     content,
			CommittedAt: time.Now().UTC(),
		}
		if latest != nil {
			rec.Seq = latest.Seq + 1
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(LatestKey(target), data); err != nil {
			return err
		}
		if err := txn.Set(HistoryKey(target, rec.Seq), data); err != nil {
			return err
		}
		if rec.Seq >= uint64(s.maxHistory) {
			if err := txn.Delete(HistoryKey(target, rec.Seq-uint64(s.maxHistory))); err != nil {
				return err
			}
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.Debug().
		Str("target", target).
		Uint64("seq", rec.Seq).
		Bool("changed", changed).
		Msg("Manifest recorded")

	return rec, changed, nil
}

// Latest returns the most recent record of target
func (s *Store) Latest(ctx context.Context, target string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, LatestKey(target))
		return err
	})
	return rec, err
}

// History returns up to limit records of target, newest first. A limit
// of zero returns every kept record.
func (s *Store) History(ctx context.Context, target string, limit int) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := HistoryPrefix(target)
	var records []*Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append(append([]byte{}, prefix...), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, &rec)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Targets returns the target of every recorded manifest
func (s *Store) Targets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var targets []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PrefixLatest + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			targets = append(targets, rec.Target)
		}
		return nil
	})
	return targets, err
}

// Delete removes every record of target
func (s *Store) Delete(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropPrefix(HistoryPrefix(target)); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(LatestKey(target))
	})
}

// Clear removes all records
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Close releases store resources
func (s *Store) Close() error {
	close(s.stop)
	return s.db.Close()
}

// Stats returns store statistics
func (s *Store) Stats() map[string]interface{} {
	lsm, vlog := s.db.Size()
	var entries int64
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	return map[string]interface{}{
		"entries":   entries,
		"lsm_size":  lsm,
		"vlog_size": vlog,
	}
}

func getRecord(txn *badger.Txn, key []byte) (*Record, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rec Record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}
