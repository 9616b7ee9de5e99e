// Package storage persists game records in BadgerDB.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chessd/internal/errors"
	"github.com/hailam/chessd/internal/game"
)

// Storage keys
const (
	keyGamePrefix  = "game/"
	keyGameSeq     = "seq/game"
	seqBandwidth   = 100
	minBadgerLevel = zerolog.WarnLevel
)

// Options configures Open.
type Options struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps all data in memory; nothing is written to disk.
	InMemory bool

	Logger zerolog.Logger
}

// Storage wraps BadgerDB as a repository of game records.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	log zerolog.Logger
}

// Open opens (or creates) the game database.
func Open(o Options) (*Storage, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(o.Dir)
	}

	blog := o.Logger.With().Str("component", "badger").Logger()
	if blog.GetLevel() < minBadgerLevel {
		blog = blog.Level(minBadgerLevel)
	}
	opts.Logger = badgerLogger{log: blog}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open game database")
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "game id sequence")
	}

	o.Logger.Info().Str("dir", o.Dir).Bool("in_memory", o.InMemory).Msg("game database opened")

	return &Storage{db: db, seq: seq, log: o.Logger}, nil
}

// Close releases the id sequence and closes the database.
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.log.Warn().Err(err).Msg("release game id sequence")
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NextID allocates a new, never reused game id.
func (s *Storage) NextID() (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", errors.Wrap(err, "next game id")
	}
	// Sequences start at zero; ids start at one.
	return strconv.FormatUint(n+1, 10), nil
}

func gameKey(id string) []byte {
	return []byte(keyGamePrefix + id)
}

// Save writes a game record, replacing any previous version.
func (s *Storage) Save(rec game.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "encode game %s", rec.ID)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// Load reads a game record. An unknown id yields ErrGameNotFound.
func (s *Storage) Load(id string) (game.Record, error) {
	var rec game.Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %s: %w", id, errors.ErrGameNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// Exists reports whether a game with the given id is stored.
func (s *Storage) Exists(id string) (bool, error) {
	exists := false

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})

	return exists, err
}

// Delete removes a game record. Deleting an unknown id is not an error.
func (s *Storage) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// List returns every stored game, oldest id first.
func (s *Storage) List() ([]game.Record, error) {
	var records []game.Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyGamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec game.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", item.Key())
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys sort as strings; ids are decimal.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].ID, records[j].ID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	return records, nil
}
