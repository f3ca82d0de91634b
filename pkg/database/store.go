// Package database is the metadata store: one record per installed package plus
// the version of the manager itself, persisted in a bbolt file.
package database

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/model"
)

var (
	bucketPackages = []byte("packages")
	bucketSelf     = []byte("self")

	keySelfVersion = []byte("version")
)

// Store persists InstalledPackage records keyed by name.
type Store struct {
	db     *bbolt.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (creating if needed) the store at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db

	if err := s.createBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug("opened installed database", "path", path)
	return s, nil
}

func (s *Store) createBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPackages, bucketSelf} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// Close closes the database and releases the file lock.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing installed database")
	err := s.db.Close()
	s.db = nil
	return err
}

// Record creates or overwrites the record for pkg.Name. A zero InstalledAt is stamped with the current time.
func (s *Store) Record(pkg *model.InstalledPackage) error {
	if pkg == nil || pkg.Name == "" {
		return fmt.Errorf("record without a name: %w", errors.ErrInvalidArguments)
	}
	rec := *pkg
	if rec.InstalledAt.IsZero() {
		rec.InstalledAt = s.now().UTC()
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.Name, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPackages).Put([]byte(rec.Name), data)
	})
}

// Get returns the record for name, or nil when the package is not installed.
func (s *Store) Get(name string) (*model.InstalledPackage, error) {
	var rec *model.InstalledPackage
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPackages).Get([]byte(name))
		if data == nil {
			return nil
		}
		var err error
		rec, err = decode(name, data)
		return err
	})
	return rec, err
}

// Remove deletes the record for name and returns it so the caller can delete its files.
func (s *Store) Remove(name string) (*model.InstalledPackage, error) {
	var rec *model.InstalledPackage
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPackages)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%s: %w", name, errors.ErrNotInstalled)
		}
		var err error
		if rec, err = decode(name, data); err != nil {
			return err
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every record ordered by name.
func (s *Store) List() ([]*model.InstalledPackage, error) {
	var out []*model.InstalledPackage
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPackages).ForEach(func(k, v []byte) error {
			rec, err := decode(string(k), v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// SelfVersion returns the recorded version of the manager, or "" when none was recorded.
func (s *Store) SelfVersion() (string, error) {
	var version string
	err := s.db.View(func(tx *bbolt.Tx) error {
		version = string(tx.Bucket(bucketSelf).Get(keySelfVersion))
		return nil
	})
	return version, err
}

// SetSelfVersion records the version of the manager binary now at the canonical path.
func (s *Store) SetSelfVersion(version string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSelf).Put(keySelfVersion, []byte(version))
	})
}

func decode(name string, data []byte) (*model.InstalledPackage, error) {
	var rec model.InstalledPackage
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", name, err)
	}
	return &rec, nil
}
