package kv

import (
	"errors"
	"fmt"

	"github.com/nutsdb/nutsdb"
)

const bucketSlots = "slots"

type NutsDB struct {
	db *nutsdb.DB
}

// NewNutsDB opens (or creates) a NutsDB database in dir.
func NewNutsDB(dir string) (*NutsDB, error) {
	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutsdb: %w", err)
	}

	if err := db.Update(func(tx *nutsdb.Tx) error {
		return tx.NewBucket(nutsdb.DataStructureBTree, bucketSlots)
	}); err != nil && !errors.Is(err, nutsdb.ErrBucketAlreadyExist) {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &NutsDB{db: db}, nil
}

func (s *NutsDB) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(tx *nutsdb.Tx) error {
		v, err := tx.Get(bucketSlots, []byte(key))
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		if errors.Is(err, nutsdb.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(value), true, nil
}

func (s *NutsDB) Set(key, value string) error {
	return s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucketSlots, []byte(key), []byte(value), nutsdb.Persistent)
	})
}

func (s *NutsDB) Close() error {
	return s.db.Close()
}
