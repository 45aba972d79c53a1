package storage

import (
	"fmt"
	"strings"

	"github.com/boltdb/bolt"
)

// BoltStore is an implementation of Store whose backend is a Bolt database.
type BoltStore bolt.DB

var (
	bucketName = []byte("values")
)

func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", bucketName, err)
		}
		return nil
	})
	return (*BoltStore)(db), err
}

func (s *BoltStore) Put(key string, value []byte) error {
	err := (*bolt.DB)(s).Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketName).Put([]byte(key), value); err != nil {
			return fmt.Errorf("could not put %.40q: %w", key, err)
		}
		return nil
	})
	return translateClosed(err)
}

func (s *BoltStore) Get(key string) (value []byte, err error) {
	err = (*bolt.DB)(s).View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(bucketName).Get([]byte(key))
		if stored == nil {
			return fmt.Errorf("%.40q: %w", key, ErrNotFound)
		}
		// The slice is only valid within the transaction.
		value = dup(stored)
		return nil
	})
	return value, translateClosed(err)
}

func translateClosed(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "database not open") {
		return fmt.Errorf("bolt: %w", ErrUnavailable)
	}
	return err
}
