package storage

import (
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var sessionBucket = []byte("session")

// Bolt is a file-backed Medium for hosts whose session scope outlives the
// process, such as a desktop shell restoring its previous session.
type Bolt struct {
	db *bolt.DB
}

var _ Medium = (*Bolt)(nil)

// OpenBolt opens (creating if needed) the session file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[OpenBolt] bolt.Open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "[OpenBolt] create session bucket")
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(key string) (string, bool, error) {
	var value string
	var ok bool
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionBucket).Get([]byte(key))
		if raw != nil {
			value = string(raw)
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrap(err, "[Bolt.Get] db.View")
	}
	return value, ok, nil
}

func (b *Bolt) Set(key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
	return errors.Wrap(err, "[Bolt.Set] db.Update")
}

func (b *Bolt) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
	return errors.Wrap(err, "[Bolt.Delete] db.Update")
}

// Close releases the underlying session file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
