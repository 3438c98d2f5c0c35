package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/greeddj/go-hge/internal/hge/helpers"
	bolt "go.etcd.io/bbolt"
)

// DB wraps the Bolt database backing the response cache.
type DB struct {
	bolt *bolt.DB
}

// Open opens the cache database under dataDir.
func Open(dataDir string) (*DB, error) {
	if dataDir == "" {
		return nil, helpers.ErrDataDirEmpty
	}
	path := filepath.Join(dataDir, helpers.StoreDBCache)
	db, err := bolt.Open(path, helpers.FileMod, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &DB{bolt: db}, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	if d == nil || d.bolt == nil {
		return nil
	}
	return d.bolt.Close()
}

// Load reads cached state from the database.
func Load(db *DB) (*Store, error) {
	store := New()
	if db == nil || db.bolt == nil {
		return store, nil
	}
	if err := loadMeta(db.bolt, store); err != nil {
		return nil, err
	}
	if err := validateSchema(store.Meta.SchemaVersion); err != nil {
		return nil, err
	}
	if err := loadAPICache(db.bolt, store); err != nil {
		return nil, err
	}
	if err := loadLocations(db.bolt, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Save writes cached state to the database.
func Save(db *DB, store *Store) error {
	if db == nil || db.bolt == nil {
		return helpers.ErrDbNil
	}
	if store == nil {
		return helpers.ErrStoreNil
	}

	data := store.snapshotData()
	data.Meta.SchemaVersion = helpers.StoreSchemaVersion
	data.Meta.LastSnapshot = time.Now().UTC()

	return db.bolt.Update(func(tx *bolt.Tx) error {
		if err := saveMeta(tx, data.Meta); err != nil {
			return err
		}
		if err := saveBucket(tx, helpers.StoreBucketAPICache, data.APICache); err != nil {
			return err
		}
		return saveBucket(tx, helpers.StoreBucketLocations, data.Locations)
	})
}

func validateSchema(version int) error {
	if version > helpers.StoreSchemaVersion {
		return fmt.Errorf("%w: %d", helpers.ErrUnsupportedSchemaVersion, version)
	}
	return nil
}

func loadMeta(db *bolt.DB, store *Store) error {
	return db.View(func(tx *bolt.Tx) error {
		metaBucket := tx.Bucket([]byte(helpers.StoreBucketMeta))
		if metaBucket == nil {
			return nil
		}
		if v := metaBucket.Get([]byte(helpers.StoreMetaSchemaVersion)); v != nil {
			version, err := strconv.Atoi(string(v))
			if err != nil {
				return fmt.Errorf("invalid schema version: %w", err)
			}
			store.Meta.SchemaVersion = version
		}
		if v := metaBucket.Get([]byte(helpers.StoreMetaLastSnapshot)); v != nil {
			t, err := time.Parse(time.RFC3339Nano, string(v))
			if err != nil {
				return fmt.Errorf("invalid snapshot time: %w", err)
			}
			store.Meta.LastSnapshot = t
		}
		return nil
	})
}

func loadAPICache(db *bolt.DB, store *Store) error {
	return loadBucket(db, helpers.StoreBucketAPICache, func(k, v []byte) error {
		var entry APICacheEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return err
		}
		store.APICache[string(k)] = entry
		return nil
	})
}

func loadLocations(db *bolt.DB, store *Store) error {
	return loadBucket(db, helpers.StoreBucketLocations, func(k, v []byte) error {
		var loc Location
		if err := json.Unmarshal(v, &loc); err != nil {
			return err
		}
		store.Locations[string(k)] = loc
		return nil
	})
}

func saveMeta(tx *bolt.Tx, meta SnapshotMeta) error {
	metaBucket, err := ensureEmptyBucket(tx, helpers.StoreBucketMeta)
	if err != nil {
		return err
	}
	if err := metaBucket.Put([]byte(helpers.StoreMetaSchemaVersion), []byte(strconv.Itoa(meta.SchemaVersion))); err != nil {
		return err
	}
	return metaBucket.Put([]byte(helpers.StoreMetaLastSnapshot), []byte(meta.LastSnapshot.Format(time.RFC3339Nano)))
}

// ensureEmptyBucket recreates a bucket to ensure it is empty.
func ensureEmptyBucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return nil, err
	}
	return tx.CreateBucket([]byte(name))
}

// loadBucket iterates over a bucket and calls fn for each entry.
func loadBucket(db *bolt.DB, name string, fn func(k, v []byte) error) error {
	return db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(name))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(fn)
	})
}

// saveBucket replaces a bucket with JSON-encoded entries.
func saveBucket[T any](tx *bolt.Tx, name string, data map[string]T) error {
	bucket, err := ensureEmptyBucket(tx, name)
	if err != nil {
		return err
	}
	for key, entry := range data {
		encoded, err := json.Marshal(&entry)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(key), encoded); err != nil {
			return err
		}
	}
	return nil
}
