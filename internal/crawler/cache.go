package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var pagesBucket = []byte("pages")

// Cache stores fetched pages in a bolt database keyed by the sha256 of the URL.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens or creates the cache file at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache file '%s': %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pagesBucket)

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ensuring pages bucket: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached page for url.
func (c *Cache) Get(url string) (string, bool) {
	var page []byte

	_ = c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(pagesBucket).Get(cacheKey(url)); v != nil {
			page = append([]byte(nil), v...)
		}

		return nil
	})

	return string(page), page != nil
}

// Put stores page under url.
func (c *Cache) Put(url, page string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pagesBucket).Put(cacheKey(url), []byte(page))
	})
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	n := 0

	_ = c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(pagesBucket).ForEach(func(_, _ []byte) error {
			n++

			return nil
		})
	})

	return n
}

// ClearCache removes every cached page and returns how many were removed.
func (c *Cache) ClearCache() (int, error) {
	n := c.Len()

	err := c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(pagesBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucket(pagesBucket)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}

	return n, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(url string) []byte {
	sum := sha256.Sum256([]byte(url))

	return []byte(hex.EncodeToString(sum[:]))
}
