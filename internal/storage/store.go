package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/BrrBrr1/UniboOrario/internal/debuglog"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

var (
	cacheBucket      = []byte("cache")
	selectionsBucket = []byte("selections")
	prefsBucket      = []byte("prefs")
	coursesBucket    = []byte("courses")
	notesBucket      = []byte("notes")
)

var (
	prefCourseOrder   = []byte("course_order")
	prefHiddenCourses = []byte("hidden_courses")
	prefSessionDate   = []byte("session_date")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{cacheBucket, selectionsBucket, prefsBucket, coursesBucket, notesBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// cacheKey derives a stable, collision-resistant key for a request URL.
func cacheKey(url string) []byte {
	return []byte(fmt.Sprintf("%x", sha256.Sum256([]byte(url))))
}

// PutCache persists the last known good response for url with
// LastUpdated set to now. Storage or serialization errors are logged
// and swallowed; a cache failure never becomes a fetch failure.
func (s *Store) PutCache(url string, events []timetable.Event) {
	entry := timetable.CacheEntry{
		URL:         url,
		Data:        events,
		LastUpdated: time.Now(),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return tx.Bucket(cacheBucket).Put(cacheKey(url), data)
	})
	if err != nil {
		debuglog.Warnf("cache write failed for %s: %v", url, err)
	}
}

// GetCache returns the cached entry for url, or false on a miss. Read
// or decode errors degrade to a miss.
func (s *Store) GetCache(url string) (*timetable.CacheEntry, bool) {
	var entry timetable.CacheEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cacheBucket).Get(cacheKey(url))
		if data == nil {
			return fmt.Errorf("no cache entry")
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		debuglog.Debugf("cache miss for %s: %v", url, err)
		return nil, false
	}
	return &entry, true
}

// CacheEntries returns every cached response, for reindexing.
func (s *Store) CacheEntries() ([]timetable.CacheEntry, error) {
	var entries []timetable.CacheEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).ForEach(func(_ []byte, v []byte) error {
			var entry timetable.CacheEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

// SelectionKey partitions selection state by (course, year). Switching
// course or year switches the key; state never leaks across keys.
type SelectionKey struct {
	CourseID string
	Year     int
}

func (k SelectionKey) String() string {
	return fmt.Sprintf("%s:%d", k.CourseID, k.Year)
}

// Selection returns the persisted lesson selection for key. The second
// return is false when the user has never explicitly chosen for this
// key; read errors also report false, the safe inclusive fallback.
func (s *Store) Selection(key SelectionKey) ([]string, bool) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(selectionsBucket).Get([]byte(key.String()))
		if data == nil {
			return fmt.Errorf("no selection")
		}
		return json.Unmarshal(data, &ids)
	})
	if err != nil {
		return nil, false
	}
	return ids, true
}

// SetSelection persists the selection for key, keyed distinctly from
// every other (course, year) pair.
func (s *Store) SetSelection(key SelectionKey, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		return tx.Bucket(selectionsBucket).Put([]byte(key.String()), data)
	})
}

// ResolveDefault materializes the default select-all choice for a key
// that has never been explicitly set, and persists it so it happens
// exactly once: later catalog changes no longer alter the selection.
// When a selection already exists it is returned untouched.
func (s *Store) ResolveDefault(key SelectionKey, catalog []timetable.Lesson) []string {
	if ids, ok := s.Selection(key); ok {
		return ids
	}

	ids := make([]string, 0, len(catalog))
	for _, l := range catalog {
		ids = append(ids, l.CodModulo)
	}

	if err := s.SetSelection(key, ids); err != nil {
		debuglog.Warnf("persisting default selection for %s: %v", key, err)
	}
	return ids
}

// DeleteSelections removes every selection belonging to courseID,
// across all years. Used when a custom course is removed.
func (s *Store) DeleteSelections(courseID string) error {
	prefix := []byte(courseID + ":")
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(selectionsBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}
