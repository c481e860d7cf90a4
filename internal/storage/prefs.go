package storage

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Preference cells. Each is an independently keyed persistent value
// with an explicit read/write contract; course order and hidden
// courses are global, the session date lasts one browsing session.

func (s *Store) getPref(key []byte, out any) bool {
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(prefsBucket).Get(key)
		if data == nil {
			return errNotFound
		}
		return json.Unmarshal(data, out)
	})
	return err == nil
}

func (s *Store) setPref(key []byte, value any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return tx.Bucket(prefsBucket).Put(key, data)
	})
}

// CourseOrder returns the user-defined course ordering, or nil when
// none has been set (identity ordering).
func (s *Store) CourseOrder() []string {
	var ids []string
	s.getPref(prefCourseOrder, &ids)
	return ids
}

func (s *Store) SetCourseOrder(ids []string) error {
	return s.setPref(prefCourseOrder, ids)
}

// HiddenCourses returns the ids excluded from the default listing.
func (s *Store) HiddenCourses() []string {
	var ids []string
	s.getPref(prefHiddenCourses, &ids)
	return ids
}

func (s *Store) SetHiddenCourses(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.setPref(prefHiddenCourses, ids)
}

// SessionDate returns the currently viewed date of the active session.
func (s *Store) SessionDate() (time.Time, bool) {
	var t time.Time
	if !s.getPref(prefSessionDate, &t) || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func (s *Store) SetSessionDate(t time.Time) error {
	return s.setPref(prefSessionDate, t)
}

// ClearSessionDate forgets the viewed date, returning to today.
func (s *Store) ClearSessionDate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Delete(prefSessionDate)
	})
}
