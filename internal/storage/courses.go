package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/BrrBrr1/UniboOrario/internal/course"
)

var errNotFound = errors.New("not found")

// SaveCustomCourse persists a user-created course.
func (s *Store) SaveCustomCourse(c course.Course) error {
	if c.ID == "" {
		return fmt.Errorf("course has no id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return tx.Bucket(coursesBucket).Put([]byte(c.ID), data)
	})
}

// DeleteCustomCourse removes a custom course and the selections
// partitioned under its id.
func (s *Store) DeleteCustomCourse(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(coursesBucket).Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	return s.DeleteSelections(id)
}

// CustomCourses returns every user-created course.
func (s *Store) CustomCourses() ([]course.Course, error) {
	var courses []course.Course
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(coursesBucket).ForEach(func(_ []byte, v []byte) error {
			var c course.Course
			if err := json.Unmarshal(v, &c); err != nil {
				return nil
			}
			courses = append(courses, c)
			return nil
		})
	})
	return courses, err
}

// SaveNote stores a free-text note for a lesson.
func (s *Store) SaveNote(codModulo, text string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(notesBucket).Put([]byte(codModulo), []byte(text))
	})
}

// Note returns the stored note for a lesson, if any.
func (s *Store) Note(codModulo string) (string, bool) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(notesBucket).Get([]byte(codModulo))
		if data == nil {
			return errNotFound
		}
		text = string(data)
		return nil
	})
	if err != nil {
		return "", false
	}
	return text, true
}

// DeleteNote removes the note for a lesson.
func (s *Store) DeleteNote(codModulo string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(notesBucket).Delete([]byte(codModulo))
	})
}
