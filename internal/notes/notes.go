package notes

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/BrrBrr1/UniboOrario/internal/storage"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

// Service binds per-lesson notes to the lesson catalog. Notes are keyed
// by cod_modulo, so they follow a lesson across weeks.
type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// Set stores a note for a lesson; empty text deletes it.
func (s *Service) Set(codModulo, text string) error {
	if text == "" {
		return s.store.DeleteNote(codModulo)
	}
	return s.store.SaveNote(codModulo, text)
}

// Get returns the note for a lesson, if any.
func (s *Service) Get(codModulo string) (string, bool) {
	return s.store.Note(codModulo)
}

// Delete removes the note for a lesson.
func (s *Service) Delete(codModulo string) error {
	return s.store.DeleteNote(codModulo)
}

// Annotated returns the lessons from catalog that carry a note.
func (s *Service) Annotated(catalog []timetable.Lesson) []timetable.Lesson {
	var out []timetable.Lesson
	for _, l := range catalog {
		if _, ok := s.store.Note(l.CodModulo); ok {
			out = append(out, l)
		}
	}
	return out
}

// Render returns the note formatted as terminal markdown.
func (s *Service) Render(codModulo string, width int) (string, error) {
	text, ok := s.store.Note(codModulo)
	if !ok {
		return "", fmt.Errorf("no note for %s", codModulo)
	}

	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}

	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering note: %w", err)
	}
	return out, nil
}
