package timetable

import "strings"

// FilterField selects which event field a text query matches against.
type FilterField string

const (
	FieldTitle    FilterField = "title"
	FieldTeacher  FilterField = "teacher"
	FieldLocation FilterField = "location"
)

// Query is a free-text search over one event field.
type Query struct {
	Text  string
	Field FilterField
}

// Filter returns the events that are both in the selection and matched
// by the query. A nil selection passes every event; an empty query text
// matches every event. Missing fields (no teacher, no rooms) never
// match a non-empty query against them. Order-preserving and pure.
func Filter(events []Event, selection []string, q Query) []Event {
	var selected map[string]struct{}
	if selection != nil {
		selected = make(map[string]struct{}, len(selection))
		for _, id := range selection {
			selected[id] = struct{}{}
		}
	}

	needle := strings.ToLower(q.Text)

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if selected != nil {
			if _, ok := selected[ev.CodModulo]; !ok {
				continue
			}
		}
		if needle != "" && !matchField(ev, q.Field, needle) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func matchField(ev Event, field FilterField, needle string) bool {
	var target string
	switch field {
	case FieldTitle:
		target = ev.Title
	case FieldTeacher:
		target = ev.Docente
	case FieldLocation:
		target = ev.Room()
	default:
		return true
	}
	return strings.Contains(strings.ToLower(target), needle)
}
