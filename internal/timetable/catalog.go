package timetable

// DeriveLessons reduces a batch of events to its distinct lessons,
// keeping the first title observed per cod_modulo and preserving
// first-seen order. Pure: no network or storage access.
func DeriveLessons(events []Event) []Lesson {
	seen := make(map[string]struct{}, len(events))
	lessons := make([]Lesson, 0, len(events))

	for _, ev := range events {
		if _, ok := seen[ev.CodModulo]; ok {
			continue
		}
		seen[ev.CodModulo] = struct{}{}
		lessons = append(lessons, Lesson{
			CodModulo: ev.CodModulo,
			Title:     ev.Title,
		})
	}

	return lessons
}
