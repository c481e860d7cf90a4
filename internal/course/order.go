package course

// ApplyOrder sorts courses whose id appears in order by their position
// there; the rest keep their original relative order and are appended
// after. An empty order is the identity transform.
func ApplyOrder(courses []Course, order []string) []Course {
	if len(order) == 0 {
		return courses
	}

	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	ordered := make([]Course, 0, len(courses))
	var rest []Course
	for _, c := range courses {
		if _, ok := position[c.ID]; ok {
			ordered = append(ordered, c)
		} else {
			rest = append(rest, c)
		}
	}

	// Stable by construction: equal positions cannot occur, and the
	// original index breaks no ties within either partition.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && position[ordered[j-1].ID] > position[ordered[j].ID]; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}

	return append(ordered, rest...)
}
