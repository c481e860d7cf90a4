package timetable

import "testing"

func TestDeriveLessons_DedupPreservesFirstSeenOrder(t *testing.T) {
	events := []Event{
		{CodModulo: "B", Title: "Fisica"},
		{CodModulo: "A", Title: "Algebra"},
		{CodModulo: "B", Title: "Fisica (lab)"}, // later title ignored
		{CodModulo: "C", Title: "Chimica"},
		{CodModulo: "A", Title: "Algebra 2"},
	}

	lessons := DeriveLessons(events)

	if len(lessons) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(lessons))
	}

	want := []Lesson{
		{CodModulo: "B", Title: "Fisica"},
		{CodModulo: "A", Title: "Algebra"},
		{CodModulo: "C", Title: "Chimica"},
	}
	for i, l := range lessons {
		if l != want[i] {
			t.Errorf("lesson %d: expected %+v, got %+v", i, want[i], l)
		}
	}

	seen := make(map[string]bool)
	for _, l := range lessons {
		if seen[l.CodModulo] {
			t.Errorf("duplicate cod_modulo %s", l.CodModulo)
		}
		seen[l.CodModulo] = true
	}
}

func TestDeriveLessons_Empty(t *testing.T) {
	lessons := DeriveLessons(nil)
	if len(lessons) != 0 {
		t.Errorf("expected no lessons, got %d", len(lessons))
	}
}
