package timetable

import (
	"encoding/json"
	"testing"
)

func TestEvent_UnmarshalRemotePayload(t *testing.T) {
	payload := `{
		"cod_modulo": "00819",
		"title": "ALGORITMI E STRUTTURE DI DATI",
		"docente": "Rossi",
		"start": "2025-11-24T09:00:00",
		"end": "2025-11-24T11:00:00",
		"time": "09:00 - 11:00",
		"aule": [{"des_risorsa": "Aula Ercolani 2", "des_indirizzo": "Via Ercolani 3"}]
	}`

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ev.CodModulo != "00819" {
		t.Errorf("unexpected cod_modulo %q", ev.CodModulo)
	}
	if ev.Start.Hour() != 9 || ev.End.Hour() != 11 {
		t.Errorf("unexpected times %v - %v", ev.Start, ev.End)
	}
	if ev.Room() != "Aula Ercolani 2" {
		t.Errorf("unexpected room %q", ev.Room())
	}
}

func TestEvent_MissingOptionalFields(t *testing.T) {
	payload := `{
		"cod_modulo": "X",
		"title": "Senza aula",
		"start": "2025-11-24T09:00:00",
		"end": "2025-11-24T10:00:00",
		"time": "09:00 - 10:00"
	}`

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ev.Docente != "" {
		t.Errorf("expected empty docente, got %q", ev.Docente)
	}
	if ev.Room() != "" {
		t.Errorf("expected no room, got %q", ev.Room())
	}
}

func TestLocalTime_RoundTrip(t *testing.T) {
	var lt LocalTime
	if err := lt.UnmarshalJSON([]byte(`"2025-11-24T09:30:00"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := lt.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-11-24T09:30:00"` {
		t.Errorf("unexpected round trip %s", out)
	}
}

func TestLocalTime_AcceptsRFC3339(t *testing.T) {
	var lt LocalTime
	if err := lt.UnmarshalJSON([]byte(`"2025-11-24T09:30:00+01:00"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if lt.IsZero() {
		t.Error("expected a parsed time")
	}
}

func TestLocalTime_RejectsGarbage(t *testing.T) {
	var lt LocalTime
	if err := lt.UnmarshalJSON([]byte(`"not a time"`)); err == nil {
		t.Error("expected an error")
	}
}
