package timetable

import (
	"fmt"
	"strings"
	"time"
)

// localTimeLayout is the zone-less datetime format used by the remote
// timetable endpoint (e.g. "2025-11-24T09:00:00").
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock datetime without a zone, as served by the
// remote endpoint. It round-trips through JSON in the remote format.
type LocalTime struct {
	time.Time
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(localTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(localTimeLayout, s, time.Local)
	if err != nil {
		// Some deployments include an offset; accept RFC3339 as well.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parsing datetime %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// Aula is a room assignment on an event. Both fields may be absent.
type Aula struct {
	DesRisorsa   string `json:"des_risorsa"`
	DesIndirizzo string `json:"des_indirizzo"`
}

// Event is one scheduled occurrence of a lesson. Events are immutable
// once fetched; cod_modulo is not unique within a batch, the same
// lesson recurs on multiple days.
type Event struct {
	CodModulo string    `json:"cod_modulo"`
	Title     string    `json:"title"`
	Docente   string    `json:"docente,omitempty"`
	Start     LocalTime `json:"start"`
	End       LocalTime `json:"end"`
	Time      string    `json:"time"`
	Aule      []Aula    `json:"aule"`
}

// Room returns the first assigned room name, or "" when none is set.
func (e Event) Room() string {
	if len(e.Aule) == 0 {
		return ""
	}
	return e.Aule[0].DesRisorsa
}

// Lesson is a distinct teachable unit, derived from a batch of events.
type Lesson struct {
	CodModulo string `json:"cod_modulo"`
	Title     string `json:"title"`
}

// CacheEntry is the last known good response for one request URL.
type CacheEntry struct {
	URL         string    `json:"url"`
	Data        []Event   `json:"data"`
	LastUpdated time.Time `json:"last_updated"`
}

// Cache persists last-known-good responses keyed by request URL.
// Implementations must swallow storage errors: a failed read is a miss,
// a failed write is a no-op.
type Cache interface {
	GetCache(url string) (*CacheEntry, bool)
	PutCache(url string, events []Event)
}
