package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrrBrr1/UniboOrario/internal/storage"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

const weekURL = "https://example.org/tt?anno=1&start=2025-11-24&end=2025-12-01"

func bleveFixture(t *testing.T) (*storage.Store, []timetable.Event, string) {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	day := func(s string) timetable.LocalTime {
		parsed, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
		require.NoError(t, err)
		return timetable.LocalTime{Time: parsed}
	}

	events := []timetable.Event{
		{
			CodModulo: "ALG",
			Title:     "Algoritmi e Strutture di Dati",
			Docente:   "Maria Rossi",
			Start:     day("2025-11-24T09:00:00"),
			Aule:      []timetable.Aula{{DesRisorsa: "Aula Ercolani 2"}},
		},
		{
			CodModulo: "FIS",
			Title:     "Fisica Generale",
			Docente:   "Luca Bianchi",
			Start:     day("2025-11-25T11:00:00"),
		},
	}

	return store, events, filepath.Join(t.TempDir(), "index.bleve")
}

func TestBleveEngine_IndexAndSearch(t *testing.T) {
	store, events, indexPath := bleveFixture(t)
	store.PutCache(weekURL, events)

	engine, err := NewBleveEngine(store, indexPath)
	require.NoError(t, err)
	defer engine.Close()

	n, err := engine.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := engine.Search("algoritmi", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ALG", results[0].CodModulo)
	assert.Equal(t, "Maria Rossi", results[0].Docente)
	assert.Equal(t, "2025-11-24", results[0].Week)
}

func TestBleveEngine_LiveIndexingUpsertsCachedWeek(t *testing.T) {
	store, events, indexPath := bleveFixture(t)
	store.PutCache(weekURL, events)

	engine, err := NewBleveEngine(store, indexPath)
	require.NoError(t, err)
	defer engine.Close()

	// A live fetch for the same week indexes the same documents, not a
	// second copy of each occurrence.
	require.NoError(t, engine.IndexWeek(weekURL, events))

	n, err := engine.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := engine.Search("fisica", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1, "an occurrence must never match twice")
}

func TestBleveEngine_ReopenDoesNotDuplicate(t *testing.T) {
	store, events, indexPath := bleveFixture(t)

	engine, err := NewBleveEngine(store, indexPath)
	require.NoError(t, err)

	// Week arrives live first, lands in the cache, then the index is
	// reopened and replays the cache.
	require.NoError(t, engine.IndexWeek(weekURL, events))
	store.PutCache(weekURL, events)
	require.NoError(t, engine.Close())

	reopened, err := NewBleveEngine(store, indexPath)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := reopened.Search("algoritmi", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBleveEngine_ShortQueryReturnsNothing(t *testing.T) {
	store, events, indexPath := bleveFixture(t)
	store.PutCache(weekURL, events)

	engine, err := NewBleveEngine(store, indexPath)
	require.NoError(t, err)
	defer engine.Close()

	results, err := engine.Search("a", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
