package search

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/BrrBrr1/UniboOrario/internal/storage"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

type BleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and
// indexes the currently cached weeks. The returned engine also
// implements session.Indexer, so fresh fetches keep it current.
func NewBleveEngine(store *storage.Store, indexPath string) (*BleveEngine, error) {
	if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
		_ = mkErr // Open/New below will surface a real failure
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}

	be := &BleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true

	teacher := bleve.NewTextFieldMapping()
	teacher.Analyzer = standard.Name
	teacher.Store = true

	room := bleve.NewTextFieldMapping()
	room.Analyzer = standard.Name
	room.Store = true

	cod := bleve.NewKeywordFieldMapping()
	cod.Store = true

	day := bleve.NewKeywordFieldMapping()
	day.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("teacher", teacher)
	dm.AddFieldMappingsAt("room", room)
	dm.AddFieldMappingsAt("cod_modulo", cod)
	dm.AddFieldMappingsAt("day", day)

	im.DefaultMapping = dm
	return im
}

func (b *BleveEngine) reindexAll() error {
	entries, err := b.store.CacheEntries()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, entry := range entries {
		for _, ev := range entry.Data {
			_ = batch.Index(docID(entry.URL, ev), eventDoc(ev))
		}
	}
	return b.idx.Batch(batch)
}

// IndexWeek indexes a freshly fetched week; called by the session after
// every applied network fetch. Documents are scoped by the request URL,
// the same identity reindexAll uses, so a week fetched live and later
// replayed from the cache upserts the same documents instead of
// creating duplicates.
func (b *BleveEngine) IndexWeek(url string, events []timetable.Event) error {
	batch := b.idx.NewBatch()
	for _, ev := range events {
		_ = batch.Index(docID(url, ev), eventDoc(ev))
	}
	return b.idx.Batch(batch)
}

func docID(scope string, ev timetable.Event) string {
	day := ""
	if !ev.Start.IsZero() {
		day = ev.Start.Format("2006-01-02T15:04")
	}
	return scope + "|" + ev.CodModulo + "|" + day
}

func eventDoc(ev timetable.Event) map[string]any {
	day := ""
	if !ev.Start.IsZero() {
		day = ev.Start.Format("2006-01-02")
	}
	return map[string]any{
		"cod_modulo": ev.CodModulo,
		"title":      ev.Title,
		"teacher":    ev.Docente,
		"room":       ev.Room(),
		"day":        day,
	}
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(3.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(2.5)
		qs = append(qs, qtp)

		qd := bleve.NewMatchQuery(tok)
		qd.SetField("teacher")
		qd.SetBoost(2.0)
		qs = append(qs, qd)
		qdp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qdp.SetField("teacher")
		qdp.SetBoost(1.8)
		qs = append(qs, qdp)

		qr := bleve.NewMatchQuery(tok)
		qr.SetField("room")
		qr.SetBoost(1.0)
		qs = append(qs, qr)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"cod_modulo", "title", "teacher", "room", "day"}

	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, &Result{
			CodModulo: fieldString(hit.Fields, "cod_modulo"),
			Title:     fieldString(hit.Fields, "title"),
			Docente:   fieldString(hit.Fields, "teacher"),
			Room:      fieldString(hit.Fields, "room"),
			Week:      fieldString(hit.Fields, "day"),
			Score:     hit.Score,
		})
	}
	return results, nil
}

func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

func fieldString(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
