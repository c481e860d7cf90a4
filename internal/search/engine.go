package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/BrrBrr1/UniboOrario/internal/storage"
)

// Engine searches the cached timetable weeks without an external index.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Search scans every cached week and scores events against the query
// terms, one result per distinct (lesson, day).
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	entries, err := e.store.CacheEntries()
	if err != nil {
		return nil, err
	}

	best := make(map[string]*Result)
	for _, entry := range entries {
		for _, ev := range entry.Data {
			score := scoreField(ev.Title, terms, 3.0) +
				scoreField(ev.Docente, terms, 2.0) +
				scoreField(ev.Room(), terms, 1.0)
			if score <= 0 {
				continue
			}

			day := ""
			if !ev.Start.IsZero() {
				day = ev.Start.Format("2006-01-02")
			}
			dedupKey := ev.CodModulo + "|" + day
			if prev, ok := best[dedupKey]; ok && prev.Score >= score {
				continue
			}
			best[dedupKey] = &Result{
				CodModulo: ev.CodModulo,
				Title:     ev.Title,
				Docente:   ev.Docente,
				Room:      ev.Room(),
				Week:      day,
				Score:     score,
			}
		}
	}

	results := make([]*Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CodModulo < results[j].CodModulo
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)

	var score float64
	for _, term := range terms {
		termLower := strings.ToLower(term)

		if strings.Contains(lower, termLower) {
			score += 2.0
		}

		for _, word := range words {
			wordLower := strings.ToLower(word)
			switch {
			case wordLower == termLower:
				score += 1.5
			case strings.HasPrefix(wordLower, termLower):
				score += 1.0
			case strings.Contains(wordLower, termLower):
				score += 0.5
			}
		}
	}

	return score * weight
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
