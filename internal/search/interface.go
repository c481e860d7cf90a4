package search

// Result is one lesson occurrence matched by a search over the cached
// timetable data.
type Result struct {
	CodModulo string
	Title     string
	Docente   string
	Room      string
	Week      string // yyyy-MM-dd of the occurrence's day, "" if unknown
	Score     float64
}

// Searcher is the minimal search API used by the CLI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
