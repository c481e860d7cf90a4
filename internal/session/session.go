package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BrrBrr1/UniboOrario/internal/course"
	"github.com/BrrBrr1/UniboOrario/internal/debuglog"
	"github.com/BrrBrr1/UniboOrario/internal/storage"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

// Fetcher resolves a timetable URL, from network or cache.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*timetable.Result, error)
}

// Indexer is notified after a week has been fetched and applied, so an
// external search index can stay current. The request URL identifies
// the week, matching the cache's keying.
type Indexer interface {
	IndexWeek(url string, events []timetable.Event) error
}

// Controller owns the active (course, year, date) tuple and the state
// derived from the last fetch for it. Every change to the tuple bumps a
// generation counter; a fetch result is applied only when its
// generation still matches, so a response that raced a course/year/week
// switch can never mutate state for the now-active key. The cache write
// inside the fetcher still proceeds for stale responses, which is valid
// against their own URL.
type Controller struct {
	mu       sync.Mutex
	store    *storage.Store
	fetcher  Fetcher
	registry *course.Registry
	indexer  Indexer

	gen    uint64
	course course.Course
	year   int
	date   time.Time

	events      []timetable.Event
	lessons     []timetable.Lesson
	selection   []string
	fromCache   bool
	lastUpdated time.Time
	loaded      bool
}

func NewController(store *storage.Store, fetcher Fetcher, registry *course.Registry) *Controller {
	c := &Controller{
		store:    store,
		fetcher:  fetcher,
		registry: registry,
		year:     1,
		date:     time.Now(),
	}
	if date, ok := store.SessionDate(); ok {
		c.date = date
	}
	return c
}

// SetIndexer attaches a search indexer fed on every applied fetch.
func (c *Controller) SetIndexer(idx Indexer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexer = idx
}

// SetCourse switches the active course by id. The previous key's
// selection is left untouched.
func (c *Controller) SetCourse(id string) error {
	crs, err := c.registry.Lookup(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.course = crs
	if c.year > crs.Years {
		c.year = 1
	}
	c.invalidateLocked()
	return nil
}

// SetYear switches the active year within the current course.
func (c *Controller) SetYear(year int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if year < 1 || (c.course.Years > 0 && year > c.course.Years) {
		return fmt.Errorf("year %d out of range for %s (1-%d)", year, c.course.ID, c.course.Years)
	}
	c.year = year
	c.invalidateLocked()
	return nil
}

// SetDate moves the viewed date, and with it the requested week.
func (c *Controller) SetDate(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = t
	c.invalidateLocked()
	c.persistDateLocked()
}

// ResetDate returns the session to the current week and forgets the
// persisted date.
func (c *Controller) ResetDate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = time.Now()
	c.invalidateLocked()
	if err := c.store.ClearSessionDate(); err != nil {
		debuglog.Warnf("clearing session date: %v", err)
	}
}

// NextWeek advances the viewed date by seven days.
func (c *Controller) NextWeek() { c.shiftDate(7) }

// PrevWeek moves the viewed date back by seven days.
func (c *Controller) PrevWeek() { c.shiftDate(-7) }

func (c *Controller) shiftDate(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = c.date.AddDate(0, 0, days)
	c.invalidateLocked()
	c.persistDateLocked()
}

// invalidateLocked bumps the generation so in-flight fetches for the
// previous tuple are discarded on completion.
func (c *Controller) invalidateLocked() {
	c.gen++
	c.loaded = false
}

func (c *Controller) persistDateLocked() {
	if err := c.store.SetSessionDate(c.date); err != nil {
		debuglog.Warnf("persisting session date: %v", err)
	}
}

// Refresh issues exactly one fetch for the current (course, year, week)
// tuple and applies the result, unless the tuple changed while the
// request was in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.course.ID == "" {
		c.mu.Unlock()
		return fmt.Errorf("no active course")
	}
	gen := c.gen
	crs := c.course
	year := c.year
	url := timetable.BuildURL(crs.URL, year, crs.Curricula, c.date)
	c.mu.Unlock()

	result, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		debuglog.Debugf("discarding stale fetch for %s (gen %d, now %d)", url, gen, c.gen)
		return nil
	}

	lessons := timetable.DeriveLessons(result.Events)
	key := storage.SelectionKey{CourseID: crs.ID, Year: year}
	selection := c.store.ResolveDefault(key, lessons)

	c.events = result.Events
	c.lessons = lessons
	c.selection = selection
	c.fromCache = result.FromCache
	c.lastUpdated = result.LastUpdated
	c.loaded = true

	if c.indexer != nil && !result.FromCache {
		if err := c.indexer.IndexWeek(url, result.Events); err != nil {
			debuglog.Warnf("indexing week for %s: %v", crs.ID, err)
		}
	}

	return nil
}

// ActiveKey returns the selection key for the current tuple.
func (c *Controller) ActiveKey() storage.SelectionKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return storage.SelectionKey{CourseID: c.course.ID, Year: c.year}
}

func (c *Controller) Course() course.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.course
}

func (c *Controller) Year() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year
}

func (c *Controller) Date() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

// Events returns the last applied event batch.
func (c *Controller) Events() []timetable.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

// Lessons returns the catalog derived from the last applied batch.
func (c *Controller) Lessons() []timetable.Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lessons
}

// Selection returns the active key's selected lesson ids.
func (c *Controller) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

func (c *Controller) FromCache() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fromCache
}

func (c *Controller) LastUpdated() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdated
}

// Visible applies the selection and query filter to the current batch.
func (c *Controller) Visible(q timetable.Query) []timetable.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return timetable.Filter(c.events, c.selection, q)
}

// Toggle flips one lesson in the active key's selection and persists.
func (c *Controller) Toggle(codModulo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.selection)+1)
	found := false
	for _, id := range c.selection {
		if id == codModulo {
			found = true
			continue
		}
		ids = append(ids, id)
	}
	if !found {
		ids = append(ids, codModulo)
	}
	return c.setSelectionLocked(ids)
}

// SelectAll selects every lesson in the current catalog.
func (c *Controller) SelectAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.lessons))
	for _, l := range c.lessons {
		ids = append(ids, l.CodModulo)
	}
	return c.setSelectionLocked(ids)
}

// SelectNone clears the selection for the active key.
func (c *Controller) SelectNone() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSelectionLocked([]string{})
}

func (c *Controller) setSelectionLocked(ids []string) error {
	if c.course.ID == "" {
		return fmt.Errorf("no active course")
	}
	key := storage.SelectionKey{CourseID: c.course.ID, Year: c.year}
	if err := c.store.SetSelection(key, ids); err != nil {
		return fmt.Errorf("persisting selection for %s: %w", key, err)
	}
	c.selection = ids
	return nil
}
