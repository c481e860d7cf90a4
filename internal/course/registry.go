package course

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BrrBrr1/UniboOrario/internal/timetable"
	"github.com/BrrBrr1/UniboOrario/internal/validation"
)

// Store is the persistence surface the registry needs. Implemented by
// the bbolt-backed storage.Store.
type Store interface {
	CustomCourses() ([]Course, error)
	SaveCustomCourse(Course) error
	DeleteCustomCourse(id string) error
	CourseOrder() []string
	SetCourseOrder(ids []string) error
	HiddenCourses() []string
	SetHiddenCourses(ids []string) error
}

// TimetableFetcher resolves a timetable URL; used to validate custom
// courses before committing them.
type TimetableFetcher interface {
	Fetch(ctx context.Context, url string) (*timetable.Result, error)
}

// ValidationError rejects an add-course action whose URL/curricula did
// not produce a valid event array. No state is committed on rejection.
type ValidationError struct {
	URL string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating course URL %s: %v", e.URL, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Registry merges the static catalog, the optional catalog file and
// user-created custom courses, applying the persisted order preference
// and hidden-course set.
type Registry struct {
	store     Store
	fetcher   TimetableFetcher
	validator *validation.TimetableURLValidator
	extra     []Course
}

func NewRegistry(store Store, fetcher TimetableFetcher, extra []Course) *Registry {
	return &Registry{
		store:     store,
		fetcher:   fetcher,
		validator: validation.NewTimetableURLValidator(),
		extra:     extra,
	}
}

// SetPermissiveValidation relaxes URL checks for development/testing.
func (r *Registry) SetPermissiveValidation(permissive bool) {
	if permissive {
		r.validator = validation.NewPermissiveTimetableURLValidator()
	} else {
		r.validator = validation.NewTimetableURLValidator()
	}
}

// All returns every known course, ordered by the persisted preference.
func (r *Registry) All() ([]Course, error) {
	custom, err := r.store.CustomCourses()
	if err != nil {
		return nil, fmt.Errorf("loading custom courses: %w", err)
	}

	merged := append(append(StaticCourses(), r.extra...), custom...)
	return ApplyOrder(merged, r.store.CourseOrder()), nil
}

// Visible returns All minus the hidden courses.
func (r *Registry) Visible() ([]Course, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]struct{})
	for _, id := range r.store.HiddenCourses() {
		hidden[id] = struct{}{}
	}

	visible := all[:0:0]
	for _, c := range all {
		if _, ok := hidden[c.ID]; !ok {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Lookup finds a course by id.
func (r *Registry) Lookup(id string) (Course, error) {
	all, err := r.All()
	if err != nil {
		return Course{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, fmt.Errorf("unknown course %q", id)
}

// Add validates and persists a custom course. The URL must pass the
// validator and, queried for the current week of year 1, return a valid
// event array; otherwise a ValidationError is returned and nothing is
// committed.
func (r *Registry) Add(ctx context.Context, c Course) (Course, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Course{}, fmt.Errorf("course name cannot be empty")
	}

	normalized, err := r.validator.ValidateAndNormalize(c.URL)
	if err != nil {
		return Course{}, &ValidationError{URL: c.URL, Err: err}
	}
	c.URL = normalized
	c.Type = TypeCustom
	if c.Years == 0 {
		c.Years = 3
	}
	if c.ID == "" {
		c.ID = slugify(c.Name)
	}

	if existing, lookupErr := r.Lookup(c.ID); lookupErr == nil {
		return Course{}, fmt.Errorf("course %q already exists", existing.ID)
	}

	probe := timetable.BuildURL(c.URL, 1, c.Curricula, time.Now())
	if _, err := r.fetcher.Fetch(ctx, probe); err != nil {
		return Course{}, &ValidationError{URL: c.URL, Err: err}
	}

	if err := r.store.SaveCustomCourse(c); err != nil {
		return Course{}, fmt.Errorf("saving course: %w", err)
	}

	return c, nil
}

// Remove deletes a custom course together with its selections. Static
// courses cannot be removed, only hidden.
func (r *Registry) Remove(id string) error {
	c, err := r.Lookup(id)
	if err != nil {
		return err
	}
	if !c.Custom() {
		return fmt.Errorf("course %q is not removable; hide it instead", id)
	}
	return r.store.DeleteCustomCourse(id)
}

// ToggleHidden flips the visibility of a course.
func (r *Registry) ToggleHidden(id string) error {
	if _, err := r.Lookup(id); err != nil {
		return err
	}

	hidden := r.store.HiddenCourses()
	for i, h := range hidden {
		if h == id {
			return r.store.SetHiddenCourses(append(hidden[:i], hidden[i+1:]...))
		}
	}
	return r.store.SetHiddenCourses(append(hidden, id))
}

// SetOrder persists a user-defined course ordering.
func (r *Registry) SetOrder(ids []string) error {
	return r.store.SetCourseOrder(ids)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "custom-course"
	}
	return slug
}
