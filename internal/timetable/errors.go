package timetable

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a payload that is not a JSON event array.
// For fallback purposes it is handled like a network error.
var ErrMalformedResponse = errors.New("response is not a JSON event array")

// FetchFailedError is the hard failure returned when a fetch fails and
// no cached data exists for the URL. It carries the original cause.
type FetchFailedError struct {
	URL string
	Err error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetching timetable %s: no cached data available: %v", e.URL, e.Err)
}

func (e *FetchFailedError) Unwrap() error {
	return e.Err
}
