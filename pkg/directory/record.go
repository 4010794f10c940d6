// Package directory scrapes the project directory page of a Horizon console
// into structured records.
package directory

import (
	"fmt"
	"time"
)

// Record is one project the user can switch into.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Snapshot is the complete directory as captured at one point in time.
type Snapshot struct {
	Records    []Record  `json:"records"`
	CapturedAt time.Time `json:"captured_at"`
}

// Age returns how old the snapshot is at now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// FetchError reports that the directory page could not be retrieved or parsed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("could not load projects from %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("could not load projects from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
