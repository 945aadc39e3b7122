package prototype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validation error kinds, as written to the "type" field of the payload.
const (
	KindDuplicateHotspot      = "DUPLICATE_HOTSPOT"
	KindUnsupportedTransition = "UNSUPPORTED ACTION: SMART_ANIMATE"
)

// ValidationError is a non-fatal problem found while extracting hotspots.
// It is either a *DuplicateHotspotError or an *UnsupportedTransitionError.
type ValidationError interface {
	error
	Kind() string
}

// Location identifies a node by ID and breadcrumb path.
type Location struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// DuplicateHotspotError reports hotspots sharing a name inside one frame.
// Duplicates holds every occurrence, the first one included.
type DuplicateHotspotError struct {
	Name       string     `json:"name"`
	Duplicates []Location `json:"duplicates"`
}

func (e *DuplicateHotspotError) Kind() string { return KindDuplicateHotspot }

func (e *DuplicateHotspotError) Error() string {
	paths := make([]string, len(e.Duplicates))
	for i, d := range e.Duplicates {
		paths[i] = d.Path
	}
	return fmt.Sprintf("duplicate hotspot name %q (%d occurrences): %s", e.Name, len(e.Duplicates), strings.Join(paths, "; "))
}

func (e *DuplicateHotspotError) MarshalJSON() ([]byte, error) {
	type plain DuplicateHotspotError
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{e.Kind(), (*plain)(e)})
}

// UnsupportedTransitionError reports a navigate action using a smart-animate transition.
type UnsupportedTransitionError struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Trigger string `json:"trigger"`
}

func (e *UnsupportedTransitionError) Kind() string { return KindUnsupportedTransition }

func (e *UnsupportedTransitionError) Error() string {
	return fmt.Sprintf("unsupported smart animate transition on %q (%s) triggered by %s", e.Name, e.Path, e.Trigger)
}

func (e *UnsupportedTransitionError) MarshalJSON() ([]byte, error) {
	type plain UnsupportedTransitionError
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{e.Kind(), (*plain)(e)})
}

// Collector accumulates validation errors of a whole export run.
// It is append-only: errors are never removed or merged after being added.
type Collector struct {
	errs []ValidationError
}

// Add appends err to the collection.
func (c *Collector) Add(err ValidationError) {
	c.errs = append(c.errs, err)
}

// Errors returns the collected errors in the order they were found.
func (c *Collector) Errors() []ValidationError {
	return c.errs
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	return len(c.errs)
}
