package domain

import "time"

// ListOptions carries the ordering, pagination and date-range parts shared by
// every filter. OrderBy names a column (snake_case); each repository keeps a
// whitelist and rejects anything else with a validation error.
type ListOptions struct {
	OrderBy    string     `json:"orderBy,omitempty"`
	Descending bool       `json:"descending,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
	DateFrom   *time.Time `json:"dateFrom,omitempty"`
	DateTo     *time.Time `json:"dateTo,omitempty"`
}

// ReorderOutcome reports which ids received their new display order.
// Reorders are issued one write per id, so a failure part way through leaves
// the earlier ids updated.
type ReorderOutcome struct {
	Updated []string          `json:"updated"`
	Failed  map[string]*Error `json:"failed,omitempty"`
}

// OK reports whether every id was updated.
func (o ReorderOutcome) OK() bool {
	return len(o.Failed) == 0
}

// BatchOutcome reports the per-id result of a batch delete. An id may appear
// in both Deleted and Failed when its row was removed but its stored object
// could not be.
type BatchOutcome struct {
	Deleted []string          `json:"deleted"`
	Failed  map[string]*Error `json:"failed,omitempty"`
}

// OK reports whether every id was deleted cleanly.
func (o BatchOutcome) OK() bool {
	return len(o.Failed) == 0
}
