// Package time contains time related helpers
package time

import "time"

// UTCPtr returns a pointer to t normalized to UTC, or nil if t is zero.
// Wire formats carry optional close times as nullable fields, so zero in
// means null out
func UTCPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
