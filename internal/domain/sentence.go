package domain

import "time"

// TimeLayout is the storage and wire format for sentence timestamps.
// Fixed-width RFC3339 with nanoseconds, so lexicographic order of the
// stored strings matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Sentence struct {
	ID        int64     `json:"-"`
	Text      string    `json:"text"`
	Author    string    `json:"author"` // any name or "Anonymous"
	CreatedAt time.Time `json:"-"`
	ClientID  string    `json:"-"` // rate-limit key only, never serialized
}
