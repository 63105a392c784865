package domain

import "time"

// SnapshotEvent announces that a dataset snapshot was replaced.
type SnapshotEvent struct {
	Dataset     Dataset   `json:"dataset"`
	RecordCount int       `json:"record_count"`
	StoredAt    time.Time `json:"stored_at"`
	Records     Series    `json:"records"`
}

// NewSnapshotEvent builds the change event for series stored at storedAt.
func NewSnapshotEvent(series Series, storedAt time.Time) SnapshotEvent {
	return SnapshotEvent{
		Dataset:     series.Dataset,
		RecordCount: series.Len(),
		StoredAt:    storedAt.UTC(),
		Records:     series,
	}
}
