package model

import "time"

// Memory is the single long-term condensation of a user's journal history.
// At most one exists per user. It is absent until the first batch refresh
// fires, then overwritten (never appended) on each subsequent refresh.
type Memory struct {
	Summary     string    `firestore:"summary" json:"summary"`
	LastUpdated time.Time `firestore:"lastUpdated" json:"lastUpdated"`
}
