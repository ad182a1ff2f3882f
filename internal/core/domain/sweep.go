package domain

import "time"

// SweepState describes the lifecycle of a batch scan.
type SweepState string

const (
	SweepIdle      SweepState = "idle"
	SweepRunning   SweepState = "running"
	SweepCompleted SweepState = "completed"
	SweepCancelled SweepState = "cancelled"
)

// SweepStatus is the queryable progress of the current or last batch scan.
type SweepStatus struct {
	ID         string     `json:"id,omitempty"`
	State      SweepState `json:"state"`
	Targets    int        `json:"targets"`
	Processed  int        `json:"processed"`
	Skipped    int        `json:"skipped"` // denied targets, counted but never probed
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at,omitempty"`
	FinishedAt time.Time  `json:"finished_at,omitempty"`
}
