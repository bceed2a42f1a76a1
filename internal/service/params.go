package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CONNECT", "DISCONNECT", "PSET", "VERIFY", "TELEMETRY", "ERROR"
}

// TelemetryStatus is a snapshot of the egram feed.
type TelemetryStatus struct {
	Active  bool   `json:"active"`
	Chamber string `json:"chamber,omitempty"` // filter of the running stream
	Dropped uint64 `json:"dropped"`           // samples discarded by the overflow policy
}
