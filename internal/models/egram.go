package models

// Chamber tags for electrogram samples.
const (
	ChamberAtrium    = "A"
	ChamberVentricle = "V"
)

// IsChamber reports whether tag names a valid chamber.
func IsChamber(tag string) bool {
	return tag == ChamberAtrium || tag == ChamberVentricle
}

// EgramSample is one telemetry reading. Immutable once produced.
type EgramSample struct {
	Chamber     string  `json:"chamber"`      // A | V
	TimestampMS int64   `json:"timestamp_ms"` // monotonic device clock
	ValueMV     float64 `json:"value_mv"`
}
