// models/state.go
package models

import (
	"maps"
	"time"
)

// DefaultWatermarkKey holds the watermark used for locations never seen before.
const DefaultWatermarkKey = "DEFAULT"

// RunState maps a location code to the creation timestamp last processed for
// it. It is owned by the caller and threaded explicitly through a run.
type RunState map[string]time.Time

// Watermark returns the stored watermark for code, falling back to DEFAULT.
func (s RunState) Watermark(code string) time.Time {
	if t, ok := s[code]; ok {
		return t
	}
	return s[DefaultWatermarkKey]
}

func (s RunState) Clone() RunState {
	return maps.Clone(s)
}

// Restore resets code to the value it had in prev, removing it if prev never
// held it.
func (s RunState) Restore(prev RunState, code string) {
	if t, ok := prev[code]; ok {
		s[code] = t
		return
	}
	delete(s, code)
}
