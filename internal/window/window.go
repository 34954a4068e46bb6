// Package window slices the tracking stream into the pre/post segments
// around a critical event. Windows are recomputed per event, never cached.
package window

import (
	"fmt"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Extract returns the frames within halfSeconds before and after the event
// timestamp, restricted to the event's period. Segments at a match boundary
// are truncated to the available frames, never padded: callers must tolerate
// asymmetric pre/post counts. An event with no frame on either side yields
// ErrInsufficientWindow.
func Extract(frames []model.TrackingFrame, ev model.Event, halfSeconds float64) (model.TemporalWindow, error) {
	var w model.TemporalWindow
	for _, f := range frames {
		if f.Period != ev.Period {
			continue
		}
		switch {
		case f.Timestamp >= ev.Timestamp-halfSeconds && f.Timestamp < ev.Timestamp:
			w.Pre = append(w.Pre, f)
		case f.Timestamp >= ev.Timestamp && f.Timestamp <= ev.Timestamp+halfSeconds:
			w.Post = append(w.Post, f)
		}
	}
	if len(w.Pre) == 0 && len(w.Post) == 0 {
		return w, fmt.Errorf("%w: no frames around event %s at %.1fs",
			model.ErrInsufficientWindow, ev.EventID, ev.Timestamp)
	}
	return w, nil
}
