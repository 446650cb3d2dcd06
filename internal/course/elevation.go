package course

import (
	"sort"

	"ultrasmart/internal/store"
)

// ElevationTrack wraps a race's pre-processed route elevation samples
// and answers point and range queries against them.
type ElevationTrack struct {
	points []store.TrackPoint
}

// NewElevationTrack builds a track from elevation samples, ordering them
// by mile. A nil or empty slice yields a usable track that reports no data.
func NewElevationTrack(points []store.TrackPoint) *ElevationTrack {
	sorted := make([]store.TrackPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mile < sorted[j].Mile })
	return &ElevationTrack{points: sorted}
}

// Empty reports whether the track has no samples
func (t *ElevationTrack) Empty() bool {
	return t == nil || len(t.points) == 0
}

// ElevationAt returns the elevation at a mile mark, linearly interpolated
// between the neighboring samples. Miles beyond either end return the
// nearest endpoint. Returns ok=false when the track has no samples.
func (t *ElevationTrack) ElevationAt(mile float64) (float64, bool) {
	if t.Empty() {
		return 0, false
	}

	pts := t.points
	if mile <= pts[0].Mile {
		return pts[0].ElevationFeet, true
	}
	if mile >= pts[len(pts)-1].Mile {
		return pts[len(pts)-1].ElevationFeet, true
	}

	// First sample at or beyond the requested mile
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Mile >= mile })
	prev, next := pts[i-1], pts[i]
	if next.Mile == prev.Mile {
		return next.ElevationFeet, true
	}

	frac := (mile - prev.Mile) / (next.Mile - prev.Mile)
	return prev.ElevationFeet + frac*(next.ElevationFeet-prev.ElevationFeet), true
}

// GainLoss sums elevation change over [startMile, endMile]: gain is the
// total of positive deltas between consecutive samples in the span, loss
// the total of negative deltas as a positive number. Deltas are local, so
// the result does not depend on sample density. A track with fewer than
// two samples in the span reports 0, 0.
func (t *ElevationTrack) GainLoss(startMile, endMile float64) (gain, loss float64) {
	if t.Empty() {
		return 0, 0
	}

	var inSpan []float64
	for _, p := range t.points {
		if p.Mile < startMile {
			continue
		}
		if p.Mile > endMile {
			break
		}
		inSpan = append(inSpan, p.ElevationFeet)
	}

	for i := 1; i < len(inSpan); i++ {
		delta := inSpan[i] - inSpan[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss += -delta
		}
	}
	return gain, loss
}
