package course

import (
	"fmt"

	"ultrasmart/internal/store"
)

const (
	defaultTerrain    = "mixed"
	defaultConditions = "variable"
	defaultDifficulty = 3.0
)

// Segment is the course span between two consecutive aid stations.
// Segments are derived fresh from current aid-station and elevation data
// on every analysis request and never persisted.
type Segment struct {
	Name              string
	StartMile         float64
	EndMile           float64
	TerrainType       string
	DifficultyRating  float64
	ElevationGainFeet float64
	ElevationLossFeet float64
	TypicalConditions string
}

// Length returns the segment length in miles
func (s *Segment) Length() float64 {
	return s.EndMile - s.StartMile
}

// GainRate returns elevation gain per mile, 0 for a zero-length segment
func (s *Segment) GainRate() float64 {
	if s.Length() <= 0 {
		return 0
	}
	return s.ElevationGainFeet / s.Length()
}

// LossRate returns elevation loss per mile, 0 for a zero-length segment
func (s *Segment) LossRate() float64 {
	if s.Length() <= 0 {
		return 0
	}
	return s.ElevationLossFeet / s.Length()
}

// Segments derives course segments from consecutive aid-station pairs.
// Fewer than two stations yields an empty list, not an error. Elevation
// gain/loss comes from the track; terrain, conditions and the provisional
// difficulty come from curated metadata overlapping the segment midpoint,
// with defaults when no row matches.
func Segments(stations []store.AidStation, track *ElevationTrack, meta []store.CourseSegmentMeta) []Segment {
	if len(stations) < 2 {
		return nil
	}

	segments := make([]Segment, 0, len(stations)-1)
	for i := 0; i < len(stations)-1; i++ {
		a, b := stations[i], stations[i+1]
		seg := Segment{
			Name:              fmt.Sprintf("%s to %s", a.Name, b.Name),
			StartMile:         a.DistanceMiles,
			EndMile:           b.DistanceMiles,
			TerrainType:       defaultTerrain,
			DifficultyRating:  defaultDifficulty,
			TypicalConditions: defaultConditions,
		}
		seg.ElevationGainFeet, seg.ElevationLossFeet = track.GainLoss(seg.StartMile, seg.EndMile)

		mid := (seg.StartMile + seg.EndMile) / 2
		for j := range meta {
			m := &meta[j]
			if mid >= m.StartMile && mid <= m.EndMile {
				if m.TerrainType != "" {
					seg.TerrainType = m.TerrainType
				}
				if m.TypicalConditions != "" {
					seg.TypicalConditions = m.TypicalConditions
				}
				if m.DifficultyRating > 0 {
					seg.DifficultyRating = m.DifficultyRating
				}
				break
			}
		}

		segments = append(segments, seg)
	}
	return segments
}

// SegmentAt returns the segment containing a mile mark. Boundaries belong
// to the following segment except the course end, which stays in the
// final segment.
func SegmentAt(segments []Segment, mile float64) (Segment, bool) {
	for i := range segments {
		s := segments[i]
		if mile >= s.StartMile && mile < s.EndMile {
			return s, true
		}
	}
	if n := len(segments); n > 0 && mile == segments[n-1].EndMile {
		return segments[n-1], true
	}
	return Segment{}, false
}
