package analysis

import "ultrasmart/internal/store"

// Split is one mile of a runner's race as the analysis engine sees it.
// All paces and times are minutes. Store rows convert through
// FromStoreSplits, which centralizes the defaulting rules for absent
// values so they are not repeated per call site.
type Split struct {
	Mile              int
	SplitMinutes      float64
	PacePerMile       float64
	CumulativeMinutes float64
}

// FromStoreSplits converts persisted split rows to engine splits.
// Pace falls back to the mile's split time when no explicit pace was
// recorded, and to 0 when neither is present.
func FromStoreSplits(rows []store.Split) []Split {
	splits := make([]Split, 0, len(rows))
	for _, r := range rows {
		s := Split{Mile: r.MileNumber}
		if r.SplitTimeSeconds != nil {
			s.SplitMinutes = *r.SplitTimeSeconds / 60.0
		}
		switch {
		case r.PaceSeconds != nil && *r.PaceSeconds > 0:
			s.PacePerMile = *r.PaceSeconds / 60.0
		case s.SplitMinutes > 0:
			// Splits are one mile each, so the split time doubles as pace
			s.PacePerMile = s.SplitMinutes
		}
		if r.CumulativeTimeSeconds != nil {
			s.CumulativeMinutes = *r.CumulativeTimeSeconds / 60.0
		}
		splits = append(splits, s)
	}
	return splits
}
