package analysis

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"ultrasmart/internal/course"
)

// Benchmark holds the field-wide reference paces for one segment, used to
// normalize an individual runner's performance.
type Benchmark struct {
	SegmentName       string  `json:"-"`
	SegmentLeaderPace float64 `json:"segment_leader_pace"`
	RaceWinnerPace    float64 `json:"race_winner_pace"`
	FieldAveragePace  float64 `json:"field_average_pace"`
	FieldMedianPace   float64 `json:"field_median_pace"`
	FieldSize         int     `json:"field_size"`
}

// BuildBenchmarks aggregates every runner's per-segment pace into leader,
// winner, mean and median references. Segments nobody has data for are
// omitted rather than zero-filled. Per-runner work fans out across workers
// since contributions reduce commutatively; the winner tie-break stays
// deterministic by walking runner IDs in ascending order.
func BuildBenchmarks(ctx context.Context, segments []course.Segment, fieldSplits map[int64][]Split, workers int) map[string]Benchmark {
	if len(segments) == 0 || len(fieldSplits) == 0 {
		return map[string]Benchmark{}
	}
	if workers < 1 {
		workers = 1
	}

	ids := make([]int64, 0, len(fieldSplits))
	for id := range fieldSplits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// One slot per runner, so goroutines never share state
	perRunner := make([]map[string]float64, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perRunner[i] = segmentPaces(segments, fieldSplits[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return map[string]Benchmark{}
	}

	winnerIdx := winnerIndex(ids, fieldSplits)

	benchmarks := make(map[string]Benchmark, len(segments))
	for _, seg := range segments {
		var paces []float64
		for _, runnerPaces := range perRunner {
			if pace, ok := runnerPaces[seg.Name]; ok {
				paces = append(paces, pace)
			}
		}
		if len(paces) == 0 {
			continue
		}

		leader := paces[0]
		for _, p := range paces[1:] {
			if p < leader {
				leader = p
			}
		}

		var winnerPace float64
		if winnerIdx >= 0 {
			winnerPace = perRunner[winnerIdx][seg.Name]
		}

		benchmarks[seg.Name] = Benchmark{
			SegmentName:       seg.Name,
			SegmentLeaderPace: leader,
			RaceWinnerPace:    winnerPace,
			FieldAveragePace:  mean(paces),
			FieldMedianPace:   median(paces),
			FieldSize:         len(paces),
		}
	}
	return benchmarks
}

// segmentPaces maps segment name to one runner's average positive pace
// over the splits falling inside that segment
func segmentPaces(segments []course.Segment, splits []Split) map[string]float64 {
	paces := make(map[string]float64, len(segments))
	for _, seg := range segments {
		var inSegment []float64
		for _, s := range splits {
			m := float64(s.Mile)
			if m >= seg.StartMile && m <= seg.EndMile && s.PacePerMile > 0 {
				inSegment = append(inSegment, s.PacePerMile)
			}
		}
		if len(inSegment) > 0 {
			paces[seg.Name] = mean(inSegment)
		}
	}
	return paces
}

// winnerIndex finds the runner with the lowest finishing cumulative time.
// Ties keep the first encountered in ascending ID order; runners with no
// usable time are skipped. Returns -1 when nobody has one.
func winnerIndex(ids []int64, fieldSplits map[int64][]Split) int {
	best := -1
	var bestTime float64
	for i, id := range ids {
		t := finishTime(fieldSplits[id])
		if t <= 0 {
			continue
		}
		if best == -1 || t < bestTime {
			best = i
			bestTime = t
		}
	}
	return best
}

// finishTime is the last cumulative timestamp of a series, falling back
// to total split time when cumulative data was never recorded
func finishTime(splits []Split) float64 {
	if len(splits) == 0 {
		return 0
	}
	if t := splits[len(splits)-1].CumulativeMinutes; t > 0 {
		return t
	}
	var total float64
	for _, s := range splits {
		total += s.SplitMinutes
	}
	return total
}
