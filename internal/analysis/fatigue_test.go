package analysis

import (
	"math"
	"testing"
	"time"

	"ultrasmart/internal/course"
	"ultrasmart/internal/store"
)

func TestBaselinePace(t *testing.T) {
	cfg := DefaultFatigueConfig()

	tests := []struct {
		name   string
		splits []Split
		want   float64
	}{
		{
			name:   "median of the first ten miles",
			splits: makeSplits(10, 10, 11, 11, 12, 12, 13, 13, 14, 14, 99, 99),
			want:   12,
		},
		{
			name:   "missing paces dropped before the median",
			splits: makeSplits(0, 0, 10, 12),
			want:   11,
		},
		{
			name:   "no usable paces falls back to the default",
			splits: uniformSplits(0, 5),
			want:   12.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baselinePace(tt.splits, cfg); math.Abs(got-tt.want) > 0.01 {
				t.Errorf("baselinePace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDayAdjustment(t *testing.T) {
	morning := time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 4, 21, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start      *time.Time
		cumMinutes float64
		wantClock  string
		wantFactor float64
	}{
		{"no start time", nil, 120, "", 1.0},
		{"no elapsed time", &morning, 0, "", 1.0},
		{"early morning counts as night", &morning, 60, "06:00", 1.10},
		{"mid morning runs faster", &morning, 300, "10:00", 0.98},
		{"evening is neutral", &morning, 870, "19:30", 1.0},
		{"late night slows down", &evening, 90, "22:30", 1.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, factor := timeOfDayAdjustment(tt.start, tt.cumMinutes)
			if math.Abs(factor-tt.wantFactor) > 0.001 {
				t.Errorf("factor = %v, want %v", factor, tt.wantFactor)
			}
			if tt.wantClock == "" {
				if clock != nil {
					t.Errorf("clock = %v, want nil", *clock)
				}
				return
			}
			if clock == nil || *clock != tt.wantClock {
				t.Errorf("clock = %v, want %q", clock, tt.wantClock)
			}
		})
	}
}

func TestIsRestMile(t *testing.T) {
	tests := []struct {
		name   string
		splits []Split
		idx    int
		want   bool
	}{
		{"spike over the neighborhood", makeSplits(10, 10, 30, 10, 10), 2, true},
		{"uniform pace", uniformSplits(10, 3), 1, false},
		{"zero pace never rests", makeSplits(10, 0, 10), 1, false},
		{"no usable neighbors", makeSplits(0, 20, 0), 1, false},
		{"window clips at the edges", makeSplits(30, 10, 10), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isRestMile(tt.splits, tt.idx, 3, 1.5)
			if got != tt.want {
				t.Errorf("isRestMile(idx %d) = %v, want %v", tt.idx, got, tt.want)
			}
		})
	}
}

func TestRecentAidStation(t *testing.T) {
	stations := []store.AidStation{
		makeStation("Iron King", 8, store.StationAid),
		makeStation("Fain Ranch", 10, store.StationCrewAid),
	}

	tests := []struct {
		name string
		mile float64
		want string
	}{
		{"closest behind wins", 12, "Fain Ranch"},
		{"stations ahead ignored", 9, "Iron King"},
		{"beyond the lookback", 16, ""},
		{"standing at the station", 10, "Fain Ranch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recentAidStation(stations, tt.mile, 5.0)
			if tt.want == "" {
				if got != nil {
					t.Errorf("recentAidStation(%v) = %q, want nil", tt.mile, got.Name)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("recentAidStation(%v) = %v, want %q", tt.mile, got, tt.want)
			}
		})
	}
}

func TestBuildFatigue(t *testing.T) {
	start := time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		splits   []Split
		segments []course.Segment
		stations []store.AidStation
		start    *time.Time
		check    func(*testing.T, []FatiguePoint, float64)
	}{
		{
			name:   "flat course with no context",
			splits: uniformSplits(12, 3),
			check: func(t *testing.T, points []FatiguePoint, basePace float64) {
				if basePace != 12 {
					t.Errorf("basePace = %v, want 12", basePace)
				}
				if len(points) != 3 {
					t.Fatalf("got %d points, want 3", len(points))
				}
				// default difficulty 3 gives 12 * 1.2 = 14.4 expected
				if math.Abs(points[0].ExpectedPace-14.4) > 0.01 {
					t.Errorf("ExpectedPace = %v, want 14.4", points[0].ExpectedPace)
				}
				if math.Abs(points[0].FatigueFactor-0.8333) > 0.001 {
					t.Errorf("FatigueFactor = %v, want 0.8333", points[0].FatigueFactor)
				}
				if points[0].TimeOfDay != nil {
					t.Errorf("TimeOfDay = %v, want nil", *points[0].TimeOfDay)
				}
				if points[0].RecentAidStation != nil {
					t.Errorf("RecentAidStation = %v, want nil", *points[0].RecentAidStation)
				}
			},
		},
		{
			name:   "hard segment raises the expected pace",
			splits: uniformSplits(12, 5),
			segments: []course.Segment{
				{Name: "Mingus climb", StartMile: 0, EndMile: 10, DifficultyRating: 5, ElevationGainFeet: 3000},
			},
			check: func(t *testing.T, points []FatiguePoint, basePace float64) {
				// terrain 0.9 + 4*0.15 = 1.5, elevation 1 + 3*0.01 = 1.03
				// expected 12 * 1.5 * 1.03 = 18.54
				if math.Abs(points[0].ExpectedPace-18.54) > 0.01 {
					t.Errorf("ExpectedPace = %v, want 18.54", points[0].ExpectedPace)
				}
				if math.Abs(points[0].FatigueFactor-0.6472) > 0.001 {
					t.Errorf("FatigueFactor = %v, want 0.6472", points[0].FatigueFactor)
				}
				if points[0].TerrainDifficulty != 5 {
					t.Errorf("TerrainDifficulty = %v, want 5", points[0].TerrainDifficulty)
				}
				if points[0].ElevationGain != 3000 {
					t.Errorf("ElevationGain = %v, want 3000", points[0].ElevationGain)
				}
			},
		},
		{
			name:   "night start slows expectations",
			splits: uniformSplits(12, 2),
			start:  &start,
			check: func(t *testing.T, points []FatiguePoint, basePace float64) {
				// 05:00 start plus 12 minutes is still night, 14.4 * 1.10 = 15.84
				if points[0].TimeOfDay == nil || *points[0].TimeOfDay != "05:12" {
					t.Errorf("TimeOfDay = %v, want 05:12", points[0].TimeOfDay)
				}
				if math.Abs(points[0].ExpectedPace-15.84) > 0.01 {
					t.Errorf("ExpectedPace = %v, want 15.84", points[0].ExpectedPace)
				}
			},
		},
		{
			name:   "rest mile is flagged",
			splits: makeSplits(12, 12, 12, 40, 12, 12, 12),
			check: func(t *testing.T, points []FatiguePoint, basePace float64) {
				if !points[3].IsRestPeriod {
					t.Error("points[3].IsRestPeriod = false, want true")
				}
				// 40 / 14.4 = 2.7778
				if math.Abs(points[3].FatigueFactor-2.7778) > 0.001 {
					t.Errorf("FatigueFactor = %v, want 2.7778", points[3].FatigueFactor)
				}
				for _, i := range []int{0, 4} {
					if points[i].IsRestPeriod {
						t.Errorf("points[%d].IsRestPeriod = true, want false", i)
					}
				}
			},
		},
		{
			name:   "recent aid stations attach to points",
			splits: uniformSplits(12, 13),
			stations: []store.AidStation{
				makeStation("Whiskey Row", 10, store.StationAid),
			},
			check: func(t *testing.T, points []FatiguePoint, basePace float64) {
				if points[11].RecentAidStation == nil || *points[11].RecentAidStation != "Whiskey Row" {
					t.Errorf("mile 12 station = %v, want Whiskey Row", points[11].RecentAidStation)
				}
				if points[3].RecentAidStation != nil {
					t.Errorf("mile 4 station = %v, want nil", *points[3].RecentAidStation)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, basePace := BuildFatigue(tt.splits, tt.segments, tt.stations, tt.start, DefaultFatigueConfig())
			if len(points) != len(tt.splits) {
				t.Fatalf("got %d points for %d splits", len(points), len(tt.splits))
			}
			tt.check(t, points, basePace)
		})
	}
}
