package sanitize

import (
	"math"
	"reflect"
	"testing"
	"time"
)

type segmentReport struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Secret string  `json:"-"`
	Plain  int
	hidden string
}

func floatPtr(f float64) *float64 { return &f }

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nan becomes zero", math.NaN(), 0.0},
		{"positive infinity becomes zero", math.Inf(1), 0.0},
		{"negative infinity becomes zero", math.Inf(-1), 0.0},
		{"finite float passes", 7.25, 7.25},
		{"int64 narrows to int", int64(42), 42},
		{"uint becomes int", uint16(7), 7},
		{"bool passes", true, true},
		{"string passes", "Sycamore Canyon", "Sycamore Canyon"},
		{"byte slice becomes string", []byte("bib 42"), "bib 42"},
		{"nil pointer becomes nil", (*float64)(nil), nil},
		{"pointer dereferenced", floatPtr(math.NaN()), 0.0},
		{"nil value stays nil", nil, nil},
		{
			name: "slice cleaned elementwise",
			in:   []float64{1.5, math.Inf(1)},
			want: []any{1.5, 0.0},
		},
		{
			name: "map keys stringified",
			in:   map[int]float64{3: math.NaN()},
			want: map[string]any{"3": 0.0},
		},
		{
			name: "struct keyed by json tags",
			in:   segmentReport{Name: "Jerome", Score: math.NaN(), Secret: "x", Plain: 2, hidden: "y"},
			want: map[string]any{"name": "Jerome", "score": 0.0, "Plain": 2},
		},
		{
			name: "pointer to struct",
			in:   &segmentReport{Name: "Jerome", Plain: 1},
			want: map[string]any{"name": "Jerome", "score": 0.0, "Plain": 1},
		},
		{
			name: "stringer structs stringify",
			in:   time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC),
			want: "2026-05-04 05:00:00 +0000 UTC",
		},
		{
			name: "nested payload keeps its shape",
			in:   map[string]any{"points": []any{map[string]any{"pace": math.Inf(-1)}}},
			want: map[string]any{"points": []any{map[string]any{"pace": 0.0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Clean(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	payload := map[string]any{
		"runner": segmentReport{Name: "Corcione", Score: math.NaN(), Plain: 3},
		"paces":  []float64{12.5, math.Inf(1), 14.0},
		"base":   floatPtr(12.0),
	}

	once := Clean(payload)
	twice := Clean(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Clean is not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}
