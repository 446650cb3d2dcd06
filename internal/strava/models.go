package strava

import "time"

// Activity is a summary of a Strava activity. Only the fields the
// splits importer cares about are decoded.
type Activity struct {
	ID                 int64     `json:"id"`
	Athlete            Athlete   `json:"athlete"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// Streams holds the time series used to derive mile splits.
// Strava returns streams keyed by type when key_by_type=true.
// Time is seconds from activity start, Distance cumulative meters,
// Altitude meters above sea level.
type Streams struct {
	Time     *StreamData[int]     `json:"time"`
	Distance *StreamData[float64] `json:"distance"`
	Altitude *StreamData[float64] `json:"altitude"`
}

// StreamData represents a single stream type
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// Len returns the length of the stream, or 0 if nil
func (s *Streams) Len() int {
	if s == nil || s.Time == nil {
		return 0
	}
	return len(s.Time.Data)
}

// HasDistance returns true if distance data exists
func (s *Streams) HasDistance() bool {
	return s != nil && s.Distance != nil && len(s.Distance.Data) > 0
}
