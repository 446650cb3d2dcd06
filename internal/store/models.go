package store

import (
	"slices"
	"time"
)

// Station types as stored in aid_stations.station_type
const (
	StationAid      = "aid"
	StationCrew     = "crew"
	StationDropBag  = "drop_bag"
	StationCrewAid  = "crew_aid"
	StationMajorAid = "major_aid"
)

// Result statuses as stored in race_results.status
const (
	StatusFinished = "Finished"
	StatusDNF      = "DNF"
	StatusDNS      = "DNS"
	StatusDQ       = "DQ"
)

// Race represents one edition of an ultramarathon event
type Race struct {
	ID                int64      `db:"id"`
	Name              string     `db:"name"`
	Year              int        `db:"year"`
	StartTime         *time.Time `db:"start_time"` // gun time; nullable for historical imports
	Location          string     `db:"location"`
	DistanceMiles     float64    `db:"distance_miles"`
	ElevationGainFeet float64    `db:"elevation_gain_feet"`
	ElevationLossFeet float64    `db:"elevation_loss_feet"`
	TimeLimitHours    float64    `db:"time_limit_hours"`
	CourseDescription string     `db:"course_description"`
}

// Runner represents a competitor
type Runner struct {
	ID        int64  `db:"id"`
	BibNumber string `db:"bib_number"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Age       *int   `db:"age"`
	Gender    string `db:"gender"` // M, F, X or empty
	City      string `db:"city"`
	State     string `db:"state"`
	Country   string `db:"country"`
}

// RaceResult links a runner to a race
type RaceResult struct {
	ID               int64    `db:"id"`
	RaceID           int64    `db:"race_id"`
	RunnerID         int64    `db:"runner_id"`
	BibNumber        string   `db:"bib_number"`
	FinishTimeHours  *float64 `db:"finish_time_hours"`
	FinishPosition   *int     `db:"finish_position"`
	Status           string   `db:"status"`
	SplitsAvailable  bool     `db:"splits_available"`
	StravaActivityID *int64   `db:"strava_activity_id"`
}

// Split represents one recorded mile for one race result
type Split struct {
	ID                    int64    `db:"id"`
	RaceResultID          int64    `db:"race_result_id"`
	MileNumber            int      `db:"mile_number"`
	DistanceMiles         float64  `db:"distance_miles"`
	SplitTimeSeconds      *float64 `db:"split_time_seconds"`
	PaceSeconds           *float64 `db:"pace_seconds"`
	CumulativeTimeSeconds *float64 `db:"cumulative_time_seconds"`
	ElevationFeet         *float64 `db:"elevation_feet"`
	TemperatureF          *float64 `db:"temperature_f"`
	Notes                 string   `db:"notes"`
}

// AidStation is a fixed support waypoint on the course
type AidStation struct {
	ID              int64    `db:"id"`
	RaceID          int64    `db:"race_id"`
	Name            string   `db:"name"`
	DistanceMiles   float64  `db:"distance_miles"`
	ElevationFeet   *float64 `db:"elevation_feet"`
	StationType     string   `db:"station_type"`
	Services        []string `db:"services"` // stored as a JSON array
	CrewAccess      bool     `db:"crew_access"`
	DropBagAccess   bool     `db:"drop_bag_access"`
	CutoffTimeHours *float64 `db:"cutoff_time_hours"`
	Notes           string   `db:"notes"`
}

// SleepStation reports whether runners can sleep at this station.
// Major aid stations are sleep-capable; smaller stations only when the
// race explicitly lists sleeping as a service.
func (a *AidStation) SleepStation() bool {
	return a.StationType == StationMajorAid || a.HasService("sleep") || a.HasService("sleeping")
}

// CrewAccessible reports whether crews can reach this station
func (a *AidStation) CrewAccessible() bool {
	switch a.StationType {
	case StationCrew, StationCrewAid, StationMajorAid:
		return true
	}
	return a.CrewAccess
}

// DropBags reports whether runners can stage drop bags here
func (a *AidStation) DropBags() bool {
	return a.DropBagAccess || a.StationType == StationDropBag
}

// HasMedic reports whether medical staff are present
func (a *AidStation) HasMedic() bool {
	return a.HasService("medical") || a.HasService("medic")
}

// GearCheck reports whether a mandatory gear check happens here
func (a *AidStation) GearCheck() bool {
	return a.HasService("gear_check")
}

// HasService reports whether the station's service list contains name
func (a *AidStation) HasService(name string) bool {
	return slices.Contains(a.Services, name)
}

// CourseSegmentMeta is curated per-segment course knowledge (terrain,
// typical conditions). The analysis engine derives its own segment spans
// from aid stations and overlays this metadata where spans overlap.
type CourseSegmentMeta struct {
	ID                int64   `db:"id"`
	RaceID            int64   `db:"race_id"`
	SegmentName       string  `db:"segment_name"`
	StartMile         float64 `db:"start_mile"`
	EndMile           float64 `db:"end_mile"`
	TerrainType       string  `db:"terrain_type"`
	DifficultyRating  float64 `db:"difficulty_rating"`
	ElevationGainFeet float64 `db:"elevation_gain_feet"`
	ElevationLossFeet float64 `db:"elevation_loss_feet"`
	TypicalConditions string  `db:"typical_conditions"`
	Notes             string  `db:"notes"`
}

// TrackPoint is one pre-processed route elevation sample
type TrackPoint struct {
	RaceID        int64   `db:"race_id"`
	Mile          float64 `db:"mile"`
	ElevationFeet float64 `db:"elevation_feet"`
}

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// ImportRun records one importer invocation
type ImportRun struct {
	ID        string    `db:"id"` // UUID
	Kind      string    `db:"kind"`
	Source    string    `db:"source"`
	RaceID    int64     `db:"race_id"`
	Records   int       `db:"records"`
	CreatedAt time.Time `db:"created_at"`
}
