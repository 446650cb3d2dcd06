package analysis

import (
	"fmt"
	"math"
	"strings"

	"ultrasmart/internal/store"
)

// RestConfig holds the tunables of the rest period detector
type RestConfig struct {
	PaceRatio             float64 `koanf:"pace_ratio"`
	AbsoluteSlowPace      float64 `koanf:"absolute_slow_pace"`
	StationRadiusMiles    float64 `koanf:"station_radius_miles"`
	GPSFlagMiles          float64 `koanf:"gps_flag_miles"`
	SleepOpportunities    int     `koanf:"sleep_opportunities"`
	OfficialSleepStations int     `koanf:"official_sleep_stations"`
	CrewAidStations       int     `koanf:"crew_aid_stations"`
}

// DefaultRestConfig returns the standard rest detector tunables. The
// opportunity counts reflect a typical 250-mile course: four official
// sleep stations plus six crew-accessible aid stations.
func DefaultRestConfig() RestConfig {
	return RestConfig{
		PaceRatio:             1.3,
		AbsoluteSlowPace:      35.0,
		StationRadiusMiles:    5.0,
		GPSFlagMiles:          2.0,
		SleepOpportunities:    10,
		OfficialSleepStations: 4,
		CrewAidStations:       6,
	}
}

// RestPeriod is one detected stop or anomalous slowdown
type RestPeriod struct {
	Mile                 int      `json:"mile"`
	EstimatedRestMinutes float64  `json:"estimated_rest_minutes"`
	PaceBefore           float64  `json:"pace_before"`
	PaceDuring           float64  `json:"pace_during"`
	PaceRatio            float64  `json:"pace_ratio"`
	NearbyAidStation     *string  `json:"nearby_aid_station"`
	AidStationDistance   *float64 `json:"aid_station_distance"`
	AidStationType       *string  `json:"aid_station_type"`
	IsSleepStation       bool     `json:"is_sleep_station"`
	AidServices          []string `json:"aid_services"`
	GPSCorrected         bool     `json:"gps_corrected"`
	LikelyReason         string   `json:"likely_reason"`
	Confidence           string   `json:"confidence"`
	RestType             string   `json:"rest_type"`
}

// AidStop is one rest period attributed to a specific aid station
type AidStop struct {
	StationName         string  `json:"station_name"`
	Mile                int     `json:"mile"`
	RestDurationMinutes float64 `json:"rest_duration_minutes"`
	IsSleepStation      bool    `json:"is_sleep_station"`
	IsCrewStation       bool    `json:"is_crew_station"`
	StationType         string  `json:"station_type"`
	RestType            string  `json:"rest_type"`
}

// StopPatterns summarizes a runner's aid station usage across a race
type StopPatterns struct {
	TotalAidStationStops            int     `json:"total_aid_station_stops"`
	SleepStationUsage               int     `json:"sleep_station_usage"`
	CrewRestUsage                   int     `json:"crew_rest_usage"`
	SleepOpportunityUtilizationRate float64 `json:"sleep_opportunity_utilization_rate"`
	OfficialSleepStationRate        float64 `json:"official_sleep_station_rate"`
	CrewAidUtilizationRate          float64 `json:"crew_aid_utilization_rate"`
	AverageRegularStopMinutes       float64 `json:"average_regular_stop_minutes"`
	AverageSleepStopMinutes         float64 `json:"average_sleep_stop_minutes"`
	LongestRestStation              *string `json:"longest_rest_station"`
	LongestRestDuration             float64 `json:"longest_rest_duration"`
	RestStrategy                    string  `json:"rest_strategy"`
}

// DetectRests scans consecutive mile pairs for stops. A candidate is
// raised when the pace ratio exceeds the configured threshold, or when
// the mile is slower than the absolute fallback regardless of ratio,
// which catches a stall that follows an already slow mile. Candidates
// are matched to the nearest aid station within the search radius;
// matches farther than the GPS tolerance are flagged as corrected.
func DetectRests(splits []Split, stations []store.AidStation, cfg RestConfig) ([]RestPeriod, []AidStop) {
	var periods []RestPeriod
	var stops []AidStop

	for i := 1; i < len(splits); i++ {
		cur, prev := splits[i], splits[i-1]
		if cur.PacePerMile <= 0 || prev.PacePerMile <= 0 {
			continue
		}

		ratio := cur.PacePerMile / prev.PacePerMile
		if ratio <= cfg.PaceRatio && cur.PacePerMile <= cfg.AbsoluteSlowPace {
			continue
		}

		restMinutes := cur.PacePerMile - prev.PacePerMile
		station, distance := nearestStation(float64(cur.Mile), stations, cfg.StationRadiusMiles)
		reason, confidence, restType := classifyStop(station, restMinutes)

		period := RestPeriod{
			Mile:                 cur.Mile,
			EstimatedRestMinutes: restMinutes,
			PaceBefore:           prev.PacePerMile,
			PaceDuring:           cur.PacePerMile,
			PaceRatio:            ratio,
			AidServices:          []string{},
			LikelyReason:         reason,
			Confidence:           confidence,
			RestType:             restType,
		}
		if station != nil {
			period.NearbyAidStation = &station.Name
			period.AidStationDistance = &distance
			period.AidStationType = &station.StationType
			period.IsSleepStation = station.SleepStation()
			period.GPSCorrected = distance > cfg.GPSFlagMiles
			if len(station.Services) > 0 {
				period.AidServices = station.Services
			}

			stops = append(stops, AidStop{
				StationName:         station.Name,
				Mile:                cur.Mile,
				RestDurationMinutes: restMinutes,
				IsSleepStation:      station.SleepStation(),
				IsCrewStation:       station.StationType == store.StationCrewAid || station.StationType == store.StationMajorAid,
				StationType:         station.StationType,
				RestType:            restType,
			})
		}
		periods = append(periods, period)
	}
	return periods, stops
}

// nearestStation returns the closest station within radius miles of a
// mile mark, or nil when none is close enough
func nearestStation(mile float64, stations []store.AidStation, radius float64) (*store.AidStation, float64) {
	var nearest *store.AidStation
	var nearestDist float64
	for i := range stations {
		d := math.Abs(stations[i].DistanceMiles - mile)
		if d > radius {
			continue
		}
		if nearest == nil || d < nearestDist {
			nearest = &stations[i]
			nearestDist = d
		}
	}
	return nearest, nearestDist
}

// classifyStop interprets a stop from its duration and the matched
// station's capabilities. Rungs are ordered most to least specific;
// the first match wins.
func classifyStop(station *store.AidStation, restMinutes float64) (reason, confidence, restType string) {
	if station == nil {
		return "Trail issue or unplanned stop", "low", "unknown"
	}

	name := station.Name
	sleep := station.SleepStation()
	crew := station.CrewAccessible()

	switch {
	case restMinutes > 60 && sleep:
		return fmt.Sprintf("Extended rest/sleep at %s sleep station", name), "high", "sleep"
	case restMinutes > 90 && crew:
		return fmt.Sprintf("Crew-supported sleep rest at %s", name), "high", "crew_sleep"
	case restMinutes > 60 && crew:
		return fmt.Sprintf("Extended crew rest at %s", name), "high", "crew_extended_rest"
	case restMinutes > 30 && sleep:
		return fmt.Sprintf("Long rest at %s sleep station", name), "high", "extended_rest"
	case restMinutes > 45 && crew:
		return fmt.Sprintf("Significant crew support at %s", name), "medium", "crew_support"
	case restMinutes > 20 && station.HasMedic():
		return fmt.Sprintf("Medical attention at %s", name), "medium", "medical"
	case restMinutes > 20 && station.DropBags():
		return fmt.Sprintf("Drop bag organization at %s", name), "medium", "drop_bag_stop"
	case restMinutes > 15 && station.GearCheck():
		return fmt.Sprintf("Mandatory gear check at %s", name), "high", "gear_check"
	case restMinutes > 15 && crew:
		return fmt.Sprintf("Crew resupply/support at %s", name), "medium", "crew_resupply"
	case restMinutes > 10:
		return fmt.Sprintf("Standard aid station stop at %s", name), "medium", "aid_stop"
	default:
		return fmt.Sprintf("Quick stop at %s", name), "low", "quick_stop"
	}
}

// AggregateStopPatterns summarizes aid station usage. Returns nil when
// the runner recorded no attributable stops.
func AggregateStopPatterns(stops []AidStop, cfg RestConfig) *StopPatterns {
	if len(stops) == 0 {
		return nil
	}

	var sleepDurations, regularDurations []float64
	crewRests := 0
	longest := stops[0]
	for _, s := range stops {
		if s.IsSleepStation {
			sleepDurations = append(sleepDurations, s.RestDurationMinutes)
		} else {
			regularDurations = append(regularDurations, s.RestDurationMinutes)
		}
		if strings.HasPrefix(s.RestType, "crew") {
			crewRests++
		}
		if s.RestDurationMinutes > longest.RestDurationMinutes {
			longest = s
		}
	}

	avgRegular := 0.0
	if len(regularDurations) > 0 {
		avgRegular = mean(regularDurations)
	}
	avgSleep := 0.0
	if len(sleepDurations) > 0 {
		avgSleep = mean(sleepDurations)
	}

	return &StopPatterns{
		TotalAidStationStops:            len(stops),
		SleepStationUsage:               len(sleepDurations),
		CrewRestUsage:                   crewRests,
		SleepOpportunityUtilizationRate: float64(len(sleepDurations)+crewRests) / float64(cfg.SleepOpportunities),
		OfficialSleepStationRate:        float64(len(sleepDurations)) / float64(cfg.OfficialSleepStations),
		CrewAidUtilizationRate:          float64(crewRests) / float64(cfg.CrewAidStations),
		AverageRegularStopMinutes:       avgRegular,
		AverageSleepStopMinutes:         avgSleep,
		LongestRestStation:              &longest.StationName,
		LongestRestDuration:             longest.RestDurationMinutes,
		RestStrategy:                    RestStrategy(stops),
	}
}

// RestStrategy labels a runner's overall approach to rest from their
// attributed stops
func RestStrategy(stops []AidStop) string {
	if len(stops) == 0 {
		return "minimal_stops"
	}

	var sleepDurations []float64
	crewUsage := 0
	for _, s := range stops {
		if s.IsSleepStation || strings.HasPrefix(s.RestType, "crew_sleep") || strings.HasPrefix(s.RestType, "crew_extended_rest") {
			sleepDurations = append(sleepDurations, s.RestDurationMinutes)
		}
		if strings.HasPrefix(s.RestType, "crew") {
			crewUsage++
		}
	}

	avgSleep := 0.0
	if len(sleepDurations) > 0 {
		avgSleep = mean(sleepDurations)
	}

	switch {
	case len(sleepDurations) >= 3 && avgSleep > 60:
		return "conservative_with_sleep"
	case len(sleepDurations) >= 2 && avgSleep > 30:
		return "planned_rest_stops"
	case len(sleepDurations) == 1 && avgSleep > 60:
		return "single_long_sleep"
	case crewUsage >= 4:
		return "crew_dependent_strategy"
	case crewUsage >= 2:
		return "crew_assisted_strategy"
	case len(stops) > 10:
		return "frequent_aid_usage"
	default:
		return "minimal_aid_usage"
	}
}
