package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ultrasmart/internal/store"
	"ultrasmart/internal/strava"
)

// SyncService imports runner splits from the Strava API
type SyncService struct {
	client *strava.Client
	store  *store.DB
	log    *slog.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(client *strava.Client, db *store.DB, log *slog.Logger) *SyncService {
	if log == nil {
		log = slog.Default()
	}
	return &SyncService{client: client, store: db, log: log}
}

// SyncResult summarizes one activity import
type SyncResult struct {
	ActivityID   int64
	ActivityName string
	RaceID       int64
	RunnerID     int64
	Splits       int
}

// SyncActivity fetches one Strava activity's streams, converts them to
// mile splits and stores them as the runner's splits for the race.
// Existing finish data on the result is preserved.
func (s *SyncService) SyncActivity(ctx context.Context, raceID, runnerID, activityID int64) (*SyncResult, error) {
	if _, err := s.store.GetRace(raceID); err != nil {
		return nil, fmt.Errorf("loading race %d: %w", raceID, err)
	}
	runner, err := s.store.GetRunner(runnerID)
	if err != nil {
		return nil, fmt.Errorf("loading runner %d: %w", runnerID, err)
	}

	activity, err := s.client.GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("fetching activity %d: %w", activityID, err)
	}

	streams, err := s.client.GetActivityStreams(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("fetching streams for activity %d: %w", activityID, err)
	}

	splits := splitsFromStreams(streams)
	if len(splits) == 0 {
		return nil, fmt.Errorf("activity %d has no usable time/distance streams", activityID)
	}

	result, err := s.store.GetResult(raceID, runnerID)
	if errors.Is(err, store.ErrResultNotFound) {
		result = &store.RaceResult{
			RaceID:    raceID,
			RunnerID:  runner.ID,
			BibNumber: runner.BibNumber,
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}
	result.SplitsAvailable = true
	result.StravaActivityID = &activityID

	resultID, err := s.store.UpsertResult(result)
	if err != nil {
		return nil, fmt.Errorf("storing result: %w", err)
	}

	for i := range splits {
		splits[i].RaceResultID = resultID
	}
	if err := s.store.UpsertSplits(splits); err != nil {
		return nil, fmt.Errorf("storing splits: %w", err)
	}

	if err := s.store.SetSyncState("last_strava_sync", time.Now().Format(time.RFC3339)); err != nil {
		s.log.Warn("recording sync state", "error", err)
	}
	s.recordSync(activityID, raceID, len(splits))

	s.log.Info("activity synced",
		"activity", activity.Name,
		"activity_id", activityID,
		"runner_id", runnerID,
		"splits", len(splits),
	)

	return &SyncResult{
		ActivityID:   activityID,
		ActivityName: activity.Name,
		RaceID:       raceID,
		RunnerID:     runnerID,
		Splits:       len(splits),
	}, nil
}

// RecentActivities fetches the authenticated athlete's most recent
// activities, newest first, for picking out the race activity.
func (s *SyncService) RecentActivities(ctx context.Context, limit int) ([]strava.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = RecentActivitiesLimit
	}
	return s.client.GetActivities(ctx, time.Time{}, 1, limit)
}

// recordSync appends to the import audit log. Audit failures are logged
// rather than failing a sync that already committed its data.
func (s *SyncService) recordSync(activityID, raceID int64, records int) {
	run := &store.ImportRun{
		ID:      uuid.New().String(),
		Kind:    "strava",
		Source:  fmt.Sprintf("activity:%d", activityID),
		RaceID:  raceID,
		Records: records,
	}
	if err := s.store.RecordImportRun(run); err != nil {
		s.log.Warn("recording import run", "kind", "strava", "error", err)
	}
}

// splitsFromStreams converts cumulative time/distance streams into
// per-mile splits. The crossing time for each whole-mile mark is
// interpolated between the surrounding samples; a trailing partial
// mile is dropped. The time stream is elapsed seconds, so stops and
// sleep stay in the splits.
func splitsFromStreams(streams *strava.Streams) []store.Split {
	if streams == nil || streams.Time == nil || !streams.HasDistance() {
		return nil
	}

	times := streams.Time.Data
	dists := streams.Distance.Data
	n := min(len(times), len(dists))
	if n < 2 {
		return nil
	}

	var splits []store.Split
	mile := 1
	prevCross := 0.0

	for i := 1; i < n; i++ {
		d0, d1 := dists[i-1], dists[i]
		t0, t1 := float64(times[i-1]), float64(times[i])

		for target := float64(mile) * MetersPerMile; d1 >= target; target = float64(mile) * MetersPerMile {
			cross := crossingTime(t0, t1, d0, d1, target)
			splitSec := cross - prevCross
			pace := splitSec
			cum := cross

			s := store.Split{
				MileNumber:            mile,
				DistanceMiles:         float64(mile),
				SplitTimeSeconds:      &splitSec,
				PaceSeconds:           &pace, // one-mile splits, pace equals split time
				CumulativeTimeSeconds: &cum,
			}
			if streams.Altitude != nil && i < len(streams.Altitude.Data) {
				elev := streams.Altitude.Data[i] * FeetPerMeter
				s.ElevationFeet = &elev
			}
			splits = append(splits, s)

			prevCross = cross
			mile++
		}
	}

	return splits
}

// crossingTime interpolates when the runner passed the target distance
func crossingTime(t0, t1, d0, d1, target float64) float64 {
	switch {
	case d1 <= d0:
		return t1
	case target <= d0:
		return t0
	default:
		return t0 + (t1-t0)*(target-d0)/(d1-d0)
	}
}
