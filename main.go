package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"ultrasmart/internal/auth"
	"ultrasmart/internal/config"
	"ultrasmart/internal/ingest"
	"ultrasmart/internal/sanitize"
	"ultrasmart/internal/service"
	"ultrasmart/internal/store"
	"ultrasmart/internal/strava"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}
	cmd, rest := args[0], args[1:]

	// init-config runs before loading so a broken config can be replaced
	if cmd == "init-config" {
		return runInitConfig()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch cmd {
	case "auth":
		return runAuth(ctx, db, cfg)
	case "import-course":
		return runImportCourse(rest, db, logger)
	case "import-splits":
		return runImportSplits(rest, db, logger)
	case "sync-strava":
		return runSyncStrava(ctx, rest, db, cfg, logger)
	case "analyze":
		return runAnalyze(ctx, rest, db, cfg, logger)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `ultrasmart analyzes multi-day ultramarathon splits.

Usage:
  ultrasmart <command> [flags]

Commands:
  init-config    write an example config file
  auth           authenticate with Strava
  import-course  import a course description YAML
  import-splits  import a race splits CSV
  sync-strava    import one runner's splits from a Strava activity
  analyze        print analysis reports as JSON

Run 'ultrasmart <command> -h' for command flags.
`)
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler), nil
}

func runInitConfig() error {
	path, err := config.WriteExample()
	if err != nil {
		return err
	}

	fmt.Printf("Config file at:\n  %s\n\n", path)
	fmt.Println("Add your Strava API credentials before running 'ultrasmart auth'.")
	fmt.Println("Get them from: https://www.strava.com/settings/api")
	return nil
}

func runAuth(ctx context.Context, db *store.DB, cfg *config.Config) error {
	if err := cfg.Strava.Validate(); err != nil {
		path, _ := config.DefaultFile()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s\n", path)
		return nil
	}

	result, err := auth.Authenticate(ctx, auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectPort: cfg.Strava.RedirectPort,
	})
	if err != nil {
		return fmt.Errorf("authentication: %w", err)
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}

func runImportCourse(args []string, db *store.DB, logger *slog.Logger) error {
	fs := flag.NewFlagSet("import-course", flag.ExitOnError)
	file := fs.String("file", "", "course YAML file to import")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("import-course: -file is required")
	}

	im := ingest.NewImporter(db, logger)
	res, err := im.Course(*file)
	if err != nil {
		return fmt.Errorf("importing course: %w", err)
	}

	fmt.Printf("Imported race %d: %d aid stations, %d segments, %d track points\n",
		res.RaceID, res.AidStations, res.Segments, res.TrackPoints)
	return nil
}

func runImportSplits(args []string, db *store.DB, logger *slog.Logger) error {
	fs := flag.NewFlagSet("import-splits", flag.ExitOnError)
	race := fs.Int64("race", 0, "race ID")
	file := fs.String("file", "", "splits CSV file to import")
	fs.Parse(args)

	if *race == 0 || *file == "" {
		return fmt.Errorf("import-splits: -race and -file are required")
	}

	im := ingest.NewImporter(db, logger)
	res, err := im.Splits(*race, *file)
	if err != nil {
		return fmt.Errorf("importing splits: %w", err)
	}

	fmt.Printf("Imported %d splits for %d runners (%d records skipped)\n",
		res.Splits, res.Runners, res.Skipped)
	return nil
}

func runSyncStrava(ctx context.Context, args []string, db *store.DB, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("sync-strava", flag.ExitOnError)
	race := fs.Int64("race", 0, "race ID")
	runner := fs.Int64("runner", 0, "runner ID")
	activity := fs.Int64("activity", 0, "Strava activity ID")
	list := fs.Bool("list", false, "list recent activities instead of importing")
	limit := fs.Int("limit", service.RecentActivitiesLimit, "how many activities to list")
	fs.Parse(args)

	client, err := stravaClient(db, cfg)
	if err != nil {
		return err
	}
	sync := service.NewSyncService(client, db, logger)

	if *list {
		activities, err := sync.RecentActivities(ctx, *limit)
		if err != nil {
			return fmt.Errorf("listing activities: %w", err)
		}
		for _, a := range activities {
			fmt.Printf("%d  %s  %6.1f mi  %s\n",
				a.ID, a.StartDate.Format("2006-01-02"), a.Distance/service.MetersPerMile, a.Name)
		}
		return nil
	}

	if *race == 0 || *runner == 0 || *activity == 0 {
		return fmt.Errorf("sync-strava: -race, -runner and -activity are required")
	}

	res, err := sync.SyncActivity(ctx, *race, *runner, *activity)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d mile splits from %q for runner %d\n",
		res.Splits, res.ActivityName, res.RunnerID)
	return nil
}

// stravaClient builds an authenticated API client from stored tokens
func stravaClient(db *store.DB, cfg *config.Config) (*strava.Client, error) {
	if err := cfg.Strava.Validate(); err != nil {
		return nil, err
	}

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		return nil, fmt.Errorf("not authenticated - run 'ultrasmart auth' first")
	}
	if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectPort: cfg.Strava.RedirectPort,
	})

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	return strava.NewClient(tokenSource), nil
}

func runAnalyze(ctx context.Context, args []string, db *store.DB, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	race := fs.Int64("race", 0, "race ID")
	runners := fs.String("runners", "", "comma-separated runner IDs (default: all with splits)")
	report := fs.String("report", "all", "fatigue, rest, course, pacing, segments or all")
	fs.Parse(args)

	if *race == 0 {
		return fmt.Errorf("analyze: -race is required")
	}

	svc := service.NewAnalysisService(db, cfg.Analysis, logger)

	// Segment ratings are course-wide, not per-runner
	if *report == "segments" {
		ratings, err := svc.SegmentRatings(ctx, *race)
		if err != nil {
			return err
		}
		return printJSON(sanitize.Clean(ratings))
	}

	ids, err := runnerIDs(svc, *race, *runners)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("race %d has no runners with splits", *race)
	}

	if *report == "all" {
		results, err := svc.AnalyzeRunners(ctx, *race, ids)
		if err != nil {
			return err
		}
		return printJSON(results)
	}

	out := make(map[int64]map[string]any, len(ids))
	for _, id := range ids {
		r, err := singleReport(ctx, svc, *report, *race, id)
		if err != nil {
			return err
		}
		out[id] = r
	}
	return printJSON(out)
}

func singleReport(ctx context.Context, svc *service.AnalysisService, report string, raceID, runnerID int64) (map[string]any, error) {
	switch report {
	case "fatigue":
		return svc.FatigueReport(ctx, raceID, runnerID)
	case "rest":
		return svc.RestReport(ctx, raceID, runnerID)
	case "course":
		return svc.CourseImpactReport(ctx, raceID, runnerID)
	case "pacing":
		return svc.PacingReport(ctx, raceID, runnerID)
	}
	return nil, fmt.Errorf("unknown report %q", report)
}

// runnerIDs resolves the -runners flag, defaulting to every runner
// with splits recorded for the race
func runnerIDs(svc *service.AnalysisService, raceID int64, arg string) ([]int64, error) {
	if strings.TrimSpace(arg) == "" {
		return svc.RunnerIDs(raceID)
	}

	var ids []int64
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing runner ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
