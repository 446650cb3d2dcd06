package config

import (
	"errors"
	"fmt"
	"runtime"

	"ultrasmart/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	// DBPath overrides the SQLite database location. Empty means the
	// store's default under ~/.ultrasmart.
	DBPath   string         `koanf:"db_path"`
	Log      LogConfig      `koanf:"log"`
	Strava   StravaConfig   `koanf:"strava"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text or json
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectPort int    `koanf:"redirect_port"`
}

// AnalysisConfig aggregates the tunables of every analysis component
type AnalysisConfig struct {
	// BenchmarkWorkers bounds the goroutines used to build field
	// benchmarks. Zero means one per CPU.
	BenchmarkWorkers int                        `koanf:"benchmark_workers"`
	Difficulty       analysis.DifficultyConfig  `koanf:"difficulty"`
	Performance      analysis.PerformanceConfig `koanf:"performance"`
	Fatigue          analysis.FatigueConfig     `koanf:"fatigue"`
	Rest             analysis.RestConfig        `koanf:"rest"`
	Pacing           analysis.PacingConfig      `koanf:"pacing"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Strava: StravaConfig{
			RedirectPort: 8089,
		},
		Analysis: AnalysisConfig{
			BenchmarkWorkers: runtime.NumCPU(),
			Difficulty:       analysis.DefaultDifficultyConfig(),
			Performance:      analysis.DefaultPerformanceConfig(),
			Fatigue:          analysis.DefaultFatigueConfig(),
			Rest:             analysis.DefaultRestConfig(),
			Pacing:           analysis.DefaultPacingConfig(),
		},
	}
}

// Validate checks the fields every command depends on
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}

	a := &c.Analysis
	if a.BenchmarkWorkers < 0 {
		return fmt.Errorf("analysis.benchmark_workers must not be negative, got %d", a.BenchmarkWorkers)
	}
	if a.Rest.PaceRatio <= 1 {
		return fmt.Errorf("analysis.rest.pace_ratio must be greater than 1, got %v", a.Rest.PaceRatio)
	}
	if a.Fatigue.DefaultBasePace <= 0 {
		return fmt.Errorf("analysis.fatigue.default_base_pace must be positive, got %v", a.Fatigue.DefaultBasePace)
	}
	if a.Difficulty.Min >= a.Difficulty.Max {
		return fmt.Errorf("analysis.difficulty.min (%v) must be less than analysis.difficulty.max (%v)", a.Difficulty.Min, a.Difficulty.Max)
	}
	return nil
}

// Validate checks that Strava credentials are usable. Only the auth and
// sync commands require them.
func (s *StravaConfig) Validate() error {
	if s.ClientID == "" || s.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if s.ClientSecret == "" || s.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}
