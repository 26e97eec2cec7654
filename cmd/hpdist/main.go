// Package main provides a CLI that prints the exact hit point distribution of
// a character profile.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hpdist/internal/config"
	"github.com/cory-johannsen/hpdist/internal/game/character"
	"github.com/cory-johannsen/hpdist/internal/game/ruleset"
	"github.com/cory-johannsen/hpdist/internal/observability"
	"github.com/cory-johannsen/hpdist/internal/report"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	profileID := flag.String("profile", "", "profile ID to load from the profiles directory")
	profilesDir := flag.String("profiles", "", "override content.profiles_dir")
	list := flag.Bool("list", false, "list available profile IDs and exit")
	format := flag.String("format", "", "override report.format: table, json, or yaml")
	places := flag.Int("places", -1, "override report.decimal_places")
	percentile := flag.String("percentile", "", "also print the total reached at this cumulative percentage, e.g. 50")

	name := flag.String("name", "custom", "inline profile name")
	bonus := flag.Int("bonus", 0, "inline per-level constitution bonus")
	tough := flag.Bool("tough", false, "inline tough modifier (+2 per level)")
	hitDie := flag.String("hit-die", "d8", "inline level 1 hit die (maximum face is taken)")
	levelDie := flag.String("level-die", "d8r1", "inline die for levels 2 and up")
	levels := flag.Int("levels", 1, "inline number of levels")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := applyOverrides(&cfg, *profilesDir, *format, *places); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	var profile *ruleset.Profile
	if *list || *profileID != "" {
		profiles, err := ruleset.LoadProfiles(cfg.Content.ProfilesDir)
		if err != nil {
			logger.Fatal("loading profiles", zap.String("dir", cfg.Content.ProfilesDir), zap.Error(err))
		}
		reg := ruleset.NewProfileRegistry()
		for _, p := range profiles {
			reg.Register(p)
		}
		if *list {
			for _, id := range reg.IDs() {
				p, _ := reg.Profile(id)
				fmt.Fprintf(os.Stdout, "%s\t%s\n", id, p.DisplayName())
			}
			return
		}
		var ok bool
		profile, ok = reg.Profile(*profileID)
		if !ok {
			logger.Fatal("unknown profile",
				zap.String("profile", *profileID),
				zap.String("available", strings.Join(reg.IDs(), ", ")),
			)
		}
	} else {
		b := *bonus
		profile = &ruleset.Profile{
			ID:                *name,
			Name:              *name,
			ConstitutionBonus: &b,
			Tough:             *tough,
			HitDie:            *hitDie,
			LevelDie:          *levelDie,
			Levels:            *levels,
		}
	}

	dist, err := character.BuildHitPoints(profile, logger)
	if err != nil {
		logger.Fatal("building distribution", zap.Error(err))
	}
	stats, err := dist.Statistics(cfg.Report.DecimalPlaces)
	if err != nil {
		logger.Fatal("computing statistics", zap.Error(err))
	}

	opts := report.Options{
		Format: cfg.Report.Format,
		Locale: cfg.Report.Locale,
		Title:  profile.DisplayName(),
	}
	if *percentile != "" {
		pct, err := decimal.NewFromString(*percentile)
		if err != nil {
			logger.Fatal("parsing percentile", zap.String("percentile", *percentile), zap.Error(err))
		}
		opts.Percentile = &pct
	}
	if err := report.Render(os.Stdout, stats, opts); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}

	logger.Info("report complete",
		zap.String("profile", profile.ID),
		zap.Int("rows", len(stats.Rows)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// applyOverrides copies non-empty flag values onto cfg and validates the result.
// A negative places leaves the configured precision untouched.
//
// Postcondition: cfg passes Validate when the returned error is nil.
func applyOverrides(cfg *config.Config, profilesDir, format string, places int) error {
	if profilesDir != "" {
		cfg.Content.ProfilesDir = profilesDir
	}
	if format != "" {
		cfg.Report.Format = format
	}
	if places >= 0 {
		if places > config.MaxDecimalPlaces {
			return fmt.Errorf("-places must be 0-%d, got %d", config.MaxDecimalPlaces, places)
		}
		cfg.Report.DecimalPlaces = int32(places)
	}
	return cfg.Validate()
}
