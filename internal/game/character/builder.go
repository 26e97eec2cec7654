package character

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hpdist/internal/game/hitpoints"
	"github.com/cory-johannsen/hpdist/internal/game/ruleset"
)

// ResolveBonus returns the per-level constitution bonus of p, excluding the
// tough modifier.
//
// Precondition: p must be non-nil.
// Postcondition: Returns *p.ConstitutionBonus when set, otherwise the modifier of p.Constitution.
func ResolveBonus(p *ruleset.Profile) int {
	if p.ConstitutionBonus != nil {
		return *p.ConstitutionBonus
	}
	return AbilityModifier(p.Constitution)
}

// Plan returns the outcome list of every level 1..p.Levels.
//
// Precondition: p must be non-nil and valid.
// Postcondition: len(result) == p.Levels and result[i].Level == i+1.
func Plan(p *ruleset.Profile) ([]LevelPlan, error) {
	plans := make([]LevelPlan, 0, p.Levels)
	for level := hitpoints.MinLevel; level <= p.Levels; level++ {
		expr, err := p.ExpressionFor(level)
		if err != nil {
			return nil, err
		}
		outcomes, err := p.OutcomesFor(level)
		if err != nil {
			return nil, err
		}
		plans = append(plans, LevelPlan{Level: level, Expression: expr.String(), Outcomes: outcomes})
	}
	return plans, nil
}

// BuildHitPoints validates p and applies each of its levels to a new
// Distribution, ready for Statistics.
//
// Precondition: p and logger must be non-nil.
// Postcondition: Returns a Distribution with levels 1..p.Levels applied, or a non-nil error.
func BuildHitPoints(p *ruleset.Profile, logger *zap.Logger) (*hitpoints.Distribution, error) {
	if p == nil {
		return nil, errors.New("profile must not be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	plans, err := Plan(p)
	if err != nil {
		return nil, err
	}

	bonus := ResolveBonus(p)
	log := logger.With(zap.String("profile", p.ID))
	d := hitpoints.NewDistribution(bonus, p.Tough, hitpoints.WithLogger(log))
	for _, lp := range plans {
		if err := d.AddLevel(lp.Level, lp.Outcomes); err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.ID, err)
		}
	}
	log.Info("hit point distribution built",
		zap.Int("levels", p.Levels),
		zap.Int("bonus", d.Bonus()),
		zap.Bool("tough", p.Tough),
		zap.Int("distinct_totals", len(d.Counts())),
	)
	return d, nil
}
