// Package ruleset loads character hit point profiles from YAML content files.
package ruleset

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/cory-johannsen/hpdist/internal/game/dice"
	"github.com/cory-johannsen/hpdist/internal/game/hitpoints"
)

// Profile describes how a character gains hit points level by level.
//
// Level 1 always grants the maximum face of HitDie. Every later level grants
// one of the equally likely outcomes of LevelDice[level], or of LevelDie when
// no override exists.
//
// Precondition: Validate() returns nil before OutcomesFor is called.
type Profile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// ConstitutionBonus is the flat per-level bonus. When nil the bonus is
	// derived from Constitution.
	ConstitutionBonus *int `yaml:"constitution_bonus"`
	// Constitution is the ability score used when ConstitutionBonus is nil.
	Constitution int            `yaml:"constitution"`
	Tough        bool           `yaml:"tough"`
	HitDie       string         `yaml:"hit_die"`
	LevelDie     string         `yaml:"level_die"`
	LevelDice    map[int]string `yaml:"level_dice"`
	Levels       int            `yaml:"levels"`
}

// DisplayName returns Name, or ID when Name is empty.
func (p *Profile) DisplayName() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}

// Validate checks every profile invariant.
//
// Postcondition: Returns nil if the profile is valid, or an error combining all violations.
func (p *Profile) Validate() error {
	var errs error
	if p.ID == "" {
		errs = multierr.Append(errs, errors.New("id must not be empty"))
	}
	if p.Levels < hitpoints.MinLevel || p.Levels > hitpoints.MaxLevel {
		errs = multierr.Append(errs, fmt.Errorf("levels must be %d-%d, got %d", hitpoints.MinLevel, hitpoints.MaxLevel, p.Levels))
	}
	if p.ConstitutionBonus == nil && (p.Constitution < 1 || p.Constitution > 30) {
		errs = multierr.Append(errs, fmt.Errorf("constitution must be 1-30 when constitution_bonus is unset, got %d", p.Constitution))
	}
	if _, err := dice.Parse(p.HitDie); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("hit_die: %w", err))
	}
	if p.Levels > 1 {
		if _, err := dice.Parse(p.LevelDie); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("level_die: %w", err))
		}
	}
	for level, expr := range p.LevelDice {
		if level < 2 || level > p.Levels {
			errs = multierr.Append(errs, fmt.Errorf("level_dice: level %d must be 2-%d", level, p.Levels))
			continue
		}
		if _, err := dice.Parse(expr); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("level_dice[%d]: %w", level, err))
		}
	}
	return errs
}

// ExpressionFor returns the dice expression that governs level.
//
// Precondition: MinLevel <= level <= MaxLevel.
func (p *Profile) ExpressionFor(level int) (dice.Expression, error) {
	expr := p.LevelDie
	if level == hitpoints.MinLevel {
		expr = p.HitDie
	} else if override, ok := p.LevelDice[level]; ok {
		expr = override
	}
	e, err := dice.Parse(expr)
	if err != nil {
		return dice.Expression{}, fmt.Errorf("profile %s level %d: %w", p.ID, level, err)
	}
	return e, nil
}

// OutcomesFor returns the equally likely hit point increments for level,
// before any per-level bonus.
//
// Postcondition: level 1 yields the single maximum of HitDie; other levels
// yield the full outcome list of their expression.
func (p *Profile) OutcomesFor(level int) ([]int, error) {
	e, err := p.ExpressionFor(level)
	if err != nil {
		return nil, err
	}
	if level == hitpoints.MinLevel {
		return []int{e.Max()}, nil
	}
	out, err := dice.Outcomes(e)
	if err != nil {
		return nil, fmt.Errorf("profile %s level %d: %w", p.ID, level, err)
	}
	return out, nil
}
