// Package hitpoints computes the exact distribution of a character's total hit
// points across levels, and derives summary statistics from it.
//
// Counts are unnormalized integers and the running average is an exact
// rational; nothing in this package uses floating point.
package hitpoints

import (
	"math/big"
	"sort"

	"go.uber.org/zap"
)

const (
	// MinLevel is the lowest level that can be applied.
	MinLevel = 1
	// MaxLevel is the highest level that can be applied.
	MaxLevel = 20
	// ToughBonus is the extra per-level hit points granted by the tough modifier.
	ToughBonus = 2
)

// Distribution accumulates the occurrence count of every reachable hit point
// total, one level at a time.
//
// Invariant: sum(counts) == product of len(outcomes) over applied levels.
// Invariant: min and max equal the smallest and largest key of counts.
// Invariant: mean equals the expected total under counts.
//
// A Distribution is not safe for concurrent mutation.
type Distribution struct {
	bonus  int
	tough  bool
	counts map[int]*big.Int
	levels map[int]struct{}
	min    int
	max    int
	mean   *big.Rat
	logger *zap.Logger
}

// Option configures a Distribution.
type Option func(*Distribution)

// WithLogger makes the Distribution log every applied level at debug level.
//
// Precondition: logger must be non-nil.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Distribution) {
		d.logger = logger
	}
}

// NewDistribution returns a Distribution holding the single total 0.
//
// bonus is added once per level and may be negative. When tough is true,
// ToughBonus is added on top of bonus for every level.
//
// Postcondition: Counts() == {0: 1}, Min() == Max() == 0, Mean() == 0.
func NewDistribution(bonus int, tough bool, opts ...Option) *Distribution {
	d := &Distribution{
		bonus:  bonus,
		tough:  tough,
		counts: map[int]*big.Int{0: big.NewInt(1)},
		levels: make(map[int]struct{}),
		mean:   new(big.Rat),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Bonus returns the effective per-level bonus, including ToughBonus when enabled.
func (d *Distribution) Bonus() int {
	if d.tough {
		return d.bonus + ToughBonus
	}
	return d.bonus
}

// Tough reports whether the tough modifier is enabled.
func (d *Distribution) Tough() bool {
	return d.tough
}

// AddLevel convolves the distribution with the equally likely outcomes of one
// level, each shifted by Bonus().
//
// Precondition: MinLevel <= level <= MaxLevel; level not yet applied;
// len(outcomes) > 0. Repeated values in outcomes carry extra weight.
// Postcondition: on success TotalCount() is multiplied by len(outcomes);
// on error the Distribution is unchanged.
func (d *Distribution) AddLevel(level int, outcomes []int) error {
	if level < MinLevel || level > MaxLevel {
		return levelError(ErrInvalidLevel, level)
	}
	if _, ok := d.levels[level]; ok {
		return levelError(ErrDuplicateLevel, level)
	}
	if len(outcomes) == 0 {
		return levelError(ErrInvalidOutcomeList, level)
	}

	bonus := d.Bonus()
	lo, hi, sum := outcomes[0], outcomes[0], int64(0)
	for _, v := range outcomes {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += int64(v)
	}

	d.counts = convolve(d.counts, outcomes, bonus)
	d.min += lo + bonus
	d.max += hi + bonus
	levelMean := big.NewRat(sum, int64(len(outcomes)))
	levelMean.Add(levelMean, new(big.Rat).SetInt64(int64(bonus)))
	d.mean.Add(d.mean, levelMean)
	d.levels[level] = struct{}{}

	d.logger.Debug("level applied",
		zap.Int("level", level),
		zap.Ints("outcomes", outcomes),
		zap.Int("bonus", bonus),
		zap.Int("distinct_totals", len(d.counts)),
		zap.Int("min", d.min),
		zap.Int("max", d.max),
		zap.String("mean", d.mean.String()),
	)
	return nil
}

// convolve builds a new count map from old; old is only read.
func convolve(old map[int]*big.Int, outcomes []int, bonus int) map[int]*big.Int {
	next := make(map[int]*big.Int, len(old)+len(outcomes))
	for total, count := range old {
		for _, v := range outcomes {
			key := total + v + bonus
			if c, ok := next[key]; ok {
				c.Add(c, count)
			} else {
				next[key] = new(big.Int).Set(count)
			}
		}
	}
	return next
}

// Counts returns a copy of the occurrence map.
func (d *Distribution) Counts() map[int]*big.Int {
	out := make(map[int]*big.Int, len(d.counts))
	for k, v := range d.counts {
		out[k] = new(big.Int).Set(v)
	}
	return out
}

// TotalCount returns the sum of every occurrence count.
func (d *Distribution) TotalCount() *big.Int {
	total := new(big.Int)
	for _, c := range d.counts {
		total.Add(total, c)
	}
	return total
}

// Min returns the worst-case total.
func (d *Distribution) Min() int { return d.min }

// Max returns the best-case total.
func (d *Distribution) Max() int { return d.max }

// Mean returns a copy of the exact expected total.
func (d *Distribution) Mean() *big.Rat {
	return new(big.Rat).Set(d.mean)
}

// Levels returns the applied levels in ascending order.
func (d *Distribution) Levels() []int {
	out := make([]int, 0, len(d.levels))
	for l := range d.levels {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// sortedTotals returns the keys of counts in ascending order.
func (d *Distribution) sortedTotals() []int {
	keys := make([]int, 0, len(d.counts))
	for k := range d.counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
