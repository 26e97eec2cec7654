package hitpoints

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// Row describes one reachable total in a Statistics table.
type Row struct {
	// Total is the hit point total.
	Total int
	// Count is the number of outcome combinations producing Total.
	Count *big.Int
	// CumulativePercent is the chance of a total <= Total, in percent.
	CumulativePercent decimal.Decimal
	// TailPercent is the chance of a total >= Total, in percent.
	TailPercent decimal.Decimal
	// TailChance is the exact chance of a total >= Total.
	TailChance *big.Rat
}

// Statistics summarizes a finished Distribution.
//
// Percentages are rounded half away from zero to DecimalPlaces.
type Statistics struct {
	Worst         int
	Best          int
	Mean          *big.Rat
	TotalCount    *big.Int
	MaxLevel      int
	DecimalPlaces int32
	Rows          []Row
}

// Statistics returns the worst case, best case, exact mean, and the
// cumulative and tail-chance table of the distribution.
//
// Precondition: the applied levels form the contiguous range 1..max.
// Postcondition: Rows are ordered by ascending Total; the last row has a
// CumulativePercent of 100 and a TailChance of Count/TotalCount.
func (d *Distribution) Statistics(decimalPlaces int32) (Statistics, error) {
	maxLevel, err := d.checkSequence()
	if err != nil {
		return Statistics{}, err
	}

	total := d.TotalCount()
	totalDec := decimal.NewFromBigInt(total, 0)
	keys := d.sortedTotals()
	rows := make([]Row, 0, len(keys))
	cumulative := new(big.Int)
	for _, t := range keys {
		c := d.counts[t]
		tail := new(big.Int).Sub(total, cumulative)
		cumulative.Add(cumulative, c)
		rows = append(rows, Row{
			Total:             t,
			Count:             new(big.Int).Set(c),
			CumulativePercent: percent(cumulative, totalDec, decimalPlaces),
			TailPercent:       percent(tail, totalDec, decimalPlaces),
			TailChance:        new(big.Rat).SetFrac(tail, total),
		})
	}

	d.logger.Debug("statistics computed",
		zap.Int("max_level", maxLevel),
		zap.Int("rows", len(rows)),
		zap.String("total_count", total.String()),
	)

	return Statistics{
		Worst:         d.min,
		Best:          d.max,
		Mean:          d.Mean(),
		TotalCount:    total,
		MaxLevel:      maxLevel,
		DecimalPlaces: decimalPlaces,
		Rows:          rows,
	}, nil
}

// checkSequence returns the highest applied level, or an error naming the
// first missing level in 1..max.
func (d *Distribution) checkSequence() (int, error) {
	if len(d.levels) == 0 {
		return 0, levelError(ErrIncompleteLevelSequence, MinLevel)
	}
	maxLevel := 0
	for l := range d.levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	for l := MinLevel; l <= maxLevel; l++ {
		if _, ok := d.levels[l]; !ok {
			return 0, levelError(ErrIncompleteLevelSequence, l)
		}
	}
	return maxLevel, nil
}

// percent returns num/den*100 rounded half away from zero.
func percent(num *big.Int, den decimal.Decimal, places int32) decimal.Decimal {
	return decimal.NewFromBigInt(num, 0).Mul(hundred).DivRound(den, places)
}

// MeanDecimal returns Mean rounded half away from zero to places.
func (s Statistics) MeanDecimal(places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(s.Mean.Num(), 0)
	den := decimal.NewFromBigInt(s.Mean.Denom(), 0)
	return num.DivRound(den, places)
}

// ChanceAtLeast returns the exact chance of a total >= total.
//
// Postcondition: returns 1 for total <= Worst and 0 for total > Best.
func (s Statistics) ChanceAtLeast(total int) *big.Rat {
	for _, r := range s.Rows {
		if r.Total >= total {
			return new(big.Rat).Set(r.TailChance)
		}
	}
	return new(big.Rat)
}

// ErrInvalidPercentile is returned by Percentile for values outside (0, 100].
var ErrInvalidPercentile = errors.New("hitpoints: percentile must be in (0, 100]")

// Percentile returns the smallest total whose exact cumulative percentage is
// at least pct.
//
// Precondition: 0 < pct <= 100.
func (s Statistics) Percentile(pct decimal.Decimal) (int, error) {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return 0, ErrInvalidPercentile
	}
	// cumulative/total*100 >= pct  <=>  cumulative*100 >= pct*total
	threshold := pct.Mul(decimal.NewFromBigInt(s.TotalCount, 0))
	cumulative := new(big.Int)
	for _, r := range s.Rows {
		cumulative.Add(cumulative, r.Count)
		if decimal.NewFromBigInt(cumulative, 0).Mul(hundred).GreaterThanOrEqual(threshold) {
			return r.Total, nil
		}
	}
	return s.Best, nil
}
