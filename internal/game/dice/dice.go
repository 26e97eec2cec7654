// Package dice parses dice expressions and enumerates the equally likely
// totals they can produce, for use as per-level hit point outcome lists.
package dice

import (
	"errors"
	"fmt"
	"sort"
)

// MaxCombinations bounds the number of face combinations Outcomes will enumerate.
const MaxCombinations = 1 << 20

// ErrTooManyCombinations is returned when an expression has more than
// MaxCombinations face combinations.
var ErrTooManyCombinations = errors.New("dice: too many combinations")

// Faces returns the faces a single die can settle on, ascending.
//
// Faces at or below RerollBelow are rerolled until they land higher, so they
// never appear and the remaining faces stay equally likely.
//
// Postcondition: len(result) == Sides - RerollBelow.
func (e Expression) Faces() []int {
	faces := make([]int, 0, e.Sides-e.RerollBelow)
	for f := e.RerollBelow + 1; f <= e.Sides; f++ {
		faces = append(faces, f)
	}
	return faces
}

// kept returns the number of dice that contribute to the total.
func (e Expression) kept() int {
	if e.KeepHighest > 0 {
		return e.KeepHighest
	}
	return e.Count
}

// Min returns the lowest total the expression can produce.
func (e Expression) Min() int {
	return e.kept()*(e.RerollBelow+1) + e.Modifier
}

// Max returns the highest total the expression can produce.
func (e Expression) Max() int {
	return e.kept()*e.Sides + e.Modifier
}

// Combinations returns the number of equally likely face combinations, or an
// error wrapping ErrTooManyCombinations above MaxCombinations.
func (e Expression) Combinations() (int, error) {
	faces := e.Sides - e.RerollBelow
	n := 1
	for i := 0; i < e.Count; i++ {
		n *= faces
		if n > MaxCombinations {
			return 0, fmt.Errorf("%w: %s exceeds %d", ErrTooManyCombinations, e, MaxCombinations)
		}
	}
	return n, nil
}

// Outcomes returns the total of every face combination of expr, sorted
// ascending. Each entry is equally likely; repeated totals are kept.
//
// Precondition: expr must come from Parse.
// Postcondition: len(result) == Combinations(); every entry lies in [Min(), Max()].
func Outcomes(expr Expression) ([]int, error) {
	n, err := expr.Combinations()
	if err != nil {
		return nil, err
	}
	faces := expr.Faces()
	keep := expr.kept()

	idx := make([]int, expr.Count)
	rolled := make([]int, expr.Count)
	out := make([]int, 0, n)
	for c := 0; c < n; c++ {
		for i, j := range idx {
			rolled[i] = faces[j]
		}
		if expr.KeepHighest > 0 {
			sort.Sort(sort.Reverse(sort.IntSlice(rolled)))
		}
		total := expr.Modifier
		for _, v := range rolled[:keep] {
			total += v
		}
		out = append(out, total)

		// Advance the odometer.
		for i := range idx {
			idx[i]++
			if idx[i] < len(faces) {
				break
			}
			idx[i] = 0
		}
	}
	sort.Ints(out)
	return out, nil
}

// OutcomesExpr parses expr and enumerates its outcomes in a single call.
func OutcomesExpr(expr string) ([]int, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return Outcomes(e)
}
