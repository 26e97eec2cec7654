package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidExpression is wrapped by every Parse failure.
var ErrInvalidExpression = errors.New("dice: invalid expression")

// Expression represents a parsed dice expression.
// Precondition: Count >= 1, Sides >= 2, 0 <= RerollBelow < Sides after successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
	RerollBelow int    // faces <= RerollBelow are rerolled until they land higher (e.g. d8r1)
}

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?(?:r(\d+))?([+-]\d+)?$`)

// Parse parses a dice expression string into an Expression.
// Supported forms: "d8", "2d6", "2d6+3", "4d8-2", "4d6kh3", "d8r1", "d10r2+1"
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or an error wrapping ErrInvalidExpression.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}

	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("%w: %q does not match [count]d<sides>[kh<n>][r<n>][+|-<mod>]", ErrInvalidExpression, raw)
	}

	// The count defaults to 1 when omitted.
	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, fmt.Errorf("%w: die count in %q: %v", ErrInvalidExpression, raw, err)
		}
		count = n
	}
	if count <= 0 {
		return Expression{}, fmt.Errorf("%w: die count in %q must be >= 1", ErrInvalidExpression, raw)
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, fmt.Errorf("%w: die sides in %q: %v", ErrInvalidExpression, raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("%w: die sides in %q must be >= 2", ErrInvalidExpression, raw)
	}

	keepHighest := 0
	if m[3] != "" {
		keepHighest, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, fmt.Errorf("%w: kh value in %q: %v", ErrInvalidExpression, raw, err)
		}
		if keepHighest <= 0 || keepHighest >= count {
			return Expression{}, fmt.Errorf("%w: kh value %d must be > 0 and < count %d in %q", ErrInvalidExpression, keepHighest, count, raw)
		}
	}

	rerollBelow := 0
	if m[4] != "" {
		rerollBelow, err = strconv.Atoi(m[4])
		if err != nil {
			return Expression{}, fmt.Errorf("%w: reroll value in %q: %v", ErrInvalidExpression, raw, err)
		}
		if rerollBelow >= sides {
			return Expression{}, fmt.Errorf("%w: reroll value %d must be < sides %d in %q", ErrInvalidExpression, rerollBelow, sides, raw)
		}
	}

	modifier := 0
	if m[5] != "" {
		modifier, err = strconv.Atoi(m[5])
		if err != nil {
			return Expression{}, fmt.Errorf("%w: modifier in %q: %v", ErrInvalidExpression, raw, err)
		}
	}

	return Expression{
		Raw:         raw,
		Count:       count,
		Sides:       sides,
		Modifier:    modifier,
		KeepHighest: keepHighest,
		RerollBelow: rerollBelow,
	}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// String returns the canonical form of the expression, e.g. "4d6kh3+1".
func (e Expression) String() string {
	var b strings.Builder
	if e.Count != 1 {
		b.WriteString(strconv.Itoa(e.Count))
	}
	b.WriteString("d")
	b.WriteString(strconv.Itoa(e.Sides))
	if e.KeepHighest > 0 {
		b.WriteString("kh")
		b.WriteString(strconv.Itoa(e.KeepHighest))
	}
	if e.RerollBelow > 0 {
		b.WriteString("r")
		b.WriteString(strconv.Itoa(e.RerollBelow))
	}
	if e.Modifier != 0 {
		b.WriteString(fmt.Sprintf("%+d", e.Modifier))
	}
	return b.String()
}
