// Package character turns a hit point profile into a finished distribution.
package character

// AbilityModifier returns the ability modifier for score: floor((score - 10) / 2).
//
// Postcondition: AbilityModifier(10) == 0, AbilityModifier(9) == -1, AbilityModifier(18) == 4.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// LevelPlan records the outcomes applied for one level.
type LevelPlan struct {
	Level      int
	Expression string // dice expression the outcomes came from
	Outcomes   []int
}
