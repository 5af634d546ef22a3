package rules

// Per-level growth applied by a level-up.
const (
	LevelUpStatPoints = 3
	LevelUpMaxHP      = 20
	LevelUpAttack     = 5
	LevelUpDefense    = 2

	// HPPerStatPoint is the max hp gained per allocated hp point.
	HPPerStatPoint = 10
)

// BaseMaxHP is the starting max hp for a freshly created character of a level.
func BaseMaxHP(level int) int {
	return 100 + (level-1)*20
}

// BaseAttack is the starting attack for a level.
func BaseAttack(level int) int {
	return 10 + (level-1)*3
}

// BaseDefense is the starting defense for a level.
func BaseDefense(level int) int {
	return 5 + (level-1)*2
}

// ExperienceToNextLevel is the experience needed to leave the given level.
func ExperienceToNextLevel(level int) int {
	return 100 + (level-1)*50
}
