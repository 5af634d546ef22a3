package rules

import "testing"

func TestCritChanceIsCapped(t *testing.T) {
	cases := []struct {
		name           string
		level, atk, df int
		want           float64
	}{
		{"level one even", 1, 10, 10, 0.11},
		{"huge advantage", 30, 500, 10, MaxCritChance},
		{"huge disadvantage", 1, 10, 500, 0},
	}
	for _, tc := range cases {
		got := CritChance(tc.level, tc.atk, tc.df)
		if got < tc.want-1e-9 || got > tc.want+1e-9 {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		if got > MaxCritChance {
			t.Errorf("%s: crit chance %v above cap", tc.name, got)
		}
	}
}

func TestDamageNeverBelowOne(t *testing.T) {
	if got := Damage(0, VariationMin, false); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := Damage(10, 1.0, true); got != 20 {
		t.Errorf("expected crit to double base, got %d", got)
	}
	if got := Damage(10, 1.15, false); got != 11 {
		t.Errorf("expected floor(11.5)=11, got %d", got)
	}
}

func TestEscapeChance(t *testing.T) {
	if got := EscapeChance(3, 1); got < 0.6-1e-9 || got > 0.6+1e-9 {
		t.Errorf("expected 0.6, got %v", got)
	}
	if got := EscapeChance(1, 30); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
}

func TestFailedEscapeDamage(t *testing.T) {
	if got := FailedEscapeDamage(12, 5); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := FailedEscapeDamage(3, 5); got != 1 {
		t.Errorf("expected floor of 1, got %d", got)
	}
}

func TestDropChance(t *testing.T) {
	if DropChance(2, 2) != 0.7 || DropChance(1, 2) != 0.25 || DropChance(3, 2) != 0.05 {
		t.Error("unexpected drop chance table")
	}
}

func TestProgressionFormulas(t *testing.T) {
	if BaseMaxHP(3) != 140 || BaseAttack(3) != 16 || BaseDefense(3) != 9 {
		t.Error("unexpected base stats for level 3")
	}
	if ExperienceToNextLevel(1) != 100 || ExperienceToNextLevel(2) != 150 {
		t.Error("unexpected experience requirement")
	}
}
