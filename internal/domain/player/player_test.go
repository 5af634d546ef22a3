package player

import (
	"reflect"
	"testing"

	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
)

func TestNewPlayerHasStarterKit(t *testing.T) {
	p := New("Hero")
	items := p.Inventory().Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 starter items, got %d", len(items))
	}
	p.AddStarterItems()
	if p.Inventory().Len() != 3 {
		t.Error("starter items must only be added to an empty inventory")
	}
}

func TestBoostFlags(t *testing.T) {
	p := New("Hero")
	if err := p.BoostAttack(5); err != nil {
		t.Fatalf("first boost: %v", err)
	}
	if p.Attack() != 15 {
		t.Errorf("expected boosted attack 15, got %d", p.Attack())
	}
	if err := p.BoostAttack(5); !shellerrors.HasCode(err, shellerrors.CodeStateViolation) {
		t.Errorf("expected stacking to be refused, got %v", err)
	}

	p.EndTurn()
	if p.HasUsedAttackBoostThisTurn() {
		t.Error("expected turn flag cleared by EndTurn")
	}
	if !p.HasBoostedAttackThisEncounter() {
		t.Error("pending boost must survive the end of turn")
	}
	if err := p.BoostAttack(5); err == nil {
		t.Error("expected a pending boost to block another one")
	}

	if got := p.ConsumeAttackBoost(); got != 5 {
		t.Errorf("expected to consume 5, got %d", got)
	}
	if p.Attack() != 10 || p.HasBoostedAttackThisEncounter() {
		t.Error("expected boost cleared after consumption")
	}
}

func TestUseBoostItemThroughInventory(t *testing.T) {
	p := New("Hero")
	p.PickUp(item.New("Herb", item.EffectBoostAttack, 4))
	if _, err := p.UseItem(4, nil); err != nil {
		t.Fatalf("use: %v", err)
	}
	if p.AttackBoost() != 4 {
		t.Errorf("expected boost 4, got %d", p.AttackBoost())
	}
}

func TestEndEncounterDropsBoost(t *testing.T) {
	p := New("Hero")
	_ = p.BoostAttack(7)
	p.EndEncounter()
	if p.AttackBoost() != 0 || p.HasBoostedAttackThisEncounter() || p.HasUsedAttackBoostThisTurn() {
		t.Error("expected every boost flag cleared")
	}
}

func TestPickUpMerges(t *testing.T) {
	p := New("Hero")
	p.PickUp(item.New("Minor Health Potion", item.EffectHeal, 20))
	if it, _ := p.Inventory().FindItem("Minor Health Potion"); it.Quantity != 2 {
		t.Errorf("expected 2 potions, got %d", it.Quantity)
	}
}

func TestStateRoundTrip(t *testing.T) {
	p := New("Hero")
	p.GainExperience(130)
	_ = p.BoostAttack(3)
	p.ActivateShield(20)
	p.TakeDamage(40)

	restored, err := FromState(p.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), p.Snapshot()) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", restored.Snapshot(), p.Snapshot())
	}
}
