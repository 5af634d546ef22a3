package engine

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

func newTestBattleSystem(src random.Source) (*BattleSystem, *events.EventLog, *metrics.Collector) {
	el := events.NewEventLog(nil)
	log := logger.Discard()
	m := metrics.New()
	inv := NewInventorySystem(el, log, m)
	prog := NewProgressionSystem(el, log, m)
	return NewBattleSystem(el, log, m, src, inv, prog), el, m
}

func goblin() *enemy.Enemy {
	return enemy.New("Goblin", 1, enemy.TypeBasic, 0.5, nil)
}

func TestDamageItemTakesEnemyTo90(t *testing.T) {
	// Enemy turn: no evasion, variation 0.9.
	src := random.NewSequence(0.99, 0.0)
	bs, el, _ := newTestBattleSystem(src)
	p := player.New("Hero")
	e := goblin()
	b := bs.Start(p, e)

	if err := b.Submit("use"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if b.Pending() != DecisionItem {
		t.Fatalf("expected item prompt, got %s", b.Pending())
	}
	if err := b.Submit("1"); err != nil {
		t.Fatalf("use dagger: %v", err)
	}

	if e.HP() != 90 || e.MaxHP() != 100 {
		t.Errorf("expected enemy 90/100, got %d/%d", e.HP(), e.MaxHP())
	}
	if p.Inventory().Len() != 2 {
		t.Errorf("expected the dagger stack to be removed, got %d stacks", p.Inventory().Len())
	}
	// floor(10*0.9) = 9, minus 5 defense.
	if p.HP() != 96 {
		t.Errorf("expected player at 96 hp, got %d", p.HP())
	}
	if b.Turn() != 2 || b.Pending() != DecisionAction {
		t.Errorf("expected turn 2 at the action prompt, got turn %d %s", b.Turn(), b.Pending())
	}
	if got := el.GetByType(events.EventTypeItemUsed); len(got) != 1 {
		t.Errorf("expected one ITEM_USED event, got %d", len(got))
	}
}

func TestAttackAppliesVariation(t *testing.T) {
	// Player: no crit, variation 1.05. Enemy: no evasion, variation 0.9.
	src := random.NewSequence(0.99, 0.5, 0.99, 0.0)
	bs, el, m := newTestBattleSystem(src)
	p := player.New("Hero")
	e := goblin()
	b := bs.Start(p, e)

	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if e.HP() != 90 {
		t.Errorf("expected enemy at 90, got %d", e.HP())
	}
	if p.HP() != 96 {
		t.Errorf("expected player at 96, got %d", p.HP())
	}
	if got := el.GetByType(events.EventTypeDamageDealt); len(got) != 2 {
		t.Errorf("expected 2 DAMAGE_DEALT events, got %d", len(got))
	}
	if m.DamageDealt != 10 || m.DamageTaken != 4 {
		t.Errorf("unexpected damage metrics dealt=%d taken=%d", m.DamageDealt, m.DamageTaken)
	}
}

func TestCriticalHitDoublesBase(t *testing.T) {
	// Crit roll 0 passes, variation 0.9; the enemy's evasion roll 0 dodges.
	src := random.NewSequence(0.0, 0.0)
	bs, el, m := newTestBattleSystem(src)
	p := player.New("Hero")
	e := goblin()
	b := bs.Start(p, e)

	if err := b.Submit("a"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if e.HP() != 82 {
		t.Errorf("expected floor(20*0.9)=18 damage, enemy at %d", e.HP())
	}
	if p.HP() != 100 {
		t.Errorf("expected the enemy attack to be evaded, player at %d", p.HP())
	}
	if len(el.GetByType(events.EventTypeCriticalHit)) != 1 || m.CriticalHits != 1 {
		t.Error("expected one critical hit recorded")
	}
	if len(el.GetByType(events.EventTypeAttackEvaded)) != 1 || m.Evasions != 1 {
		t.Error("expected one evasion recorded")
	}
}

func TestThreeFailedEscapesThenAutomaticSuccess(t *testing.T) {
	// Every draw is 0.99: escapes fail, evasion fails, variation 1.197.
	src := random.NewSequence(0.99)
	bs, _, m := newTestBattleSystem(src)
	p := player.New("Hero")
	e := goblin()
	b := bs.Start(p, e)

	for i := 1; i <= 3; i++ {
		if err := b.Submit("run"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if b.Done() {
			t.Fatalf("expected attempt %d to fail", i)
		}
		if b.RunAttempts() != i {
			t.Errorf("expected %d attempts, got %d", i, b.RunAttempts())
		}
	}
	// Each round: 5 escape damage plus floor(10*1.197)-5 = 6 from the enemy.
	if p.HP() != 100-3*11 {
		t.Errorf("expected player at 67, got %d", p.HP())
	}

	draws := src.Draws()
	if err := b.Submit("run"); err != nil {
		t.Fatalf("fourth run: %v", err)
	}
	if b.Outcome() != PlayerFled {
		t.Fatalf("expected the fourth attempt to succeed, got %s", b.Outcome())
	}
	if src.Draws() != draws {
		t.Errorf("expected no random draw for the forced escape, got %d more", src.Draws()-draws)
	}
	if e.HP() != 100 {
		t.Errorf("expected enemy untouched, got %d", e.HP())
	}
	if m.BattlesFled != 1 || m.EscapeAttempts != 4 {
		t.Errorf("unexpected metrics fled=%d attempts=%d", m.BattlesFled, m.EscapeAttempts)
	}
}

func TestSuccessfulEscapeSkipsEnemyTurn(t *testing.T) {
	src := random.NewSequence(0.0)
	bs, _, _ := newTestBattleSystem(src)
	p := player.New("Hero")
	b := bs.Start(p, goblin())

	if err := b.Submit("r"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if b.Outcome() != PlayerFled || p.HP() != 100 {
		t.Errorf("expected clean escape, got %s with %d hp", b.Outcome(), p.HP())
	}
	if src.Draws() != 1 {
		t.Errorf("expected only the escape roll, got %d draws", src.Draws())
	}
}

func TestPlainAttackTakesEnemyTo90(t *testing.T) {
	// Player: no crit, variation exactly 1.0. Enemy: no evasion, variation 0.9.
	src := random.NewSequence(0.99, 1.0/3, 0.99, 0.0)
	bs, el, _ := newTestBattleSystem(src)
	p := player.New("Hero")
	e := goblin()
	b := bs.Start(p, e)

	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if e.HP() != 90 || e.MaxHP() != 100 {
		t.Errorf("expected enemy 90/100, got %d/%d", e.HP(), e.MaxHP())
	}
	hits := el.GetByType(events.EventTypeDamageDealt)
	if len(hits) == 0 {
		t.Fatal("expected a DAMAGE_DEALT event")
	}
	dmg, ok := hits[0].Payload.(DamagePayload)
	if !ok {
		t.Fatalf("expected a DamagePayload, got %T", hits[0].Payload)
	}
	if dmg.Amount != 10 || dmg.Critical || dmg.Variation != 1.0 {
		t.Errorf("expected 10 damage at variation 1.0 without crit, got %+v", dmg)
	}
}

func TestBattleEndIsLoggedAsEvent(t *testing.T) {
	var buf bytes.Buffer
	el := events.NewEventLog(nil)
	log := logger.NewLoggerTo(&buf)
	m := metrics.New()
	inv := NewInventorySystem(el, log, m)
	prog := NewProgressionSystem(el, log, m)
	// Attack: no crit, variation 0.9. Loot: nothing passes.
	bs := NewBattleSystem(el, log, m, random.NewSequence(0.99, 0.0, 0.99), inv, prog)

	e := goblin()
	e.TakeDamage(e.HP() - 1)
	b := bs.Start(player.New("Hero"), e)
	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if !strings.Contains(buf.String(), "[EVENT:BATTLE_ENDED] Actor:Hero | vs Goblin (lvl 1): won after 1 turns") {
		t.Errorf("expected the battle end in the log, got:\n%s", buf.String())
	}
}

func TestVictoryLootRollsWholeCatalog(t *testing.T) {
	catalog := item.NewCatalog([]item.Item{
		{Name: "Old Bandage", Effect: item.EffectHeal, Power: 5, Quantity: 1, Level: 1},
		{Name: "Dragon Scale", Effect: item.EffectBoostShield, Power: 40, Quantity: 1, Level: 9},
	})
	// Attack: no crit, variation 0.9. Loot: want 4, both rolls pass.
	src := random.NewSequence(0.99, 0.0, 0.99, 0.0, 0.0, 0.0)
	bs, _, _ := newTestBattleSystem(src)
	bs.WithCatalog(catalog)
	p := player.New("Hero")
	e := enemy.New("Ogre", 5, enemy.TypeBasic, 0.5, nil)
	e.TakeDamage(e.HP() - 1)

	b := bs.Start(p, e)
	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if b.Outcome() != PlayerWon {
		t.Fatalf("expected a win, got %s", b.Outcome())
	}
	if len(b.Loot()) != 2 {
		t.Fatalf("expected both catalog items to drop, got %v", b.Loot())
	}
	for _, name := range []string{"Old Bandage", "Dragon Scale"} {
		if _, ok := p.Inventory().FindItem(name); !ok {
			t.Errorf("expected %s in the inventory", name)
		}
	}
}

func TestVictoryGrantsExperienceHealAndLoot(t *testing.T) {
	loot := []item.Item{item.New("Health Potion", item.EffectHeal, 35)}
	// Attack: no crit, variation 1.05. Loot: want 2, roll passes, no shuffle needed.
	src := random.NewSequence(0.99, 0.5, 0.0, 0.1)
	bs, el, m := newTestBattleSystem(src)
	p := player.New("Hero")
	p.TakeDamage(35)
	e := enemy.New("Rat", 1, enemy.TypeBasic, 0.5, loot)
	e.TakeDamage(95)

	b := bs.Start(p, e)
	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if b.Outcome() != PlayerWon {
		t.Fatalf("expected a win, got %s", b.Outcome())
	}
	r := b.Reward()
	if r.Experience != 10 || p.Experience() != 10 {
		t.Errorf("expected 10 xp, reward=%d player=%d", r.Experience, p.Experience())
	}
	if r.Healed != 20 || p.HP() != 90 {
		t.Errorf("expected +20 heal to 90, healed=%d hp=%d", r.Healed, p.HP())
	}
	if len(b.Loot()) != 1 {
		t.Fatalf("expected one loot item, got %v", b.Loot())
	}
	if _, ok := p.Inventory().FindItem("Health Potion"); !ok {
		t.Error("expected the loot in the inventory")
	}
	if len(el.GetByType(events.EventTypeLootDropped)) != 1 || len(el.GetByType(events.EventTypeBattleEnded)) != 1 {
		t.Error("expected loot and end events")
	}
	if m.BattlesWon != 1 {
		t.Errorf("expected 1 battle won, got %d", m.BattlesWon)
	}
	if err := b.Submit("attack"); !shellerrors.HasCode(err, shellerrors.CodeStateViolation) {
		t.Errorf("expected the finished battle to refuse input, got %v", err)
	}
}

func TestDefeatGivesNoReward(t *testing.T) {
	// Player: no crit, variation 0.9. Enemy: no evasion, variation 0.9.
	src := random.NewSequence(0.99, 0.0)
	bs, el, m := newTestBattleSystem(src)
	p := player.New("Hero")
	p.LoseHP(99)
	b := bs.Start(p, goblin())

	if err := b.Submit("attack"); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if b.Outcome() != PlayerLost || p.IsAlive() {
		t.Fatalf("expected the player to lose, got %s with %d hp", b.Outcome(), p.HP())
	}
	if p.Experience() != 0 || len(el.GetByType(events.EventTypeXPGained)) != 0 {
		t.Error("expected no experience for a defeat")
	}
	if m.BattlesLost != 1 {
		t.Errorf("expected 1 battle lost, got %d", m.BattlesLost)
	}
}

func TestAttackBoostIsConsumedByNextAttack(t *testing.T) {
	// Enemy turn after the boost, then the boosted attack, then the enemy again.
	src := random.NewSequence(0.99, 0.0, 0.99, 0.5, 0.99, 0.0)
	bs, _, _ := newTestBattleSystem(src)
	p := player.New("Hero")
	p.PickUp(item.New("Berserker Herb", item.EffectBoostAttack, 4).WithQuantity(2))
	e := goblin()
	b := bs.Start(p, e)

	if err := b.Submit("use"); err != nil {
		t.Fatal(err)
	}
	if err := b.Submit("4"); err != nil {
		t.Fatalf("boost: %v", err)
	}
	if b.AttackBoost() != 4 || p.Attack() != 14 {
		t.Fatalf("expected a +4 boost, battle=%d attack=%d", b.AttackBoost(), p.Attack())
	}
	if !p.HasBoostedAttackThisEncounter() || p.HasUsedAttackBoostThisTurn() {
		t.Error("expected the boost pending and the turn flag reset")
	}

	// A second boost while one is pending is refused without consuming a turn.
	turn, draws := b.Turn(), src.Draws()
	if err := b.Submit("use"); err != nil {
		t.Fatal(err)
	}
	err := b.Submit("4")
	if !shellerrors.HasCode(err, shellerrors.CodeStateViolation) {
		t.Fatalf("expected a refused boost, got %v", err)
	}
	if b.Turn() != turn || src.Draws() != draws || b.Pending() != DecisionAction {
		t.Error("expected the refusal to leave the turn untouched")
	}
	if it, _ := p.Inventory().FindItem("Berserker Herb"); it.Quantity != 1 {
		t.Errorf("expected one herb left, got %d", it.Quantity)
	}

	if err := b.Submit("attack"); err != nil {
		t.Fatal(err)
	}
	// floor(14*1.05) = 14.
	if e.HP() != 86 {
		t.Errorf("expected boosted hit to leave 86 hp, got %d", e.HP())
	}
	if b.AttackBoost() != 0 || p.Attack() != 10 || p.HasBoostedAttackThisEncounter() {
		t.Error("expected the boost to be consumed")
	}
}

func TestInvalidInputDoesNotConsumeTurn(t *testing.T) {
	src := random.NewSequence(0.5)
	bs, _, _ := newTestBattleSystem(src)
	b := bs.Start(player.New("Hero"), goblin())

	if err := b.Submit("dance"); !shellerrors.HasCode(err, shellerrors.CodeUserInput) {
		t.Errorf("expected user input error, got %v", err)
	}
	if err := b.Submit("use"); err != nil {
		t.Fatal(err)
	}
	for _, token := range []string{"abc", "9", "0"} {
		if err := b.Submit(token); !shellerrors.HasCode(err, shellerrors.CodeUserInput) {
			t.Errorf("%q: expected user input error, got %v", token, err)
		}
		if b.Pending() != DecisionItem {
			t.Errorf("%q: expected to stay at the item prompt", token)
		}
	}
	if err := b.Submit("cancel"); err != nil {
		t.Fatal(err)
	}
	if b.Pending() != DecisionAction || b.Turn() != 1 || src.Draws() != 0 {
		t.Errorf("expected no turn consumed, turn=%d draws=%d", b.Turn(), src.Draws())
	}
}

func TestUseWithEmptyInventory(t *testing.T) {
	p := player.New("Hero")
	for _, it := range p.Inventory().Items() {
		p.Inventory().RemoveItem(it.Name, it.Quantity)
	}
	bs, _, _ := newTestBattleSystem(random.NewSequence(0.5))
	b := bs.Start(p, goblin())

	if err := b.Submit("use"); !shellerrors.HasCode(err, shellerrors.CodeStateViolation) {
		t.Errorf("expected state violation, got %v", err)
	}
	if b.Pending() != DecisionAction {
		t.Error("expected to stay at the action prompt")
	}
}

type scriptedController struct {
	tokens   []string
	rejected []error
}

func (s *scriptedController) Choose(ctx context.Context, b *Battle) (string, error) {
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

func (s *scriptedController) Reject(b *Battle, err error) {
	s.rejected = append(s.rejected, err)
}

func TestRunDrivesToCompletion(t *testing.T) {
	src := random.NewSequence(0.99, 0.5, 0.0)
	bs, _, _ := newTestBattleSystem(src)
	e := goblin()
	e.TakeDamage(95)
	b := bs.Start(player.New("Hero"), e)

	c := &scriptedController{tokens: []string{"dance", "attack"}}
	outcome, err := b.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome != PlayerWon {
		t.Errorf("expected a win, got %s", outcome)
	}
	if len(c.rejected) != 1 {
		t.Errorf("expected one rejected token, got %v", c.rejected)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	bs, _, _ := newTestBattleSystem(random.NewSequence(0.5))
	b := bs.Start(player.New("Hero"), goblin())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := b.Run(ctx, &scriptedController{})
	if err == nil || outcome != InProgress {
		t.Errorf("expected cancellation with the battle in progress, got %s %v", outcome, err)
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{"attack": ActionAttack, " A ": ActionAttack, "use": ActionUse, "2": ActionUse, "RUN": ActionRun}
	for token, want := range cases {
		if got, ok := ParseAction(token); !ok || got != want {
			t.Errorf("ParseAction(%q) = %q, %t", token, got, ok)
		}
	}
	if _, ok := ParseAction("jump"); ok {
		t.Error("expected jump to be rejected")
	}
}
