// Package engine - battle.go
// Turn-based battle between the player and one enemy.
//
// A Battle is driven one token at a time through Submit. It only ever waits
// for the player at two points: the action choice and the item choice.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/item"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/rules"
	"github.com/MRamiBalles/shadowshell/internal/events"
	shellerrors "github.com/MRamiBalles/shadowshell/internal/platform/errors"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
)

// Outcome is the state of a battle.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	PlayerWon  Outcome = "won"
	PlayerLost Outcome = "lost"
	PlayerFled Outcome = "fled"
)

// Decision is what the battle is waiting for.
type Decision int

const (
	DecisionAction Decision = iota // attack, use or run
	DecisionItem                   // 1-based item index or cancel
)

func (d Decision) String() string {
	if d == DecisionItem {
		return "item"
	}
	return "action"
}

// Action is a player battle action.
type Action string

const (
	ActionAttack Action = "attack"
	ActionUse    Action = "use"
	ActionRun    Action = "run"
)

// CancelToken returns from the item prompt to the action prompt.
const CancelToken = "cancel"

// ParseAction maps a player token onto an Action.
func ParseAction(token string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "attack", "a", "1":
		return ActionAttack, true
	case "use", "u", "item", "i", "2":
		return ActionUse, true
	case "run", "r", "flee", "3":
		return ActionRun, true
	}
	return "", false
}

// BattleStartedPayload is emitted when an encounter begins.
type BattleStartedPayload struct {
	Enemy      string     `json:"enemy"`
	EnemyType  enemy.Type `json:"enemy_type"`
	EnemyLevel int        `json:"enemy_level"`
	EnemyHP    int        `json:"enemy_hp"`
	PlayerHP   int        `json:"player_hp"`
}

// DamagePayload records one hit.
type DamagePayload struct {
	Amount     int     `json:"amount"`
	Critical   bool    `json:"critical"`
	Variation  float64 `json:"variation"`
	DefenderHP int     `json:"defender_hp"`
	Source     string  `json:"source"` // "attack" or "escape"
}

// EscapePayload records a run attempt.
type EscapePayload struct {
	Attempt int     `json:"attempt"`
	Chance  float64 `json:"chance"`
	Success bool    `json:"success"`
	Forced  bool    `json:"forced"` // the enemy let the player go
	Damage  int     `json:"damage"`
}

// BattleEndedPayload closes an encounter.
type BattleEndedPayload struct {
	Outcome Outcome  `json:"outcome"`
	Turns   int      `json:"turns"`
	Reward  Reward   `json:"reward"`
	Loot    []string `json:"loot,omitempty"`
}

// BattleSystem creates battles and owns the shared random source.
type BattleSystem struct {
	eventLog    *events.EventLog
	logger      *logger.Logger
	metrics     *metrics.Collector
	src         random.Source
	inventory   *InventorySystem
	progression *ProgressionSystem
	catalog     *item.Catalog
}

// NewBattleSystem wires a battle system. All battle randomness comes from src.
func NewBattleSystem(el *events.EventLog, log *logger.Logger, m *metrics.Collector, src random.Source,
	inv *InventorySystem, prog *ProgressionSystem) *BattleSystem {
	return &BattleSystem{
		eventLog:    el,
		logger:      log,
		metrics:     m,
		src:         src,
		inventory:   inv,
		progression: prog,
	}
}

// WithCatalog sets the item catalog victory loot is rolled from. Without one
// each enemy drops from its own loot table.
func (bs *BattleSystem) WithCatalog(c *item.Catalog) *BattleSystem {
	bs.catalog = c
	return bs
}

func (bs *BattleSystem) lootCandidates() []item.Item {
	if bs.catalog == nil || bs.catalog.Len() == 0 {
		return nil
	}
	return bs.catalog.All()
}

// Battle is one encounter. It is transient and not persisted.
type Battle struct {
	sys    *BattleSystem
	player *player.Player
	enemy  *enemy.Enemy

	decision    Decision
	outcome     Outcome
	turn        int
	runAttempts int
	attackBoost int // mirrors the player's pending boost

	reward Reward
	loot   []item.Item
}

// Start opens a battle between p and e.
func (bs *BattleSystem) Start(p *player.Player, e *enemy.Enemy) *Battle {
	b := &Battle{
		sys:      bs,
		player:   p,
		enemy:    e,
		decision: DecisionAction,
		outcome:  InProgress,
		turn:     1,
	}
	b.attackBoost = p.AttackBoost()

	bs.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeBattleStarted,
		ActorID:  p.Name(),
		TargetID: e.Name(),
		Payload: BattleStartedPayload{
			Enemy:      e.Name(),
			EnemyType:  e.Type(),
			EnemyLevel: e.Level(),
			EnemyHP:    e.HP(),
			PlayerHP:   p.HP(),
		},
		Turn:    b.turn,
		Message: fmt.Sprintf("A wild %s (level %d) appears!", e.Name(), e.Level()),
	})
	bs.logger.Info(fmt.Sprintf("[BATTLE] %s (lvl %d) vs %s (lvl %d, %s)",
		p.Name(), p.Level(), e.Name(), e.Level(), e.Type()))

	// A dead enemy can still be standing on the map.
	if !e.IsAlive() {
		b.finish(PlayerWon)
	}
	return b
}

// Player returns the player side.
func (b *Battle) Player() *player.Player { return b.player }

// Enemy returns the enemy side.
func (b *Battle) Enemy() *enemy.Enemy { return b.enemy }

// Pending returns what the battle is waiting for.
func (b *Battle) Pending() Decision { return b.decision }

// Outcome returns the battle state.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Done reports whether the battle has ended.
func (b *Battle) Done() bool { return b.outcome != InProgress }

// Turn returns the current turn number, starting at 1.
func (b *Battle) Turn() int { return b.turn }

// RunAttempts returns how many escapes were tried.
func (b *Battle) RunAttempts() int { return b.runAttempts }

// AttackBoost returns the boost the next attack will add.
func (b *Battle) AttackBoost() int { return b.attackBoost }

// Reward returns what a won battle granted.
func (b *Battle) Reward() Reward { return b.reward }

// Loot returns the items dropped by a defeated enemy.
func (b *Battle) Loot() []item.Item { return b.loot }

// Submit feeds one player token to the battle.
//
// A UserInput error means the token was not understood; the same prompt is
// still pending. A StateViolation error means the action was refused and no
// turn was consumed. Neither ends the battle.
func (b *Battle) Submit(token string) error {
	if b.Done() {
		return shellerrors.New(shellerrors.CodeStateViolation, "the battle is over")
	}
	token = strings.ToLower(strings.TrimSpace(token))
	if b.decision == DecisionItem {
		return b.submitItem(token)
	}

	action, ok := ParseAction(token)
	if !ok {
		return shellerrors.WithMetadata(shellerrors.CodeUserInput,
			"Invalid action. Please choose again.", map[string]string{"token": token})
	}

	switch action {
	case ActionAttack:
		b.playerAttack()
	case ActionUse:
		if !b.player.Inventory().HasItems() {
			return shellerrors.New(shellerrors.CodeStateViolation, "Your inventory is empty.")
		}
		b.decision = DecisionItem
		return nil
	case ActionRun:
		if b.attemptEscape() {
			b.finish(PlayerFled)
			return nil
		}
	}
	b.afterPlayerAction()
	return nil
}

func (b *Battle) submitItem(token string) error {
	if token == CancelToken || token == "c" {
		b.decision = DecisionAction
		b.sys.logger.Info("[BATTLE] item choice cancelled")
		return nil
	}
	index, err := strconv.Atoi(token)
	if err != nil {
		return shellerrors.New(shellerrors.CodeUserInput,
			"Invalid input. Please enter a number or 'cancel' to go back.")
	}

	out, err := b.sys.inventory.UseItem(b.player, index, b.enemy, b.turn)
	if err != nil {
		if !shellerrors.HasCode(err, shellerrors.CodeUserInput) {
			b.decision = DecisionAction
		}
		return err
	}

	b.decision = DecisionAction
	if out.Item.Effect == item.EffectBoostAttack {
		b.attackBoost = b.player.AttackBoost()
	}
	b.afterPlayerAction()
	return nil
}

// afterPlayerAction resolves deaths, then gives the enemy its turn.
func (b *Battle) afterPlayerAction() {
	if !b.enemy.IsAlive() {
		b.finish(PlayerWon)
		return
	}
	if !b.player.IsAlive() {
		b.finish(PlayerLost)
		return
	}
	b.enemyTurn()
	if !b.player.IsAlive() {
		b.finish(PlayerLost)
		return
	}
	b.endTurn()
}

func (b *Battle) endTurn() {
	b.player.EndTurn()
	b.turn++
}

func (b *Battle) playerAttack() {
	p, e, src := b.player, b.enemy, b.sys.src

	attack := p.Attack()
	crit := random.Roll(src, rules.CritChance(p.Level(), attack, e.Attack()))
	variation := random.Uniform(src, rules.VariationMin, rules.VariationMax)
	dealt := e.TakeDamage(rules.Damage(attack, variation, crit))

	msg := fmt.Sprintf("%s attacks %s for %d damage.", p.Name(), e.Name(), dealt)
	if crit {
		msg = fmt.Sprintf("Critical hit! %s deals %d damage to %s!", p.Name(), dealt, e.Name())
		b.sys.metrics.RecordCritical()
		b.sys.eventLog.Append(events.GameEvent{
			Type:     events.EventTypeCriticalHit,
			ActorID:  p.Name(),
			TargetID: e.Name(),
			Turn:     b.turn,
		})
	}
	b.sys.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeDamageDealt,
		ActorID:  p.Name(),
		TargetID: e.Name(),
		Payload: DamagePayload{
			Amount:     dealt,
			Critical:   crit,
			Variation:  variation,
			DefenderHP: e.HP(),
			Source:     "attack",
		},
		Turn:    b.turn,
		Message: msg,
	})
	b.sys.metrics.RecordDamage(dealt, false)

	if boost := p.ConsumeAttackBoost(); boost > 0 {
		b.sys.logger.Info(fmt.Sprintf("[BATTLE] %s attack boost of %d reset", p.Name(), boost))
	}
	b.attackBoost = 0
}

// attemptEscape reports whether the player got away. After the maximum number
// of failures the enemy lets the player go without a roll.
func (b *Battle) attemptEscape() bool {
	p, e := b.player, b.enemy
	b.sys.metrics.RecordEscapeAttempt()

	if b.runAttempts >= rules.MaxRunAttempts {
		b.runAttempts++
		b.journalEscape(EscapePayload{Attempt: b.runAttempts, Chance: 1, Success: true, Forced: true},
			"The monster took pity on you. It let you go...")
		return true
	}

	chance := rules.EscapeChance(p.Level(), e.Level())
	success := random.Roll(b.sys.src, chance)
	b.runAttempts++

	if success {
		b.journalEscape(EscapePayload{Attempt: b.runAttempts, Chance: chance, Success: true},
			"You successfully escape!")
		return true
	}

	lost := p.LoseHP(rules.FailedEscapeDamage(e.Attack(), p.Defense()))
	b.sys.metrics.RecordDamage(lost, true)
	b.journalEscape(EscapePayload{Attempt: b.runAttempts, Chance: chance, Damage: lost},
		fmt.Sprintf("%s hits you while you try to escape! You take %d damage. Escape attempt %d/%d failed.",
			e.Name(), lost, b.runAttempts, rules.MaxRunAttempts))
	return false
}

func (b *Battle) journalEscape(payload EscapePayload, msg string) {
	b.sys.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeEscapeAttempted,
		ActorID:  b.player.Name(),
		TargetID: b.enemy.Name(),
		Payload:  payload,
		Turn:     b.turn,
		Message:  msg,
	})
	b.sys.logger.Info(fmt.Sprintf("[BATTLE] escape attempt %d success=%t forced=%t",
		payload.Attempt, payload.Success, payload.Forced))
}

func (b *Battle) enemyTurn() {
	p, e, src := b.player, b.enemy, b.sys.src

	if random.Roll(src, rules.EvasionChance(p.Level(), p.Attack(), e.Attack())) {
		b.sys.metrics.RecordEvasion()
		b.sys.eventLog.Append(events.GameEvent{
			Type:     events.EventTypeAttackEvaded,
			ActorID:  p.Name(),
			TargetID: e.Name(),
			Turn:     b.turn,
			Message:  fmt.Sprintf("%s evades the attack!", p.Name()),
		})
		return
	}

	variation := random.Uniform(src, rules.VariationMin, rules.VariationMax)
	lost := p.TakeDamage(rules.Damage(e.Attack(), variation, false))
	b.sys.metrics.RecordDamage(lost, true)
	b.sys.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeDamageDealt,
		ActorID:  e.Name(),
		TargetID: p.Name(),
		Payload: DamagePayload{
			Amount:     lost,
			Variation:  variation,
			DefenderHP: p.HP(),
			Source:     "attack",
		},
		Turn:    b.turn,
		Message: fmt.Sprintf("%s attacks %s for %d damage.", e.Name(), p.Name(), lost),
	})
}

func (b *Battle) finish(outcome Outcome) {
	b.outcome = outcome
	b.decision = DecisionAction
	p, e := b.player, b.enemy

	var lootNames []string
	msg := fmt.Sprintf("%s escaped!", p.Name())
	switch outcome {
	case PlayerWon:
		msg = fmt.Sprintf("%s has defeated %s!", p.Name(), e.Name())
		b.reward = b.sys.progression.Reward(p, e, b.turn)
		b.loot = e.DropLoot(b.sys.src, b.sys.lootCandidates())
		b.sys.inventory.GrantLoot(p, e.Name(), b.loot, b.turn)
		for _, it := range b.loot {
			lootNames = append(lootNames, it.Name)
		}
	case PlayerLost:
		msg = fmt.Sprintf("%s has defeated %s!", e.Name(), p.Name())
	}

	p.EndEncounter()
	b.attackBoost = 0

	b.sys.metrics.RecordBattle(string(outcome), b.turn)
	b.sys.eventLog.Append(events.GameEvent{
		Type:     events.EventTypeBattleEnded,
		ActorID:  p.Name(),
		TargetID: e.Name(),
		Payload:  BattleEndedPayload{Outcome: outcome, Turns: b.turn, Reward: b.reward, Loot: lootNames},
		Turn:     b.turn,
		Message:  msg,
	})
	b.sys.logger.Event(string(events.EventTypeBattleEnded), p.Name(),
		fmt.Sprintf("vs %s (lvl %d): %s after %d turns", e.Name(), e.Level(), outcome, b.turn))
}

// Controller supplies tokens to a battle and hears about rejected ones.
type Controller interface {
	Choose(ctx context.Context, b *Battle) (string, error)
	Reject(b *Battle, err error)
}

// Run drives the battle to an end state. Rejected tokens are handed back to
// the controller and the loop continues; only ctx or the controller can stop it
// early, in which case the battle stays in progress.
func (b *Battle) Run(ctx context.Context, c Controller) (Outcome, error) {
	for !b.Done() {
		if err := ctx.Err(); err != nil {
			return b.outcome, err
		}
		token, err := c.Choose(ctx, b)
		if err != nil {
			return b.outcome, err
		}
		if err := b.Submit(token); err != nil {
			c.Reject(b, err)
		}
	}
	return b.outcome, nil
}
