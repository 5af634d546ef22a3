// Package ui holds the two front ends: a line-based console and a Bubble Tea
// TUI. Neither contains game rules; both submit tokens to the engine and
// render the journal.
package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/shadowshell/internal/domain/enemy"
	"github.com/MRamiBalles/shadowshell/internal/domain/inventory"
	"github.com/MRamiBalles/shadowshell/internal/domain/player"
	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/domain/world"
	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/events"
)

const title = "SHADOWSHELL"

const menuText = `1. Create a New Game
2. Load Saved Game
3. About
4. Exit`

const helpText = `Game Help:
- Use 'z', 'n' or 'go north' to move north.
- Use 's' or 'go south' to move south.
- Use 'q', 'w' or 'go west' to move west.
- Use 'd', 'e' or 'go east' to move east.
- 'map', 'stats' and 'inventory' show your situation.
- 'use N' uses item N outside of battle.
- 'allocate A D H' spends stat points on attack, defense and hp.
- 'save' saves, 'quit' saves and exits.
- In battle: 1/attack, 2/use, 3/run. 'c' cancels the item choice.`

const aboutText = `A turn-based adventure on a grid of forests,
swamps, plains and mountains. Defeat the
Goblin Overlord in the far corner to win.`

// journalCursor tracks which events have already been shown.
type journalCursor struct {
	seen int
}

// next returns the messages appended since the last call. Saves are silent.
func (c *journalCursor) next(el *events.EventLog) []string {
	fresh := el.Since(c.seen)
	c.seen += len(fresh)

	var out []string
	for _, e := range fresh {
		if e.Type == events.EventTypeGameSaved || e.Message == "" {
			continue
		}
		out = append(out, e.Message)
	}
	return out
}

// skip marks everything currently in the journal as seen.
func (c *journalCursor) skip(el *events.EventLog) {
	c.seen = el.Len()
}

func drawBox(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	width := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > width {
			width = n
		}
	}
	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	for _, l := range lines {
		pad := width - utf8.RuneCountInString(l)
		b.WriteString("║ " + l + strings.Repeat(" ", pad) + " ║\n")
	}
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝")
	return b.String()
}

func statsText(p *player.Player) string {
	s := fmt.Sprintf(`%s - Level %d
HP: %d/%d
Attack: %d
Defense: %d
XP: %d/%d`,
		p.Name(), p.Level(), p.HP(), p.MaxHP(), p.Attack(), p.Defense(),
		p.Experience(), p.ExperienceToNextLevel())
	if p.StatPoints() > 0 {
		s += fmt.Sprintf("\nStat points: %d", p.StatPoints())
	}
	if p.DamageReduction() > 0 {
		s += fmt.Sprintf("\nShield: %d%%", p.DamageReduction())
	}
	return drawBox(s)
}

func inventoryText(inv *inventory.Inventory) string {
	if !inv.HasItems() {
		return "Your inventory is empty."
	}
	var b strings.Builder
	b.WriteString("Inventory:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&b, "%-4s%-22s%-10s%-15s\n", "No.", "Item Name", "Quantity", "Power/Effect")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for i, it := range inv.Items() {
		fmt.Fprintf(&b, "%-4d%-22s x%-9d%s (%d)\n", i+1, it.Name, it.Quantity, it.Effect.Label(), it.Power)
	}
	return strings.TrimRight(b.String(), "\n")
}

// enemyGlyph picks the map marker for an enemy by level.
func enemyGlyph(e *enemy.Enemy) string {
	switch {
	case e.IsBoss():
		return "👑"
	case e.Level() <= 2:
		return "👺"
	case e.Level() <= 4:
		return "👹"
	case e.Level() <= 6:
		return "🧌"
	case e.Level() <= 8:
		return "🐉"
	}
	return "🦖"
}

var regionGlyphs = map[world.Region]string{
	world.Forest:   "🟩",
	world.Swamp:    "🟧",
	world.Plains:   "🟪",
	world.Mountain: "🟦",
}

// mapText draws the grid. Enemies are visible from afar; items are not.
func mapText(w *world.World, pos world.Position) string {
	var b strings.Builder
	b.WriteString("👺 Lvl 1-2 | 👹 Lvl 3-4 | 🧌 Lvl 5-6 | 🐉 Lvl 7-8 | 🦖 Lvl 9+ | 👑 Boss\n\n")
	for row := 0; row < w.Size(); row++ {
		for col := 0; col < w.Size(); col++ {
			p := world.Position{Row: row, Col: col}
			glyph := regionGlyphs[w.Region(p)]
			if e, ok := w.EnemyAt(p); ok {
				glyph = enemyGlyph(e)
			}
			if p == pos {
				glyph = "🧑"
			}
			b.WriteString(glyph)
			if col < w.Size()-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func healthText(b *engine.Battle) string {
	p, e := b.Player(), b.Enemy()
	return fmt.Sprintf("%s: %d/%d HP\n%s (lvl %d): %d/%d HP",
		p.Name(), p.HP(), p.MaxHP(), e.Name(), e.Level(), e.HP(), e.MaxHP())
}

func battlePrompt(b *engine.Battle) string {
	if b.Pending() == engine.DecisionItem {
		return "Choose an item number (c to cancel): "
	}
	return "Choose an action: [1] Attack  [2] Use item  [3] Run: "
}

func savesText(infos []save.Info) string {
	if len(infos) == 0 {
		return "No saved games."
	}
	var b strings.Builder
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s: %s, level %d (%s)\n", info.Name, info.Hero, info.Level, humanize.Time(info.SavedAt))
	}
	return strings.TrimRight(b.String(), "\n")
}
