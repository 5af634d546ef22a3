package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MRamiBalles/shadowshell/internal/engine"
)

// RecapFunc returns recap lines for a save, shown after loading it.
type RecapFunc func(ctx context.Context, saveName, hero string) ([]string, error)

// Console is the line-based front end used for pipes, scripts and tests.
type Console struct {
	engine *engine.Engine
	in     *bufio.Scanner
	out    io.Writer
	recap  RecapFunc
	cursor journalCursor
}

// NewConsole creates a console reading tokens from in.
func NewConsole(e *engine.Engine, in io.Reader, out io.Writer) *Console {
	return &Console{engine: e, in: bufio.NewScanner(in), out: out}
}

// WithRecap sets the recap shown after a load.
func (c *Console) WithRecap(fn RecapFunc) *Console {
	c.recap = fn
	return c
}

// Run shows the main menu until the player exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println(title)
		c.println(drawBox(menuText))
		choice, ok := c.prompt("> ")
		if !ok {
			return nil
		}

		var g *engine.Game
		switch strings.ToLower(choice) {
		case "1", "new":
			g = c.newGame(ctx)
		case "2", "load":
			g = c.loadGame(ctx)
		case "3", "about":
			c.println(drawBox(aboutText))
			continue
		case "4", "exit", "quit":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid choice. Please try again.")
			continue
		}
		if g == nil {
			continue
		}
		if done, err := c.Play(ctx, g); err != nil || done {
			return err
		}
	}
}

func (c *Console) newGame(ctx context.Context) *engine.Game {
	hero, ok := c.prompt("Enter your character's name: ")
	if !ok {
		return nil
	}
	slot, ok := c.prompt("Enter a name for your save: ")
	if !ok {
		return nil
	}
	exists, err := c.engine.SaveExists(ctx, slot)
	if err != nil {
		c.printErr(err)
		return nil
	}
	if exists {
		answer, ok := c.prompt(fmt.Sprintf("A save named %q already exists. Overwrite it? (y/n) ", slot))
		if !ok || !strings.EqualFold(answer, "y") {
			return nil
		}
	}

	c.cursor.skip(c.engine.EventLog())
	g, err := c.engine.NewGame(ctx, slot, hero)
	if g == nil {
		c.printErr(err)
		return nil
	}
	if err != nil {
		c.printErr(err)
	}
	c.println(fmt.Sprintf("Welcome, %s! Type 'help' for the list of commands.", g.Player().Name()))
	return g
}

func (c *Console) loadGame(ctx context.Context) *engine.Game {
	infos, err := c.engine.Saves(ctx)
	if err != nil {
		c.printErr(err)
		return nil
	}
	c.println(savesText(infos))
	if len(infos) == 0 {
		return nil
	}
	slot, ok := c.prompt("Save to load: ")
	if !ok {
		return nil
	}

	c.cursor.skip(c.engine.EventLog())
	g, err := c.engine.LoadGame(ctx, slot)
	if err != nil {
		c.printErr(err)
		return nil
	}
	c.println(fmt.Sprintf("Welcome back, %s!", g.Player().Name()))
	if c.recap != nil {
		lines, err := c.recap(ctx, g.Name(), g.Player().Name())
		if err != nil {
			c.printErr(err)
		} else if len(lines) > 0 {
			c.println("Battle Recap:")
			for _, l := range lines {
				c.println("  " + l)
			}
		}
	}
	return g
}

// Play runs one session. It reports done when the player asked to quit the
// program or input ended; a finished game returns to the menu.
func (c *Console) Play(ctx context.Context, g *engine.Game) (bool, error) {
	if err := g.Enter(ctx); err != nil {
		c.printErr(err)
	}
	for {
		c.flush()
		if g.Over() {
			c.ending(g)
			return g.Status() == engine.StatusQuit, nil
		}
		if err := ctx.Err(); err != nil {
			_ = g.Save(context.Background())
			return true, err
		}

		prompt := "> "
		if b := g.Battle(); b != nil {
			if b.Pending() == engine.DecisionItem {
				c.println(inventoryText(b.Player().Inventory()))
			} else {
				c.println(healthText(b))
			}
			prompt = battlePrompt(b)
		}
		line, ok := c.prompt(prompt)
		if !ok {
			if err := g.Save(ctx); err != nil {
				c.printErr(err)
			}
			return true, nil
		}

		reply, err := g.Command(ctx, line)
		c.flush()
		if err != nil {
			c.printErr(err)
		}
		switch reply {
		case engine.ReplyHelp:
			c.println(drawBox(helpText))
		case engine.ReplyStats:
			c.println(statsText(g.Player()))
		case engine.ReplyInventory:
			c.println(inventoryText(g.Player().Inventory()))
		case engine.ReplyMap:
			c.println(mapText(g.World(), g.Position()))
		}
	}
}

func (c *Console) ending(g *engine.Game) {
	switch g.Status() {
	case engine.StatusGameOver:
		c.println(drawBox("GAME OVER\n" + g.Player().Name() + " has fallen."))
	case engine.StatusVictory:
		c.println(drawBox("VICTORY\n" + g.Player().Name() + " saved the realm!"))
	case engine.StatusQuit:
		c.println("Game saved. Goodbye!")
	}
}

func (c *Console) flush() {
	for _, msg := range c.cursor.next(c.engine.EventLog()) {
		c.println(msg)
	}
}

func (c *Console) prompt(p string) (string, bool) {
	fmt.Fprint(c.out, p)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printErr(err error) {
	if err != nil {
		c.println("! " + err.Error())
	}
}
