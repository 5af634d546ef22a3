package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/engine"
)

type screen int

const (
	screenMenu screen = iota
	screenAbout
	screenHeroName
	screenSaveName
	screenConfirm
	screenLoad
	screenLoading
	screenPlay
	screenEnd
)

// logLines is how many journal messages stay on screen.
const logLines = 8

// Model is the Bubble Tea front end.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	recap  RecapFunc

	screen  screen
	input   textinput.Model
	spinner spinner.Model

	game   *engine.Game
	hero   string
	slot   string
	saves  []save.Info
	log    []string
	panel  string
	cursor journalCursor
	err    error

	Quitting bool
}

type gameReadyMsg struct {
	game  *engine.Game
	recap []string
	err   error
}

// NewModel creates the TUI. ctx bounds every save and load it performs.
func NewModel(ctx context.Context, e *engine.Engine, recap RecapFunc) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		engine:  e,
		recap:   recap,
		input:   ti,
		spinner: s,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.game != nil && !m.game.Over() {
				m.err = m.game.Save(m.ctx)
			}
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.screen == screenLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case gameReadyMsg:
		if msg.game == nil {
			m.err = msg.err
			m.screen = screenMenu
			return m, nil
		}
		m.game = msg.game
		m.err = msg.err
		m.log = nil
		m.panel = ""
		for _, l := range msg.recap {
			m.pushLog(l)
		}
		if err := m.game.Enter(m.ctx); err != nil {
			m.err = err
		}
		m.drain()
		return m.enterPlay()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.screen {
	case screenMenu:
		m.err = nil
		switch key {
		case "1", "n":
			m.screen = screenHeroName
			return m, m.prompt("")
		case "2", "l":
			saves, err := m.engine.Saves(m.ctx)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.saves = saves
			m.screen = screenLoad
			return m, m.prompt("")
		case "3", "a":
			m.screen = screenAbout
		case "4", "q", "esc":
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil

	case screenAbout:
		m.screen = screenMenu
		return m, nil

	case screenHeroName, screenSaveName, screenLoad:
		switch msg.Type {
		case tea.KeyEsc:
			m.screen = screenMenu
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			return m.submitField()
		}

	case screenConfirm:
		if key == "y" {
			return m.startLoading(newGameCmd(m.ctx, m.engine, m.slot, m.hero))
		}
		m.screen = screenMenu
		return m, nil

	case screenLoading:
		return m, nil

	case screenPlay:
		if m.game.Battle() != nil {
			return m.command(key)
		}
		if msg.Type == tea.KeyEnter {
			line := m.input.Value()
			m.input.Reset()
			return m.command(line)
		}

	case screenEnd:
		m.game = nil
		m.screen = screenMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitField() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}
	switch m.screen {
	case screenHeroName:
		m.hero = value
		m.screen = screenSaveName
		return m, m.prompt("")
	case screenSaveName:
		m.slot = value
		exists, err := m.engine.SaveExists(m.ctx, value)
		if err != nil {
			m.err = err
			m.screen = screenMenu
			return m, nil
		}
		if exists {
			m.input.Blur()
			m.screen = screenConfirm
			return m, nil
		}
		return m.startLoading(newGameCmd(m.ctx, m.engine, m.slot, m.hero))
	default:
		m.slot = value
		return m.startLoading(loadGameCmd(m.ctx, m.engine, m.slot, m.recap))
	}
}

func (m Model) startLoading(load tea.Cmd) (tea.Model, tea.Cmd) {
	m.input.Blur()
	m.screen = screenLoading
	m.cursor.skip(m.engine.EventLog())
	return m, tea.Batch(m.spinner.Tick, load)
}

func (m Model) enterPlay() (tea.Model, tea.Cmd) {
	if m.game.Status() == engine.StatusQuit {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.game.Over() {
		m.screen = screenEnd
		return m, nil
	}
	m.screen = screenPlay
	if m.game.Battle() != nil {
		m.input.Blur()
		return m, nil
	}
	return m, m.prompt("")
}

// command sends one token to the game and refreshes the screen.
func (m Model) command(token string) (tea.Model, tea.Cmd) {
	reply, err := m.game.Command(m.ctx, token)
	m.err = err
	m.drain()

	switch reply {
	case engine.ReplyHelp:
		m.panel = drawBox(helpText)
	case engine.ReplyStats:
		m.panel = statsText(m.game.Player())
	case engine.ReplyInventory:
		m.panel = inventoryText(m.game.Player().Inventory())
	case engine.ReplyMap:
		m.panel = mapText(m.game.World(), m.game.Position())
	default:
		m.panel = ""
	}
	return m.enterPlay()
}

func (m *Model) prompt(value string) tea.Cmd {
	m.input.SetValue(value)
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) drain() {
	for _, msg := range m.cursor.next(m.engine.EventLog()) {
		m.pushLog(msg)
	}
}

func (m *Model) pushLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func (m Model) View() string {
	if m.Quitting {
		return "Goodbye!\n"
	}
	var b strings.Builder
	b.WriteString("-- " + title + " --\n\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(drawBox(menuText) + "\n")
	case screenAbout:
		b.WriteString(drawBox(aboutText) + "\n\nPress any key to return.\n")
	case screenHeroName:
		b.WriteString("Enter your character's name:\n" + m.input.View() + "\n")
	case screenSaveName:
		b.WriteString("Enter a name for your save:\n" + m.input.View() + "\n")
	case screenConfirm:
		fmt.Fprintf(&b, "A save named %q already exists. Overwrite it? (y/n)\n", m.slot)
	case screenLoad:
		b.WriteString(savesText(m.saves) + "\n\nSave to load:\n" + m.input.View() + "\n")
	case screenLoading:
		fmt.Fprintf(&b, "%s Loading %s...\n", m.spinner.View(), m.slot)
	case screenPlay, screenEnd:
		b.WriteString(m.playView())
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n! %v\n", m.err)
	}
	return b.String()
}

func (m Model) playView() string {
	var b strings.Builder
	g := m.game
	b.WriteString(statsText(g.Player()) + "\n\n")

	if bt := g.Battle(); bt != nil {
		b.WriteString(healthText(bt) + "\n\n")
		if bt.Pending() == engine.DecisionItem {
			b.WriteString(inventoryText(g.Player().Inventory()) + "\n")
		}
	} else if m.panel != "" {
		b.WriteString(m.panel + "\n\n")
	} else {
		b.WriteString(mapText(g.World(), g.Position()) + "\n\n")
	}

	for _, l := range m.log {
		b.WriteString("  " + l + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.screen == screenEnd:
		switch g.Status() {
		case engine.StatusGameOver:
			b.WriteString(drawBox("GAME OVER") + "\n")
		case engine.StatusVictory:
			b.WriteString(drawBox("VICTORY") + "\n")
		}
		b.WriteString("Press any key to continue.\n")
	case g.Battle() != nil:
		b.WriteString(battlePrompt(g.Battle()) + "\n")
	default:
		b.WriteString(m.input.View() + "\n")
	}
	return b.String()
}

func newGameCmd(ctx context.Context, e *engine.Engine, slot, hero string) tea.Cmd {
	return func() tea.Msg {
		g, err := e.NewGame(ctx, slot, hero)
		return gameReadyMsg{game: g, err: err}
	}
}

func loadGameCmd(ctx context.Context, e *engine.Engine, slot string, recap RecapFunc) tea.Cmd {
	return func() tea.Msg {
		g, err := e.LoadGame(ctx, slot)
		if err != nil {
			return gameReadyMsg{err: err}
		}
		msg := gameReadyMsg{game: g}
		if recap != nil {
			msg.recap, msg.err = recap(ctx, g.Name(), g.Player().Name())
		}
		return msg
	}
}
