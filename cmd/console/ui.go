package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/dayscene/pkg/game"
	"github.com/jwebster45206/dayscene/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "Option number, submit, next, save [slot], load [slot]..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	driver       Driver
	view         game.View
	hasView      bool
	gameViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	status       string
	busy         bool

	// Quit confirmation state
	showQuitModal bool
}

type viewMsg struct {
	cmd  *game.Command
	view game.View
	err  error
}

var (
	gamePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	tooltipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(driver Driver) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 100
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	gameVp := viewport.New(50, 20)
	gameVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		driver:       driver,
		textarea:     ta,
		gameViewport: gameVp,
		metaViewport: metaVp,
	}
}

// renderGame draws the main panel for v at the given text width.
func renderGame(v game.View, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("DAYSCENE") + "\n\n")

	switch v.Phase {
	case state.PhaseInScene.String():
		b.WriteString(dayStyle.Render(fmt.Sprintf("Day %d of %d", v.Day+1, v.DayCount)))
		if v.DayText != "" {
			b.WriteString(dayStyle.Render(": " + v.DayText))
		}
		b.WriteString("\n")
		if v.Scene == nil {
			break
		}
		s := v.Scene
		b.WriteString(promptStyle.Render(fmt.Sprintf("Scene %d of %d", s.Index+1, s.Count)) + "\n")
		if len(s.BgImages) > 0 {
			b.WriteString(promptStyle.Render("["+strings.Join(s.BgImages, ", ")+"]") + "\n")
		}
		b.WriteString("\n" + wordwrap.String(s.FgText, width) + "\n\n")

		for _, opt := range s.Options {
			mark := "[ ]"
			if opt.Selected {
				mark = "[x]"
			}
			line := fmt.Sprintf("%d. %s %s", opt.Index+1, mark, opt.Text)
			if opt.Selected {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
			for _, tip := range opt.Tooltip {
				b.WriteString(tooltipStyle.Render(wordwrap.String("     "+tip, width)) + "\n")
			}
		}
		b.WriteString("\n" + promptStyle.Render(fmt.Sprintf("Type an option number to toggle it, or 'submit' to %s.", s.ButtonText)) + "\n")

	case state.PhaseDaySummary.String():
		b.WriteString(dayStyle.Render(fmt.Sprintf("End of Day %d", v.Day+1)) + "\n\n")
		b.WriteString(v.Summary + "\n\n")
		b.WriteString(promptStyle.Render("Type 'next' to continue.") + "\n")

	case state.PhaseComplete.String():
		b.WriteString(dayStyle.Render("The End") + "\n\n")
		fmt.Fprintf(&b, "Every day is done. Final score: %.1f\n", v.TotalScore)
	}
	return b.String()
}

func renderMetadata(v game.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	b.WriteString("Game ID:\n")
	b.WriteString(v.GameID.String()[:8] + "...\n\n")

	b.WriteString("Day:\n")
	day := min(v.Day+1, v.DayCount)
	fmt.Fprintf(&b, "%d of %d\n\n", day, v.DayCount)

	b.WriteString("Stats:\n")
	if len(v.GlobalStats) == 0 {
		b.WriteString("None yet\n")
	}
	for _, name := range slices.Sorted(maps.Keys(v.GlobalStats)) {
		fmt.Fprintf(&b, "• %s: %+.1f\n", state.DisplayName(name), v.GlobalStats[name])
	}

	fmt.Fprintf(&b, "\nScore:\n%.1f\n\n", v.TotalScore)

	b.WriteString("Commands:\n")
	b.WriteString("• 1..9: Toggle option\n")
	b.WriteString("• submit / s\n")
	b.WriteString("• next / n\n")
	b.WriteString("• save [slot]\n")
	b.WriteString("• load [slot]\n")
	b.WriteString("• /help, Ctrl+C\n")
	return b.String()
}

func (m *ConsoleUI) writeGameContent() {
	width := m.gameViewport.Width - 6 // Account for left(3) + right(3) padding
	text := renderGame(m.view, width)
	if m.status != "" {
		text += "\n" + statusStyle.Render(m.status) + "\n"
	}
	if m.err != nil {
		text += "\n" + errorStyle.Render(wordwrap.String("Error: "+m.err.Error(), width)) + "\n"
	}
	m.gameViewport.SetContent(text)
	if m.hasView {
		m.metaViewport.SetContent(renderMetadata(m.view))
	}
}

func (m *ConsoleUI) layout() {
	gameWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - gameWidth - 6

	m.gameViewport.Width = gameWidth - 2
	m.gameViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(gameWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refresh())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeGameContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}

	case viewMsg:
		m.busy = false
		m.view = msg.view
		m.hasView = true
		m.err = msg.err
		m.status = ""
		if msg.err == nil && msg.cmd != nil {
			switch msg.cmd.Type {
			case game.CmdSave:
				m.status = "Game saved."
			case game.CmdLoad:
				m.status = "Game loaded."
			}
		}
		m.writeGameContent()
		m.gameViewport.GotoTop()
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.gameViewport, vpCmd = m.gameViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/help":
		m.err = nil
		m.status = "Toggle options by number, then 'submit'. After a day's summary type 'next'. " +
			"'save' and 'load' take an optional slot name such as 'save morning'."
		m.writeGameContent()
		return m, nil
	case "/quit", "/q":
		m.showQuitModal = true
		return m, nil
	}

	cmd, err := game.ParseCommand(input)
	if err != nil {
		m.err = err
		m.status = ""
		m.writeGameContent()
		return m, nil
	}
	m.busy = true
	return m, m.dispatch(cmd)
}

func (m ConsoleUI) dispatch(cmd game.Command) tea.Cmd {
	return func() tea.Msg {
		view, err := m.driver.Dispatch(context.Background(), cmd)
		return viewMsg{cmd: &cmd, view: view, err: err}
	}
}

func (m ConsoleUI) refresh() tea.Cmd {
	return func() tea.Msg {
		view, err := m.driver.View(context.Background())
		return viewMsg{view: view, err: err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	gameWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - gameWidth - 6

	gamePanel := gamePanelStyle.Width(gameWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.gameViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", max(gameWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, gamePanel, metaPanel)
}
