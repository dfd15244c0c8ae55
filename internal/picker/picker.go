// Package picker lets the user choose which dialogue lines to attach to an
// issue when several overlap its timecode.
package picker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/danielolaszy/qcmd/internal/logging"
	"github.com/danielolaszy/qcmd/pkg/models"
)

var (
	// ErrCancelled is returned when the user aborts the picker.
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoTerminal is returned when stdin cannot drive an interactive prompt.
	ErrNoTerminal = errors.New("stdin is not a terminal; use --skip-reference-picker")
)

// Picker is a terminal multi-select prompt.
type Picker struct {
	in  *os.File
	out io.Writer
}

// New returns a picker reading keys from in and drawing to out.
func New(in *os.File, out io.Writer) *Picker {
	return &Picker{in: in, out: out}
}

// Interactive marks the picker as blocking on user input.
func (p *Picker) Interactive() bool {
	return true
}

// Select shows the candidates and returns those the user marked, in
// candidate order.
func (p *Picker) Select(issue models.Issue, candidates []models.ReferenceLine) ([]models.ReferenceLine, error) {
	if !term.IsTerminal(int(p.in.Fd())) {
		return nil, ErrNoTerminal
	}
	log := logging.Component("picker")
	log.Debug("opening picker",
		"timecode", issue.Timecode.String(),
		"candidates", len(candidates))

	prog := tea.NewProgram(newModel(issue, candidates), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(*model)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model %T", final)
	}
	if m.cancelled {
		log.Debug("picker cancelled", "timecode", issue.Timecode.String())
		return nil, ErrCancelled
	}
	chosen := m.chosen()
	log.Debug("picker closed", "selected", len(chosen))
	return chosen, nil
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "abort")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	issue      models.Issue
	candidates []models.ReferenceLine
	selected   []bool
	cursor     int
	width      int
	cancelled  bool
}

func newModel(issue models.Issue, candidates []models.ReferenceLine) *model {
	return &model{
		issue:      issue,
		candidates: candidates,
		selected:   make([]bool, len(candidates)),
		width:      80,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Confirm):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			m.selected[m.cursor] = !m.selected[m.cursor]
		case key.Matches(msg, keys.All):
			all := !m.allSelected()
			for i := range m.selected {
				m.selected[i] = all
			}
		}
	}
	return m, nil
}

func (m *model) allSelected() bool {
	for _, s := range m.selected {
		if !s {
			return false
		}
	}
	return true
}

func (m *model) chosen() []models.ReferenceLine {
	out := make([]models.ReferenceLine, 0, len(m.candidates))
	for i, c := range m.candidates {
		if m.selected[i] {
			out = append(out, c)
		}
	}
	return out
}

func (m *model) View() string {
	var b strings.Builder
	header := fmt.Sprintf("%s [%s] %s", m.issue.Timecode, m.issue.Category, m.issue.Text)
	b.WriteString(titleStyle.Render(runewidth.Truncate(header, m.width, "…")))
	b.WriteString("\nSelect the lines this issue refers to:\n\n")

	// "> [x] " prefix
	avail := m.width - 6
	if avail < 10 {
		avail = 10
	}
	for i, c := range m.candidates {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ] "
		line := runewidth.Truncate(string(c), avail, "…")
		if m.selected[i] {
			box = "[x] "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + box + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine(keys.Up, keys.Down, keys.Toggle, keys.All, keys.Confirm, keys.Quit)))
	b.WriteString("\n")
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
