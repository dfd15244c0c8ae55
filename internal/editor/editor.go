// Package editor shows the rendered checklist and lets the user revise it
// in their own editor before it is submitted.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/danielolaszy/qcmd/internal/logging"
)

var (
	// ErrCancelled is returned when the user aborts the prompt.
	ErrCancelled = errors.New("edit cancelled")
	// ErrNoTerminal is returned when stdin cannot drive the prompt.
	ErrNoTerminal = errors.New("stdin is not a terminal; use --skip-edit")
)

// Editor holds the document being reviewed.
type Editor struct {
	text    string
	in      *os.File
	out     io.Writer
	command []string
}

// New returns an editor prompt for text.
func New(text string, in *os.File, out io.Writer) *Editor {
	return &Editor{text: text, in: in, out: out, command: Command()}
}

// Command returns the user's editor command line from $VISUAL or $EDITOR.
func Command() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}

// Prompt runs the review loop and returns the final text.
func (e *Editor) Prompt() (string, error) {
	if !term.IsTerminal(int(e.in.Fd())) {
		return "", ErrNoTerminal
	}

	file, err := os.CreateTemp("", "qcmd-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(e.text); err != nil {
		file.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	m := newModel(e.text, file.Name(), e.command)
	prog := tea.NewProgram(m, tea.WithInput(e.in), tea.WithOutput(e.out))
	if _, err := prog.Run(); err != nil {
		return "", fmt.Errorf("run editor prompt: %w", err)
	}

	switch {
	case m.err != nil:
		return "", m.err
	case m.cancelled:
		return "", ErrCancelled
	}
	e.text = m.text
	return m.text, nil
}

type editedMsg struct {
	err error
}

var keys = struct {
	Edit    key.Binding
	Preview key.Binding
	Submit  key.Binding
	Quit    key.Binding
}{
	Edit:    key.NewBinding(key.WithKeys("e")),
	Preview: key.NewBinding(key.WithKeys("p")),
	Submit:  key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c")),
}

var (
	editKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	previewKey = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	submitKey  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type model struct {
	text      string
	path      string
	command   []string
	preview   bool
	cancelled bool
	err       error
}

func newModel(text, path string, command []string) *model {
	return &model{text: text, path: path, command: command, preview: true}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("run %s: %w", m.command[0], msg.err)
			return m, tea.Quit
		}
		data, err := os.ReadFile(m.path)
		if err != nil {
			m.err = fmt.Errorf("read edited file: %w", err)
			return m, tea.Quit
		}
		m.text = string(data)
		logging.Debug("reloaded edited checklist", "bytes", len(data))
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m, tea.Quit
		case key.Matches(msg, keys.Preview):
			m.preview = !m.preview
		case key.Matches(msg, keys.Edit):
			args := append(append([]string{}, m.command[1:]...), m.path)
			c := exec.Command(m.command[0], args...)
			return m, tea.ExecProcess(c, func(err error) tea.Msg {
				return editedMsg{err: err}
			})
		}
	}
	return m, nil
}

func (m *model) View() string {
	body := m.text
	if m.preview {
		body = Preview(m.text)
	}
	return fmt.Sprintf("Processed text:\n%s\n(%s) to open in %s, (%s) to toggle Markdown preview, (%s) to submit\n",
		body,
		editKey.Render("e"),
		filepath.Base(m.command[0]),
		previewKey.Render("p"),
		submitKey.Render("enter"))
}
