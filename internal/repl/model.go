// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     repl
// Description: Interactive terminal session that parses each submitted line
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/internal/render"
)

const helpText = "enter: parse • :tokens toggle tokens • :sexpr toggle s-expressions • :clear • :quit"

// Model is the REPL state
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	quitting bool

	// Display toggles
	showTokens bool
	showSExpr  bool

	// Components
	input    textinput.Model
	viewport viewport.Model

	engine   *lang.Engine
	renderer *render.Renderer

	// Rendered transcript
	entries []string
}

// New creates a new REPL model
func New(engine *lang.Engine, renderer *render.Renderer) Model {
	ti := textinput.New()
	ti.Placeholder = "fn main() { let x = 1; }"
	ti.Prompt = "fn> "
	ti.CharLimit = 4000
	ti.Width = 80
	ti.Focus()

	return Model{
		input:    ti,
		engine:   engine,
		renderer: renderer,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			if quit := m.submit(line); quit {
				m.quitting = true
				return m, tea.Quit
			}
			m.updateContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 4
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 8
		m.updateContent()
	}

	// Update components
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles one input line and reports whether the session should end
func (m *Model) submit(line string) bool {
	switch line {
	case ":quit", ":q":
		return true
	case ":tokens":
		m.showTokens = !m.showTokens
		m.entries = append(m.entries, m.renderer.Help("token display "+onOff(m.showTokens)))
	case ":sexpr":
		m.showSExpr = !m.showSExpr
		m.entries = append(m.entries, m.renderer.Help("s-expression display "+onOff(m.showSExpr)))
	case ":clear":
		m.entries = nil
	case ":help":
		m.entries = append(m.entries, m.renderer.Help(helpText))
	default:
		m.entries = append(m.entries, m.input.Prompt+line+"\n"+m.evaluate(line))
	}
	return false
}

// evaluate parses one line and renders the result
func (m *Model) evaluate(line string) string {
	var out strings.Builder

	if m.showTokens {
		tokens, err := m.engine.Tokenize(context.Background(), line)
		if err == nil {
			out.WriteString(m.renderer.Tokens(tokens))
		}
	}

	result, err := m.engine.Parse(context.Background(), line)
	if err != nil {
		out.WriteString(m.renderer.Diagnostic("", line, lang.DiagnosticFrom(err)))
		return out.String()
	}

	if m.showSExpr {
		out.WriteString(m.renderer.SExpr(result.Statements))
	} else {
		out.WriteString(m.renderer.Tree(result.Statements))
	}
	if len(result.Statements) == 0 {
		out.WriteString(m.renderer.Help("(no statements)") + "\n")
	}
	return out.String()
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.entries, "\n"))
	m.viewport.GotoBottom()
}

// Transcript returns the rendered session so far
func (m Model) Transcript() string {
	return strings.Join(m.entries, "\n")
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	title := m.renderer.Title("fnlang repl")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		m.input.View(),
		m.renderer.Help(helpText),
	)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Run starts an interactive session on the terminal
func Run(engine *lang.Engine, renderer *render.Renderer, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(New(engine, renderer), opts...)
	_, err := p.Run()
	return err
}
