// Package tui implements the interactive chat surface with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docinferx/docinferx-cli/internal/core/ports/driving"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	err      error
}

// answerMsg delivers the result of an Ask call back to the model.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	service  driving.AnswerService
	topK     int
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []exchange
	thinking bool
	ready    bool
	ctx      context.Context
}

// New creates a chat model over the answer service. topK bounds
// retrieval for every question in the session.
func New(service driving.AnswerService, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		service:  service,
		topK:     topK,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		ctx:      context.Background(),
	}
}

// WithContext sets the context used for Ask calls.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 2 // title + input box + hint and spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.thinking {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.thinking = true
			return m, tea.Batch(m.spinner.Tick, m.ask(q))
		}
		if msg.String() == "up" || msg.String() == "down" {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case answerMsg:
		m.thinking = false
		m.history = append(m.history, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("Docinferx Chat")
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	hint := hintStyle.Render("Enter to ask, Esc to quit")
	if m.thinking {
		hint = m.spinner.View() + " Thinking..."
	}
	return title + "\n" + transcript + "\n" + input + "\n" + hint
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.service.Ask(m.ctx, question, m.topK)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return "No questions yet. Type one below."
	}
	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", ex.err)))
			continue
		}
		b.WriteString(ex.answer)
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
