package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnswerService struct {
	answer      string
	err         error
	gotQuestion string
	gotTopK     int
}

func (m *mockAnswerService) Ask(ctx context.Context, question string, topK int) (string, error) {
	m.gotQuestion = question
	m.gotTopK = topK
	return m.answer, m.err
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestNew_InputFocused(t *testing.T) {
	m := New(&mockAnswerService{}, 5)

	assert.True(t, m.input.Focused())
	assert.Equal(t, 5, m.topK)
	assert.False(t, m.ready)
}

func TestUpdate_WindowSizeMakesReady(t *testing.T) {
	m := New(&mockAnswerService{}, 5)

	m = sized(m)

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "Docinferx Chat")
}

func TestView_NotReadyShowsLoading(t *testing.T) {
	m := New(&mockAnswerService{}, 5)

	assert.Equal(t, "Loading...", m.View())
}

func TestUpdate_EnterAsksQuestion(t *testing.T) {
	svc := &mockAnswerService{answer: "Compaction merges sstables."}
	m := sized(New(svc, 5))
	m.input.SetValue("what is compaction?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.True(t, m.thinking)
	assert.Empty(t, m.input.Value())
	require.NotNil(t, cmd)

	// Run the batched command and feed the answer back in.
	msg := findAnswerMsg(t, cmd())
	updated, _ = m.Update(msg)
	m = updated.(Model)

	assert.False(t, m.thinking)
	require.Len(t, m.history, 1)
	assert.Equal(t, "what is compaction?", m.history[0].question)
	assert.Equal(t, "Compaction merges sstables.", m.history[0].answer)
	assert.Equal(t, "what is compaction?", svc.gotQuestion)
	assert.Equal(t, 5, svc.gotTopK)
}

func TestUpdate_EnterWithEmptyInputIsNoop(t *testing.T) {
	m := sized(New(&mockAnswerService{}, 5))
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.thinking)
	assert.Nil(t, cmd)
}

func TestUpdate_AnswerErrorShownInTranscript(t *testing.T) {
	m := sized(New(&mockAnswerService{}, 5))

	updated, _ := m.Update(answerMsg{
		question: "anything",
		err:      errors.New("service unreachable"),
	})
	m = updated.(Model)

	require.Len(t, m.history, 1)
	assert.Contains(t, m.renderTranscript(), "service unreachable")
}

func TestUpdate_EscQuits(t *testing.T) {
	m := sized(New(&mockAnswerService{}, 5))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderTranscript_Empty(t *testing.T) {
	m := New(&mockAnswerService{}, 5)

	assert.Contains(t, m.renderTranscript(), "No questions yet")
}

// findAnswerMsg digs the answerMsg out of a possibly batched command
// result.
func findAnswerMsg(t *testing.T, msg tea.Msg) answerMsg {
	t.Helper()
	switch v := msg.(type) {
	case answerMsg:
		return v
	case tea.BatchMsg:
		for _, c := range v {
			if am, ok := c().(answerMsg); ok {
				return am
			}
		}
	}
	t.Fatalf("no answerMsg in %T", msg)
	return answerMsg{}
}
