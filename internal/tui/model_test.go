package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialsearch/internal/domain"
	"trialsearch/internal/lifecycle"
	"trialsearch/internal/service"
)

// --- Mock searcher ---

type mockSearcher struct {
	records []domain.ResultRecord
	err     error
	calls   []domain.QueryParameters
}

func (s *mockSearcher) Search(ctx context.Context, params domain.QueryParameters) ([]domain.ResultRecord, error) {
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func makeRecords(n int) []domain.ResultRecord {
	out := make([]domain.ResultRecord, n)
	for i := range out {
		out[i] = domain.ResultRecord{Title: fmt.Sprintf("Trial %02d", i), URL: fmt.Sprintf("https://example.org/%d", i)}
	}
	return out
}

func newTestModel(t *testing.T, s domain.Searcher) Model {
	t.Helper()
	session, err := service.NewController(s, 5)
	require.NoError(t, err)
	m := New(session, Options{ResultCount: 5})
	res, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return res.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	res, cmd := m.Update(msg)
	return res.(Model), cmd
}

func typeText(m Model, text string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// pendingSearch runs cmd and returns the searchDoneMsg it produced, running
// the members of a batch when needed.
func pendingSearch(t *testing.T, cmd tea.Cmd) searchDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if done, ok := msg.(searchDoneMsg); ok {
		return done
	}
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok, "expected batch, got %T", msg)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(searchDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no search command in batch")
	return searchDoneMsg{}
}

func submitAndResolve(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeText(m, text)
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	done := pendingSearch(t, cmd)
	m, _ = update(m, done)
	return m
}

func TestInitialView(t *testing.T) {
	m := newTestModel(t, &mockSearcher{})
	view := m.View()
	assert.Contains(t, view, "Find Clinical Trials")
	assert.Contains(t, view, "No results found.")
	assert.Contains(t, view, "AND")
	assert.Equal(t, lifecycle.Idle, m.session.State())
}

func TestEnterWithEmptyQueryDoesNothing(t *testing.T) {
	s := &mockSearcher{}
	m := newTestModel(t, s)
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, lifecycle.Idle, m.session.State())
	assert.Empty(t, s.calls)
}

func TestSubmitClearsInputAndLoads(t *testing.T) {
	s := &mockSearcher{records: makeRecords(3)}
	m := newTestModel(t, s)
	m = typeText(m, "lung cancer")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, lifecycle.Loading, m.session.State())
	assert.Contains(t, m.View(), "Searching...")
	assert.NotContains(t, m.View(), "No results found.")

	m, _ = update(m, pendingSearch(t, cmd))
	assert.Equal(t, lifecycle.Success, m.session.State())
	assert.Equal(t, []domain.QueryParameters{{Text: "lung cancer", ResultCount: 5}}, s.calls)
	assert.Contains(t, m.View(), "Trial 02")
	assert.Contains(t, m.View(), `3 results for "lung cancer"`)
}

func TestSubmitDisabledWhileLoading(t *testing.T) {
	m := newTestModel(t, &mockSearcher{})
	m = typeText(m, "first")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m = typeText(m, "second")
	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "first", m.session.LastQuery())
	assert.Equal(t, "second", m.input.Value())
}

func TestControlsChangeRequest(t *testing.T) {
	s := &mockSearcher{}
	m := newTestModel(t, s)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, 10, m.resultCount)
	assert.True(t, m.exact)
	assert.Contains(t, m.View(), "[x]")

	_ = submitAndResolve(t, m, "q")
	assert.Equal(t, []domain.QueryParameters{{Text: "q", ResultCount: 10, ExactMatch: true}}, s.calls)
}

func TestPaging(t *testing.T) {
	m := newTestModel(t, &mockSearcher{records: makeRecords(12)})
	m = submitAndResolve(t, m, "q")
	assert.True(t, m.session.ShowControls())
	assert.Contains(t, m.View(), "Next")
	assert.Contains(t, m.View(), "Trial 04")
	assert.NotContains(t, m.View(), "Trial 05")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, m.session.Page().CurrentPage)
	assert.Contains(t, m.View(), "Trial 11")
	assert.NotContains(t, m.View(), "Trial 09")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 1, m.session.Page().CurrentPage)
}

func TestPagingHiddenForSinglePage(t *testing.T) {
	m := newTestModel(t, &mockSearcher{records: makeRecords(5)})
	m = submitAndResolve(t, m, "q")
	assert.False(t, m.session.ShowControls())
	assert.NotContains(t, m.View(), "Previous")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 0, m.session.Page().CurrentPage)
}

func TestBackendErrorShown(t *testing.T) {
	m := newTestModel(t, &mockSearcher{err: &domain.BackendError{Status: 400, Message: "bad query"}})
	m = submitAndResolve(t, m, "q")
	assert.Equal(t, lifecycle.Failed, m.session.State())
	assert.Contains(t, m.View(), "Error: bad query")
	assert.Contains(t, m.View(), "No results found.")
	assert.True(t, m.session.CanSubmit("retry"))
}

func TestStaleSearchDoneIgnored(t *testing.T) {
	m := newTestModel(t, &mockSearcher{records: makeRecords(2)})
	m = submitAndResolve(t, m, "q")

	m, _ = update(m, searchDoneMsg{outcome: service.Outcome{Seq: 0, Records: makeRecords(9)}})
	assert.Len(t, m.session.Results(), 2)
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	m := newTestModel(t, &mockSearcher{})
	_, cmd := update(m, m.spinner.Tick())
	assert.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &mockSearcher{})
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewBeforeWindowSize(t *testing.T) {
	session, err := service.NewController(&mockSearcher{}, 5)
	require.NoError(t, err)
	assert.Equal(t, "Loading...", New(session, Options{ResultCount: 7}).View())
	assert.Equal(t, 5, New(session, Options{ResultCount: 7}).resultCount)
}
