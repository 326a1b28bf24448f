package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/core/domain"
)

type mockRetrieval struct {
	result *domain.RetrievalResult
	err    error
	gotK   int
	calls  int
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, k int) (*domain.RetrievalResult, error) {
	m.calls++
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.RetrievalResult{Query: query}, nil
}

type mockDocuments struct {
	contents map[domain.DocumentID]string
}

func (m *mockDocuments) Count(context.Context) (int, error) { return len(m.contents), nil }

func (m *mockDocuments) List(context.Context) ([]domain.Document, error) { return nil, nil }

func (m *mockDocuments) Each(context.Context, func(domain.Document) error) error { return nil }

func (m *mockDocuments) GetContent(_ context.Context, id domain.DocumentID) (string, error) {
	if c, ok := m.contents[id]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: document %d", domain.ErrNotFound, id)
}

func catsResult() *domain.RetrievalResult {
	return &domain.RetrievalResult{
		Query:   "what are cats?",
		Answer:  "Cats are mammals.",
		Matches: []domain.Match{{ID: 1, Score: 0.994}, {ID: 2, Score: 0.12}},
	}
}

func catsDocuments() *mockDocuments {
	return &mockDocuments{contents: map[domain.DocumentID]string{
		1: "Some animals purr. Cats are mammals. Fish swim.",
	}}
}

func newReadyView(retrieval *mockRetrieval, docs *mockDocuments) *View {
	var v *View
	if docs == nil {
		v = NewView(nil, nil, retrieval, nil)
	} else {
		v = NewView(nil, nil, retrieval, docs)
	}
	v.SetDimensions(100, 40)
	return v
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.False(t, v.Ready())
	assert.True(t, v.InputFocused())
	assert.NotNil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_WithContext(t *testing.T) {
	v := NewView(nil, nil, nil, nil)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 116, v.answer.Width)
	assert.Equal(t, (40-chromeLines)/2, v.answer.Height)
}

func TestView_AskRunsRetrievalWithDefaultK(t *testing.T) {
	retrieval := &mockRetrieval{result: catsResult()}
	v := newReadyView(retrieval, catsDocuments())
	typeText(v, "what are cats?")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateThinking, v.statusbar.State())

	msg := cmd()
	completed, ok := msg.(messages.RetrievalCompleted)
	require.True(t, ok)
	assert.Equal(t, 0, retrieval.gotK)
	assert.Equal(t, "what are cats?", completed.Query)
	assert.Equal(t, map[domain.DocumentID]string{1: "Some animals purr. Cats are mammals. Fish swim."}, completed.Previews)

	v.Update(completed)

	assert.Equal(t, catsResult(), v.Result())
	assert.Len(t, v.Matches(), 2)
	assert.Equal(t, status.StateAnswered, v.statusbar.State())
	view := v.View()
	assert.Contains(t, view, "Cats are mammals.")
	assert.Contains(t, view, "0.994")
	assert.Contains(t, view, "(content unavailable)")
}

func TestView_EmptyQueryDoesNothing(t *testing.T) {
	retrieval := &mockRetrieval{}
	v := newReadyView(retrieval, nil)
	typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, retrieval.calls)
}

func TestView_NoRetrievalService(t *testing.T) {
	v := NewView(nil, nil, nil, nil)
	v.SetDimensions(80, 24)
	typeText(v, "anything")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	v.Update(cmd())

	assert.ErrorIs(t, v.Err(), ErrNoRetrievalService)
	assert.Equal(t, status.StateError, v.statusbar.State())
}

func TestView_RetrievalErrorShowsStage(t *testing.T) {
	stageErr := &domain.StageError{Stage: domain.StageEmbedding, Err: domain.ErrProvider}
	v := newReadyView(&mockRetrieval{err: stageErr}, nil)
	typeText(v, "cats")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.True(t, errors.Is(v.Err(), domain.ErrProvider))
	assert.Contains(t, v.View(), "embedding:")
	assert.Nil(t, v.Result())
}

func TestView_FocusToggle(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, nil)

	// Nothing to browse yet.
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.InputFocused())

	v.Update(messages.RetrievalCompleted{Result: catsResult()})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, v.InputFocused())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.SelectedIndex())
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, v.InputFocused())
}

func TestView_OpenDocument(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, catsDocuments())
	v.Update(messages.RetrievalCompleted{Result: catsResult()})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.DocumentLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)

	v.Update(loaded)

	require.NotNil(t, v.Reading())
	assert.Equal(t, domain.DocumentID(1), *v.Reading())
	assert.Equal(t, status.StateReading, v.statusbar.State())
	assert.Contains(t, v.View(), "Document 1")
	assert.Contains(t, v.View(), "Fish swim.")

	// Esc returns to the answer first, then to the input.
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, v.Reading())
	assert.False(t, v.InputFocused())
	assert.Contains(t, v.View(), "Cats are mammals.")
}

func TestView_OpenMissingDocument(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, catsDocuments())
	v.Update(messages.RetrievalCompleted{Result: catsResult()})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(cmd())

	assert.True(t, domain.IsNotFound(v.Err()))
	assert.Nil(t, v.Reading())
}

func TestView_OpenWithoutDocumentService(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, nil)
	v.Update(messages.RetrievalCompleted{Result: catsResult()})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, nil)

	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
	assert.Equal(t, "boom", v.statusbar.Message())
}

func TestView_SuccessClearsError(t *testing.T) {
	v := newReadyView(&mockRetrieval{}, nil)
	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	v.Update(messages.RetrievalCompleted{Result: catsResult()})

	assert.NoError(t, v.Err())
}
