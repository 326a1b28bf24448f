package list

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func sampleMatches() ([]domain.Match, map[domain.DocumentID]string) {
	return []domain.Match{
			{ID: 7, Score: 0.994},
			{ID: 3, Score: 0.5},
			{ID: 9, Score: -0.2},
		}, map[domain.DocumentID]string{
			7: "cats are mammals",
			3: "dogs\nbark   loudly",
		}
}

func TestNewMatchList(t *testing.T) {
	l := NewMatchList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedMatch())
	assert.Contains(t, l.View(), "No matches")
}

func TestMatchList_SetMatches(t *testing.T) {
	l := NewMatchList(nil)
	l.MoveDown()

	l.SetMatches(sampleMatches())

	assert.Len(t, l.Matches(), 3)
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, domain.DocumentID(7), l.SelectedMatch().ID)
}

func TestMatchList_Navigation(t *testing.T) {
	l := NewMatchList(nil)
	l.SetMatches(sampleMatches())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, domain.DocumentID(9), l.SelectedMatch().ID)

	l.MoveUp()
	assert.Equal(t, 1, l.Selected())
}

func TestMatchList_View(t *testing.T) {
	l := NewMatchList(nil)
	l.SetDimensions(80, 20)
	l.SetMatches(sampleMatches())

	view := l.View()

	assert.Contains(t, view, "Matches (3)")
	assert.Contains(t, view, "1. document 7")
	assert.Contains(t, view, "0.994")
	assert.Contains(t, view, "dogs bark loudly")
	assert.Contains(t, view, "(content unavailable)")
	assert.Contains(t, view, "-0.200")
}

func TestMatchList_ViewScrollsToSelection(t *testing.T) {
	l := NewMatchList(nil)
	l.SetDimensions(80, 3)
	l.SetMatches(sampleMatches())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.Contains(t, view, "3. document 9")
	assert.NotContains(t, view, "1. document 7")
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10), scoreBar(1))
	assert.Equal(t, strings.Repeat("░", 10), scoreBar(-0.5))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), scoreBar(0.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
