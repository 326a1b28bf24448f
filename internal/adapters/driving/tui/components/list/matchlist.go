// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
)

// scoreBarWidth is the number of cells used to draw a score of 1.
const scoreBarWidth = 10

// MatchList displays ranked matches with their similarity scores.
type MatchList struct {
	matches  []domain.Match
	previews map[domain.DocumentID]string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMatchList creates an empty match list.
func NewMatchList(s *styles.Styles) *MatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MatchList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible part of the list.
func (l *MatchList) View() string {
	if len(l.matches) == 0 {
		return l.styles.Muted.Render("No matches")
	}

	lines := make([]string, 0, len(l.matches)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(l.matches))))

	// Each match takes two lines.
	visible := max((l.height-1)/2, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.matches))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderMatch(i))
	}

	return strings.Join(lines, "\n")
}

func (l *MatchList) renderMatch(i int) string {
	m := l.matches[i]

	indicator := "  "
	if i == l.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s%d. document %d", indicator, i+1, m.ID)
	score := fmt.Sprintf("%s %.3f", scoreBar(m.Score), m.Score)

	var headLine string
	if i == l.selected {
		headLine = l.styles.Selected.Render(head) + "  " + l.styles.Score.Render(score)
	} else {
		headLine = l.styles.Normal.Render(head) + "  " + l.styles.Score.Render(score)
	}

	preview, ok := l.previews[m.ID]
	if !ok {
		preview = "(content unavailable)"
	}
	preview = truncate(strings.Join(strings.Fields(preview), " "), max(l.width-6, 20))

	return headLine + "\n" + l.styles.Muted.Render("     "+preview)
}

// scoreBar draws a bar proportional to a cosine score, clamped to [0, 1].
func scoreBar(score float64) string {
	filled := int(score*scoreBarWidth + 0.5)
	filled = max(0, min(filled, scoreBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", scoreBarWidth-filled)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// SetMatches replaces the list contents and resets the selection.
func (l *MatchList) SetMatches(matches []domain.Match, previews map[domain.DocumentID]string) {
	l.matches = matches
	l.previews = previews
	l.selected = 0
}

// Matches returns the current matches.
func (l *MatchList) Matches() []domain.Match {
	return l.matches
}

// Selected returns the index of the selected match.
func (l *MatchList) Selected() int {
	return l.selected
}

// SelectedMatch returns the selected match, or nil if the list is empty.
func (l *MatchList) SelectedMatch() *domain.Match {
	if l.selected < 0 || l.selected >= len(l.matches) {
		return nil
	}
	return &l.matches[l.selected]
}

// MoveUp moves selection up.
func (l *MatchList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *MatchList) MoveDown() {
	if l.selected < len(l.matches)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *MatchList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// IsEmpty returns whether the list is empty.
func (l *MatchList) IsEmpty() bool {
	return len(l.matches) == 0
}
