// Package search provides the question screen of the TUI: a question input,
// an answer pane and the ranked matches the answer was built from.
package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// chromeLines is the height taken by everything except the answer pane and
// the match list: header, input box, pane border, status bar and spacing.
const chromeLines = 11

// View is the question screen.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	answer    viewport.Model
	list      *list.MatchList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	documents driving.DocumentService
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
	result     *domain.RetrievalResult
	reading    *domain.DocumentID
}

// NewView creates the question screen. documents may be nil, in which case
// match previews and document reading are unavailable.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	documents driving.DocumentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		answer:     viewport.New(76, 8),
		list:       list.NewMatchList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		documents:  documents,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.answer.SetContent(s.Muted.Render("Answers appear here."))
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the question screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RetrievalCompleted:
		v.handleRetrievalCompleted(msg)
		return v, nil

	case messages.DocumentLoaded:
		v.handleDocumentLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Focus):
		return v, v.toggleFocus()

	case keymap.Matches(keyStr, v.keymap.PageUp), keymap.Matches(keyStr, v.keymap.PageDown):
		var cmd tea.Cmd
		v.answer, cmd = v.answer.Update(msg)
		return v, cmd
	}

	if v.focusInput {
		if keymap.Matches(keyStr, v.keymap.Ask) {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			v.err = nil
			v.statusbar.SetState(status.StateThinking)
			return v, v.ask(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(keyStr, v.keymap.Open):
		if m := v.list.SelectedMatch(); m != nil && v.documents != nil {
			return v, v.open(m.ID)
		}
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.reading != nil {
			v.showAnswer()
			return v, nil
		}
		return v, v.toggleFocus()
	}
	return v, nil
}

func (v *View) toggleFocus() tea.Cmd {
	if v.focusInput {
		if v.list.IsEmpty() {
			return nil
		}
		v.focusInput = false
		v.input.Blur()
		v.statusbar.SetBrowsing(true)
		return nil
	}
	v.focusInput = true
	v.statusbar.SetBrowsing(false)
	return v.input.Focus()
}

// ask runs the retrieval pipeline and loads a preview of every match.
func (v *View) ask(query string) tea.Cmd {
	ctx, retrieval, documents := v.ctx, v.retrieval, v.documents
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}

		result, err := retrieval.Retrieve(ctx, query, 0)
		if err != nil {
			return messages.RetrievalCompleted{Query: query, Err: err}
		}

		previews := make(map[domain.DocumentID]string, len(result.Matches))
		if documents != nil {
			for _, m := range result.Matches {
				if content, err := documents.GetContent(ctx, m.ID); err == nil {
					previews[m.ID] = content
				}
			}
		}
		return messages.RetrievalCompleted{Query: query, Result: result, Previews: previews}
	}
}

func (v *View) open(id domain.DocumentID) tea.Cmd {
	ctx, documents := v.ctx, v.documents
	return func() tea.Msg {
		content, err := documents.GetContent(ctx, id)
		return messages.DocumentLoaded{ID: id, Content: content, Err: err}
	}
}

func (v *View) handleRetrievalCompleted(msg messages.RetrievalCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.result = msg.Result
	v.list.SetMatches(msg.Result.Matches, msg.Previews)
	v.statusbar.SetMatchCount(len(msg.Result.Matches))
	v.showAnswer()
}

func (v *View) handleDocumentLoaded(msg messages.DocumentLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	id := msg.ID
	v.reading = &id
	query := ""
	if v.result != nil {
		query = v.result.Query
	}
	body := highlightBestSentence(msg.Content, query, v.styles.Highlight)
	v.answer.SetContent(v.wrap(body))
	v.answer.GotoTop()
	v.statusbar.SetState(status.StateReading)
	v.statusbar.SetMessage(fmt.Sprintf("document %d", id))
}

// showAnswer puts the current answer back in the pane.
func (v *View) showAnswer() {
	v.reading = nil
	if v.result == nil {
		return
	}
	answer := v.result.Answer
	if answer == "" {
		answer = v.styles.Muted.Render("(empty answer)")
	}
	v.answer.SetContent(v.wrap(answer))
	v.answer.GotoTop()
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetMessage("")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) wrap(s string) string {
	return lipgloss.NewStyle().Width(v.answer.Width).Render(s)
}

// View renders the question screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	paneTitle := "Answer"
	if v.reading != nil {
		paneTitle = fmt.Sprintf("Document %d", *v.reading)
	}

	sections := []string{
		v.styles.Title.Render("Recall"),
		v.input.View(),
		v.styles.Subtitle.Render(paneTitle),
		v.styles.Pane.Render(v.answer.View()),
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render(v.err.Error()))
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions splits the screen between the answer pane and the match list.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	free := max(height-chromeLines, 6)
	paneHeight := free / 2

	v.input.SetWidth(width)
	v.answer.Width = max(width-4, 20)
	v.answer.Height = paneHeight
	v.list.SetDimensions(width, free-paneHeight)
	v.statusbar.SetWidth(width)

	if v.reading == nil && v.err == nil {
		v.showAnswer()
	}
}

// Ready returns whether the view has received its dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the question input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the question input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Result returns the last successful retrieval result.
func (v *View) Result() *domain.RetrievalResult {
	return v.result
}

// Matches returns the matches on screen.
func (v *View) Matches() []domain.Match {
	return v.list.Matches()
}

// SelectedIndex returns the index of the selected match.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Reading returns the document shown in the pane, or nil when the answer is shown.
func (v *View) Reading() *domain.DocumentID {
	return v.reading
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
