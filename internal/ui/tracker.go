package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

// TrackerBackend is the part of habit.Store the tracker drives.
type TrackerBackend interface {
	List(ctx context.Context, today models.Date) (*habit.Listing, error)
	Toggle(ctx context.Context, position int, date models.Date) (*habit.ToggleResult, error)
	DeleteID(ctx context.Context, id string) (*habit.DeleteResult, error)
}

// ReloadMsg asks the tracker to re-read the collection.
type ReloadMsg struct{}

type listingMsg struct {
	listing *habit.Listing
	err     error
}

type toggledMsg struct {
	res *habit.ToggleResult
	err error
}

type deletedMsg struct {
	res *habit.DeleteResult
	err error
}

type trackerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k trackerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Delete, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k trackerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newTrackerKeyMap() trackerKeyMap {
	return trackerKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle today")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// TrackerModel is the bubbletea model behind `habit track`.
type TrackerModel struct {
	ctx     context.Context
	backend TrackerBackend
	theme   *Theme
	keys    trackerKeyMap
	help    help.Model
	bar     progress.Model

	listing *habit.Listing
	cursor  int
	status  string
	err     error
	// pendingID is the habit armed by the first d press. Deletion is by
	// id so a reload that shifts positions cannot redirect it.
	pendingID string
	quitting  bool
}

// NewTrackerModel creates the tracker model. Nothing is loaded until Init.
func NewTrackerModel(ctx context.Context, backend TrackerBackend, theme *Theme) TrackerModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	return TrackerModel{
		ctx:     ctx,
		backend: backend,
		theme:   theme,
		keys:    newTrackerKeyMap(),
		help:    help.New(),
		bar:     bar,
	}
}

// Err returns the storage error that ended the session, if any.
func (m TrackerModel) Err() error {
	return m.err
}

// Init loads the collection.
func (m TrackerModel) Init() tea.Cmd {
	return m.load()
}

func (m TrackerModel) load() tea.Cmd {
	return func() tea.Msg {
		l, err := m.backend.List(m.ctx, models.Date{})
		return listingMsg{listing: l, err: err}
	}
}

func (m TrackerModel) toggle(pos int) tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.Toggle(m.ctx, pos, models.Date{})
		return toggledMsg{res: res, err: err}
	}
}

func (m TrackerModel) remove(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.DeleteID(m.ctx, id)
		return deletedMsg{res: res, err: err}
	}
}

// Update handles key presses and backend results.
func (m TrackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listingMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.listing = msg.listing
		m.cursor = min(m.cursor, max(len(m.listing.Habits)-1, 0))
		if m.pendingID != "" && m.currentID() != m.pendingID {
			m.pendingID = ""
			m.status = ""
		}
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		if m.listing != nil {
			m.status = m.theme.ToggleMessage(msg.res, m.listing.Today)
		}
		return m, m.load()

	case deletedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		if msg.res.Removed {
			m.status = m.theme.Warn().Render(msg.res.Message())
		} else {
			m.status = m.theme.Muted().Render("Nothing deleted: the habit was already gone.")
		}
		return m, m.load()

	case ReloadMsg:
		return m, m.load()

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-20, 60), 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TrackerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	confirming := m.pendingID
	m.pendingID = ""
	if confirming != "" {
		m.status = ""
	}
	if m.listing == nil || len(m.listing.Habits) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.listing.Habits)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggle(m.cursor)
	case key.Matches(msg, m.keys.Delete):
		h := m.listing.Habits[m.cursor]
		if confirming != "" && confirming == h.ID {
			return m, m.remove(h.ID)
		}
		m.pendingID = h.ID
		m.status = m.theme.Error().Render(fmt.Sprintf("Press d again to delete '%s'.", h.Name))
	default:
		m.status = ""
	}
	return m, nil
}

// currentID returns the id of the habit under the cursor, or "".
func (m TrackerModel) currentID() string {
	if m.listing == nil || !m.listing.Habits.InRange(m.cursor) {
		return ""
	}
	return m.listing.Habits[m.cursor].ID
}

func (m TrackerModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true
	return m, tea.Quit
}

// View renders the list, today's progress bar, the last status and key help.
func (m TrackerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.listing == nil {
		return m.theme.Muted().Render("Loading habits…") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.Primary().Render("Habits · "+m.listing.Today.String()) + "\n\n")

	if len(m.listing.Habits) == 0 {
		b.WriteString(m.theme.Muted().Render("No habits yet. Add one with: habit add NAME") + "\n")
	}
	for i, h := range m.listing.Habits {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.Primary().Render("> ")
		}
		mark := m.theme.Muted().Render(markPending)
		if h.CompletedOn(m.listing.Today) {
			mark = m.theme.Success().Render(markDone)
		}
		fmt.Fprintf(&b, "%s%2d. %s %s\n", cursor, i+1, mark, h.Name)
	}

	total := len(m.listing.Habits)
	done := m.listing.DoneCount()
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	fmt.Fprintf(&b, "\n%s %d/%d done today\n", m.progressBar(pct), done, total)

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m TrackerModel) progressBar(pct float64) string {
	if !m.theme.NoColor {
		return m.bar.ViewAs(pct)
	}
	filled := int(pct*float64(m.bar.Width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", m.bar.Width-filled) + "]"
}

// TrackerOptions configures RunTracker.
type TrackerOptions struct {
	// DataPath enables reloading when the file changes on disk.
	DataPath string
	Logger   *slog.Logger
	Input    io.Reader
	Output   io.Writer
	// AltScreen runs the tracker full-window.
	AltScreen bool
}

// RunTracker runs the tracker until the user quits, ctx ends or a
// storage error occurs. Storage errors are returned.
func RunTracker(ctx context.Context, backend TrackerBackend, theme *Theme, opts TrackerOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(NewTrackerModel(ctx, backend, theme), progOpts...)

	if opts.DataPath != "" {
		w, err := NewDataWatcher(opts.DataPath, func() { p.Send(ReloadMsg{}) }, WithWatcherLogger(logger))
		if err != nil {
			logger.Warn("data file watcher unavailable", "error", err)
		} else {
			defer w.Stop()
			if err := w.Start(ctx); err != nil {
				logger.Warn("data file watcher unavailable", "error", err)
			}
		}
	}

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run tracker: %w", err)
	}
	if fm, ok := final.(TrackerModel); ok {
		return fm.Err()
	}
	return nil
}
