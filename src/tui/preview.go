// Package tui renders a terminal preview of what the display device shows.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"buildbeacon-agent/src/contracts"
)

var errNoSource = errors.New("no snapshot source configured")

// FetchFunc builds a fresh snapshot.
type FetchFunc func(ctx context.Context) (*contracts.StateSnapshot, error)

// Options configures a PreviewModel. Exactly one of Fetch or Stream is used;
// Stream wins when both are set.
type Options struct {
	Context  context.Context
	Project  string
	Source   string
	Interval time.Duration
	Fetch    FetchFunc
	Stream   <-chan *contracts.StateSnapshot
}

// SnapshotMsg delivers a new snapshot.
type SnapshotMsg struct {
	Snapshot *contracts.StateSnapshot
	At       time.Time
}

// FetchErrMsg reports a failed refresh. The previous snapshot stays on screen.
type FetchErrMsg struct {
	Err error
}

type refreshTickMsg struct {
	gen int
}

type streamClosedMsg struct{}

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Refresh, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeys() keyMap {
	return keyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// PreviewModel is the Bubble Tea model of the preview screen.
type PreviewModel struct {
	opts     Options
	header   Header
	styles   *StyleConfig
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	snapshot *contracts.StateSnapshot
	err      error
	loading  bool
	closed   bool
	gen      int
	width    int
}

// NewPreviewModel creates the preview model.
func NewPreviewModel(opts Options) PreviewModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}

	styles := DefaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.Busy)

	keys := defaultKeys()
	if opts.Stream != nil {
		keys.Refresh.SetEnabled(false)
	}

	return PreviewModel{
		opts:    opts,
		header:  NewHeaderWithStyles(opts.Project, opts.Source, styles),
		styles:  styles,
		keys:    keys,
		help:    help.New(),
		spinner: sp,
		loading: true,
	}
}

// Init starts the spinner and the first fetch (or stream wait).
func (m PreviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m PreviewModel) next() tea.Cmd {
	if m.opts.Stream != nil {
		return waitForSnapshot(m.opts.Stream)
	}
	return fetchSnapshot(m.opts.Context, m.opts.Fetch)
}

func fetchSnapshot(ctx context.Context, fetch FetchFunc) tea.Cmd {
	return func() tea.Msg {
		if fetch == nil {
			return FetchErrMsg{Err: errNoSource}
		}
		snap, err := fetch(ctx)
		if err != nil {
			return FetchErrMsg{Err: err}
		}
		return SnapshotMsg{Snapshot: snap, At: time.Now()}
	}
}

func waitForSnapshot(stream <-chan *contracts.StateSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-stream
		if !ok {
			return streamClosedMsg{}
		}
		return SnapshotMsg{Snapshot: snap, At: time.Now()}
	}
}

func (m PreviewModel) scheduleRefresh() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// Update handles messages and updates the model state.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.gen++
			return m, tea.Batch(m.spinner.Tick, m.next())
		}

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.header.SetLastUpdate(msg.At)
		m.err = nil
		m.loading = m.opts.Stream != nil
		if m.opts.Stream != nil {
			return m, m.next()
		}
		m.gen++
		return m, m.scheduleRefresh()

	case FetchErrMsg:
		m.err = msg.Err
		m.loading = false
		m.gen++
		return m, m.scheduleRefresh()

	case refreshTickMsg:
		if msg.gen != m.gen || m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.next())

	case streamClosedMsg:
		m.closed = true
		m.loading = false

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Snapshot returns the snapshot currently shown.
func (m PreviewModel) Snapshot() *contracts.StateSnapshot {
	return m.snapshot
}

// View renders the preview.
func (m PreviewModel) View() string {
	sections := []string{m.header.Render(m.width)}

	if m.snapshot == nil && m.err == nil {
		sections = append(sections, m.styles.HelpStyle().Render(m.spinner.View()+" waiting for snapshot..."))
	} else {
		sections = append(sections, RenderSnapshot(m.snapshot, m.styles, m.width))
	}

	switch {
	case m.err != nil:
		sections = append(sections, m.styles.ErrorStyle().Render("last refresh failed: "+m.err.Error()))
	case m.closed:
		sections = append(sections, m.styles.ErrorStyle().Render("snapshot stream closed"))
	case m.loading && m.snapshot != nil && m.opts.Stream == nil:
		sections = append(sections, m.styles.HelpStyle().Render(m.spinner.View()+" refreshing"))
	}

	sections = append(sections, m.styles.HelpStyle().Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
