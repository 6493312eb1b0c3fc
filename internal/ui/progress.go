package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/tasks"
)

const maxProgressLines = 8

// BuildFunc runs a graph build, reporting progress on the given channel.
type BuildFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.BuildResult, error)

// ProgressModel shows a spinner and the recent progress messages of a running build.
type ProgressModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	title   string
	run     BuildFunc
	spinner spinner.Model
	keys    keyMap

	progressChan chan tasks.ProgressUpdate
	doneChan     chan buildOutcome
	current      tasks.ProgressUpdate
	lines        []string

	result   *tasks.BuildResult
	err      error
	finished bool
}

// NewProgressModel creates a model that starts run when the program initializes.
func NewProgressModel(ctx context.Context, title string, run BuildFunc) *ProgressModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	return &ProgressModel{
		ctx:     ctx,
		cancel:  cancel,
		title:   title,
		run:     run,
		spinner: s,
		keys:    newKeyMap(),
	}
}

// Result returns the build outcome once the model has finished.
func (m *ProgressModel) Result() (*tasks.BuildResult, error) {
	if !m.finished {
		return nil, shared.ErrCancelled
	}
	return m.result, m.err
}

func (m *ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// start runs the build in a goroutine. The outcome is buffered before the progress channel closes.
func (m *ProgressModel) start() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan buildOutcome, 1)

	go func() {
		result, err := m.run(m.ctx, m.progressChan)
		m.doneChan <- buildOutcome{result: result, err: err}
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *ProgressModel) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			outcome := <-done
			return buildCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

// Update handles incoming messages and updates the model state.
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.cancel) {
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			update := msg.data.(tasks.ProgressUpdate)
			m.current = update
			m.lines = append(m.lines, update.Message)
			if len(m.lines) > maxProgressLines {
				m.lines = m.lines[len(m.lines)-maxProgressLines:]
			}
			return m, m.waitForProgress()

		case MsgBuildComplete:
			outcome := msg.data.(buildOutcome)
			m.result, m.err = outcome.result, outcome.err
			m.finished = true
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the spinner, the current phase, and the latest messages.
func (m *ProgressModel) View() string {
	if m.finished {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("✗ %s failed: %v", m.title, m.err)) + "\n"
		}
		return styles.ok.Render(m.summary()) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), styles.title.UnsetMarginBottom().Render(m.title))
	if m.current.Total > 0 {
		fmt.Fprintf(&b, "%s (%d/%d)\n", phaseLabel(m.current.Phase), m.current.Step, m.current.Total)
	}
	for _, line := range m.lines {
		b.WriteString(styles.help.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(m.keysHelp())
	return b.String()
}

func (m *ProgressModel) keysHelp() string {
	return "\n" + styles.help.Render("ctrl+c cancel")
}

func (m *ProgressModel) summary() string {
	if m.result == nil || m.result.Graph == nil {
		return "✓ " + m.title
	}
	return fmt.Sprintf("✓ %s: %d songs, %d artists, %d links",
		m.title, m.result.Songs, len(m.result.Graph.Nodes), len(m.result.Graph.Links))
}

func phaseLabel(p tasks.Phase) string {
	switch p {
	case tasks.BuildGraph:
		return "Building graph"
	case tasks.ResolveGenres:
		return "Resolving genres"
	case tasks.EnrichGenres:
		return "Looking up genres on Last.fm"
	case tasks.FinishGraph:
		return "Finishing graph"
	default:
		return "Processing"
	}
}

// RunProgress runs build under a spinner until it completes or the user cancels.
func RunProgress(ctx context.Context, title string, build BuildFunc, opts ...tea.ProgramOption) (*tasks.BuildResult, error) {
	model := NewProgressModel(ctx, title, build)
	defer model.cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}
	return model.Result()
}
