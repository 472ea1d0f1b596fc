package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

const (
	tickInterval         = time.Second
	defaultFeedbackDelay = 3 * time.Second
	maxToasts            = 3
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	IntroView ViewState = iota
	CountdownView
	FeedbackView
	CelebrationView
	RestDayView
	EmptyView
	TaskListView
)

// Options configures the TUI.
type Options struct {
	ConfigPath    string               // Watched for changes when set
	OnReload      func(*shared.Config) // Called after a successful reload
	FeedbackDelay time.Duration        // How long the feedback panel stays up
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	session     *game.Session
	opts        Options
	view        ViewState
	prevView    ViewState
	width       int
	height      int
	ticking     bool
	result      *game.CompletionResult
	feedbackSeq int
	toasts      []string
	notice      string
	progress    progress.Model
	taskList    list.Model
	reloads     chan *shared.Config
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model over session.
func NewModel(ctx context.Context, session *game.Session, opts Options) *Model {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = defaultFeedbackDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:      ctx,
		session:  session,
		opts:     opts,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	if opts.ConfigPath != "" {
		m.reloads = make(chan *shared.Config, 1)
	}

	if session.NeedsIntro() {
		m.view = IntroView
	} else {
		m.view = m.viewForMode()
	}
	return m
}

// State returns the current view state.
func (m *Model) State() ViewState { return m.view }

func (m *Model) viewForMode() ViewState {
	switch m.session.Mode() {
	case game.ModeRestDay:
		return RestDayView
	case game.ModeEmpty:
		return EmptyView
	case game.ModeComplete:
		return CelebrationView
	default:
		return CountdownView
	}
}

// Init starts the tick and the event listeners. The tick runs for the life
// of the program so idle views notice when a new day begins.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent(), m.startTick()}
	if m.reloads != nil {
		cmds = append(cmds, m.waitForReload())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-10, 10), 60)
		if m.view == TaskListView {
			m.taskList.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !(m.view == TaskListView && m.taskList.FilterState() == list.Filtering) {
			return m, tea.Quit
		}
		switch m.view {
		case IntroView:
			return m.handleIntroKeys(msg)
		case CountdownView:
			return m.handleCountdownKeys(msg)
		case FeedbackView:
			return m.handleFeedbackKeys(msg)
		case CelebrationView:
			return m.handleCelebrationKeys(msg)
		case RestDayView, EmptyView:
			if key.Matches(msg, m.keys.tasks) {
				return m.openTaskList()
			}
		case TaskListView:
			return m.handleTaskListKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == TaskListView {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTick:
		switch m.view {
		case CountdownView, CelebrationView, RestDayView:
			next := m.viewForMode()
			if next == m.view {
				break
			}
			if next == CountdownView {
				m.result = nil
				m.toasts = nil
				m.notice = ""
			}
			m.view = next
		}
		return m, m.tick()

	case MsgSessionEvent:
		ev, _ := msg.data.(game.Event)
		if ev.Kind == game.AchievementUnlocked {
			m.toasts = append(m.toasts, "🏆 Achievement unlocked: "+ev.Message)
			if len(m.toasts) > maxToasts {
				m.toasts = m.toasts[len(m.toasts)-maxToasts:]
			}
		}
		return m, m.waitForEvent()

	case MsgFeedbackExpired:
		if seq, _ := msg.data.(int); seq == m.feedbackSeq && m.view == FeedbackView {
			return m.afterFeedback()
		}
		return m, nil

	case MsgConfigReloaded:
		cfg, _ := msg.data.(*shared.Config)
		if cfg == nil {
			return m, m.waitForReload()
		}
		m.session.SetRoutine(cfg.Routine)
		if m.opts.OnReload != nil {
			m.opts.OnReload(cfg)
		}
		m.notice = "Settings reloaded"

		cmds := []tea.Cmd{m.waitForReload()}
		switch m.view {
		case CountdownView, RestDayView, EmptyView:
			m.view = m.viewForMode()
			if m.view == CountdownView {
				cmds = append(cmds, m.startTick())
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *Model) handleIntroKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.dismiss) {
		return m, nil
	}
	m.session.DismissIntro()
	m.view = m.viewForMode()
	if m.view == CountdownView {
		return m, m.startTick()
	}
	return m, nil
}

func (m *Model) handleCountdownKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.complete):
		return m.complete()
	case key.Matches(msg, m.keys.tasks):
		return m.openTaskList()
	case key.Matches(msg, m.keys.sound):
		m.cycleSoundPack()
	case key.Matches(msg, m.keys.reset):
		m.session.ResetToday()
		m.result = nil
		m.toasts = nil
		m.notice = "Today's progress cleared"
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleFeedbackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.dismiss) {
		return m.afterFeedback()
	}
	return m, nil
}

func (m *Model) handleCelebrationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.restart):
		m.session.Restart()
		m.result = nil
		m.toasts = nil
		m.view = m.viewForMode()
		return m, m.startTick()
	case key.Matches(msg, m.keys.tasks):
		return m.openTaskList()
	}
	return m, nil
}

func (m *Model) handleTaskListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskList.FilterState() != list.Filtering && key.Matches(msg, m.keys.back) {
		m.view = m.prevView
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) openTaskList() (tea.Model, tea.Cmd) {
	items := taskItems(m.session.Tasks(), m.session.TaskStatuses(), m.session.Index(), m.session.Mode() == game.ModeComplete)
	m.taskList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.taskList.Title = "Today's Routine"
	m.taskList.SetSize(max(m.width-4, 20), max(m.height-6, 10))
	m.prevView = m.view
	m.view = TaskListView
	return m, nil
}

func (m *Model) complete() (tea.Model, tea.Cmd) {
	res, err := m.session.Complete()
	if err != nil {
		m.notice = err.Error()
		if !errors.Is(err, shared.ErrNothingToDo) && !errors.Is(err, shared.ErrRoutineRestDay) && !errors.Is(err, shared.ErrRoutineComplete) {
			m.opts.Logger.Error("completion failed", "error", err)
		}
		m.view = m.viewForMode()
		return m, nil
	}

	m.result = res
	m.notice = ""
	m.view = FeedbackView
	m.feedbackSeq++
	seq := m.feedbackSeq
	return m, tea.Tick(m.opts.FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackExpiredMsg(seq)
	})
}

func (m *Model) afterFeedback() (tea.Model, tea.Cmd) {
	if m.result != nil && m.result.AllComplete {
		m.view = CelebrationView
		return m, nil
	}
	m.view = m.viewForMode()
	if m.view == CountdownView {
		return m, m.startTick()
	}
	return m, nil
}

func (m *Model) cycleSoundPack() {
	packs := models.SoundPacks
	i := slices.Index(packs, m.session.SoundPack())
	next := packs[(i+1)%len(packs)]
	if err := m.session.SetSoundPack(next); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = "Sound pack: " + string(next)
}

// startTick starts the one-second tick unless it is already running.
func (m *Model) startTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.session.Events()
	return func() tea.Msg {
		select {
		case ev := <-events:
			return sessionEventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg := <-m.reloads:
			return configReloadedMsg(cfg)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case IntroView:
		body = m.renderIntro()
	case CountdownView:
		body = m.renderCountdown()
	case FeedbackView:
		body = m.renderFeedback()
	case CelebrationView:
		body = m.renderCelebration()
	case RestDayView:
		body = m.renderRestDay()
	case EmptyView:
		body = m.renderEmpty()
	case TaskListView:
		return m.renderTaskList()
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m *Model) header() string {
	return styles.title.Render(fmt.Sprintf("☀️  Morning Charge · %s", shared.DateString(m.session.Now())))
}

func (m *Model) renderIntro() string {
	lines := []string{
		m.header(),
		"Beat the clock every morning!",
		"",
		"Each task has a start time and a deadline. Press space when you finish it.",
		"",
		styles.As("⚡ Early", lipgloss.Color("#06D6A0")) + "   finished before the deadline",
		styles.As("👍 On time", lipgloss.Color("#4ECDC4")) + " finished right at the deadline",
		styles.As("⏰ Late", lipgloss.Color("#FFD166")) + "    finished after the deadline",
		styles.As("🚨 Very late", lipgloss.Color("#FF6B6B")) + " the next task should already have started",
		"",
		"Finish everything on consecutive days to build a streak and unlock achievements.",
		"",
		m.help.ShortHelpView([]key.Binding{m.keys.dismiss, m.keys.quit}),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCountdown() string {
	task, ok := m.session.Current()
	if !ok {
		return m.renderEmpty()
	}

	total := m.session.Total()
	done := m.session.Completed()
	bar := m.progress.ViewAs(float64(done) / float64(max(total, 1)))

	var b strings.Builder
	b.WriteString(m.header() + "\n")
	b.WriteString(fmt.Sprintf("%s %d/%d\n\n", bar, done, total))
	b.WriteString(styles.big.Render(fmt.Sprintf("%s  %s", task.Icon, task.Name)) + "\n")
	b.WriteString(styles.help.Render(fmt.Sprintf("%s - %s", task.StartTime, task.DeadlineTime)) + "\n\n")

	if c, ok := m.session.Countdown(); ok {
		b.WriteString(styles.urgency(c.Urgency).Render(c.Text()) + "\n")
	}
	b.WriteString(m.session.Status().Message() + "\n")

	if next := m.session.Next(); next != nil {
		b.WriteString(styles.help.Render(fmt.Sprintf("Next: %s %s at %s", next.Icon, next.Name, next.StartTime)) + "\n")
	}

	b.WriteString(m.renderToasts())
	if m.notice != "" {
		b.WriteString("\n" + styles.warn.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, t := range m.toasts {
		b.WriteString(styles.ok.Render(t) + "\n")
	}
	return b.String()
}

func (m *Model) renderFeedback() string {
	if m.result == nil {
		return m.renderCountdown()
	}
	fb := m.result.Feedback

	content := []string{
		styles.As(fmt.Sprintf("%s %s", fb.Icon, fb.Title), lipgloss.Color(fb.Color)),
		"",
		fb.Message,
	}
	if fb.NextTaskMessage != "" {
		content = append(content, "", fb.NextTaskMessage)
	}
	for _, a := range m.result.Unlocked {
		content = append(content, "", styles.ok.Render(fmt.Sprintf("%s %s unlocked!", a.Icon, a.Title)))
	}

	return strings.Join([]string{
		m.header(),
		styles.panel.BorderForeground(lipgloss.Color(fb.Color)).Render(strings.Join(content, "\n")),
		"",
		m.help.ShortHelpView([]key.Binding{m.keys.dismiss, m.keys.quit}),
	}, "\n")
}

func (m *Model) renderCelebration() string {
	var b strings.Builder
	b.WriteString(m.header() + "\n")
	b.WriteString(styles.ok.Render("🎉 All tasks complete! 🎉") + "\n\n")

	if m.result != nil {
		b.WriteString(m.result.Celebration + "\n")
		for _, medal := range m.result.Medals {
			b.WriteString("\n" + styles.panel.Render(fmt.Sprintf("🏅 %s\n%s", medal.Title, medal.Description)) + "\n")
		}
	}

	stats := m.session.Stats()
	b.WriteString(fmt.Sprintf("\nEarly today: %d/%d\n", stats.Session.EarlyCompletions, stats.Session.TotalTasks))
	b.WriteString(fmt.Sprintf("Streak: %d days\n", stats.Game.StreakDays))
	unlocked, total := m.session.AchievementProgress()
	b.WriteString(fmt.Sprintf("Achievements: %d/%d\n", unlocked, total))

	b.WriteString(m.renderToasts())
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.tasks, m.keys.quit}))
	return b.String()
}

func (m *Model) renderRestDay() string {
	return strings.Join([]string{
		m.header(),
		styles.ok.Render("🌴 Rest day!"),
		"No routine today. Enjoy your morning!",
		"",
		m.help.ShortHelpView([]key.Binding{m.keys.tasks, m.keys.quit}),
	}, "\n")
}

func (m *Model) renderEmpty() string {
	return strings.Join([]string{
		m.header(),
		styles.warn.Render("Nothing to do."),
		"Add tasks with `charge tasks add` and come back.",
		"",
		m.help.ShortHelpView([]key.Binding{m.keys.quit}),
	}, "\n")
}

func (m *Model) renderTaskList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.taskList.View(), helpView)
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
//
// When opts.ConfigPath is set the file is watched and routine settings are
// reapplied on change.
func Run(ctx context.Context, session *game.Session, opts Options) error {
	_, err := run(ctx, session, opts, tea.WithAltScreen())
	return err
}

// run owns a child context so the watcher and event listeners stop when the
// program quits, not only when the caller cancels.
func run(ctx context.Context, session *game.Session, opts Options, progOpts ...tea.ProgramOption) (*Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, session, opts)
	logger := m.opts.Logger

	if opts.ConfigPath != "" {
		watcher, err := shared.NewFileWatcher(opts.ConfigPath, 0, func(path string) {
			cfg, err := shared.LoadConfig(path)
			if err != nil {
				logger.Warn("config reload failed", "path", path, "error", err)
				return
			}
			shared.ApplyEnv(cfg)
			select {
			case m.reloads <- cfg:
			default:
			}
		})
		if err != nil {
			logger.Warn("config watch disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("config watcher stopped", "error", err)
				}
			}()
		}
	}

	p := tea.NewProgram(m, append(progOpts, tea.WithContext(ctx))...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return m, fmt.Errorf("tui failed: %w", err)
	}
	return m, nil
}
