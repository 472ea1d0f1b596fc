package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/achievements"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/repositories"
	"github.com/desertthunder/morningcharge/internal/routine"
	"github.com/desertthunder/morningcharge/internal/services"
	"github.com/desertthunder/morningcharge/internal/shared"
)

const eventBuffer = 32

// Mode is what the session shows right now.
type Mode string

const (
	ModeActive   Mode = "active"
	ModeComplete Mode = "complete"
	ModeRestDay  Mode = "rest_day"
	ModeEmpty    Mode = "empty"
)

// Config holds the collaborators of a session.
type Config struct {
	Store   *repositories.Store
	Clock   shared.Clock
	Routine shared.RoutineConfig
	Sound   services.SoundPlayer
	Voice   services.Announcer
	Logger  *log.Logger
}

// Session is one morning's run through the task list.
//
// Not safe for concurrent use; callers serving requests guard it with a mutex.
type Session struct {
	tracker   *routine.Tracker
	store     *repositories.Store
	evaluator *achievements.Evaluator
	sound     services.SoundPlayer
	voice     services.Announcer
	clock     shared.Clock
	routine   shared.RoutineConfig
	logger    *log.Logger
	events    chan Event
	day       string // YYYY-MM-DD the tracker's progress belongs to
}

// NewSession starts a session over tasks at the first task.
func NewSession(tasks []models.Task, cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: session store", shared.ErrMissingArgument)
	}

	tracker, err := routine.NewTracker(tasks)
	if err != nil {
		return nil, err
	}

	if cfg.Clock == nil {
		cfg.Clock = shared.SystemClock{}
	}
	if cfg.Sound == nil {
		cfg.Sound = services.NopSound{}
	}
	if cfg.Voice == nil {
		cfg.Voice = services.NopAnnouncer{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	s := &Session{
		tracker:   tracker,
		store:     cfg.Store,
		evaluator: achievements.NewEvaluator(cfg.Logger),
		sound:     cfg.Sound,
		voice:     cfg.Voice,
		clock:     cfg.Clock,
		routine:   cfg.Routine,
		logger:    cfg.Logger,
		events:    make(chan Event, eventBuffer),
		day:       shared.DateString(cfg.Clock.Now()),
	}

	s.evaluator.Load(s.store.GameData().UnlockedAchievements)
	s.evaluator.Subscribe(func(a models.Achievement) {
		s.logger.Info("achievement unlocked", "id", a.ID, "title", a.Title)
		s.send(unlockedEvent(a))
	})

	return s, nil
}

// Events returns the session event stream.
func (s *Session) Events() <-chan Event { return s.events }

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.clock.Now() }

// Routine returns the active routine settings.
func (s *Session) Routine() shared.RoutineConfig { return s.routine }

// SetRoutine applies new routine settings, e.g. after a config reload.
func (s *Session) SetRoutine(cfg shared.RoutineConfig) {
	s.routine = cfg
	s.send(Event{Kind: SettingsChanged, Step: s.tracker.CompletedCount(), Total: s.tracker.Total(), Data: cfg})
}

// rollover restarts the tracker at the first task once the calendar day
// has changed, so a long-running process never carries progress past midnight.
func (s *Session) rollover() {
	today := shared.DateString(s.clock.Now())
	if today == s.day {
		return
	}
	s.logger.Info("new day, restarting routine", "from", s.day, "to", today)
	s.day = today
	s.tracker.Reset()
	s.send(Event{Kind: SessionReset, Total: s.tracker.Total(), Message: "day"})
}

// Day returns the date the current progress belongs to.
func (s *Session) Day() string { return s.day }

// Mode reports whether today is a rest day, has nothing to do, is in
// progress or is finished.
func (s *Session) Mode() Mode {
	s.rollover()
	switch {
	case !s.routine.IsEnabled(s.clock.Now().Weekday()):
		return ModeRestDay
	case s.tracker.Total() == 0:
		return ModeEmpty
	case s.tracker.IsAllComplete():
		return ModeComplete
	default:
		return ModeActive
	}
}

// NeedsIntro reports whether the intro screen should be shown.
func (s *Session) NeedsIntro() bool {
	return s.routine.ShowIntro && !s.store.HasSeenIntro()
}

// DismissIntro records that the intro was seen.
func (s *Session) DismissIntro() {
	s.sound.Play(s.store.SoundPack(), models.SoundClick)
	s.store.MarkIntroSeen()
}

// Tasks returns today's task list.
func (s *Session) Tasks() []models.Task { return s.tracker.Tasks() }

// Current returns the task being worked on.
func (s *Session) Current() (models.Task, bool) { return s.tracker.Current() }

// Next returns the task after the current one, or nil.
func (s *Session) Next() *models.Task { return s.tracker.Next() }

// Index returns the zero-based position of the current task.
func (s *Session) Index() int { return s.tracker.Index() }

// Completed returns the number of tasks completed this session.
func (s *Session) Completed() int { return s.tracker.CompletedCount() }

// Total returns the number of tasks.
func (s *Session) Total() int { return s.tracker.Total() }

// Records returns this session's completions.
func (s *Session) Records() []models.CompletionRecord { return s.tracker.Records() }

// Status returns the display status of the current task now.
func (s *Session) Status() models.TaskStatus { return s.tracker.Status(s.clock.Now()) }

// Countdown describes time left on the current task.
type Countdown struct {
	Remaining time.Duration
	Overdue   bool
	Urgency   models.Urgency
}

// Text renders the countdown, prefixing overdue time with "+".
func (c Countdown) Text() string {
	if c.Overdue {
		return "+" + routine.FormatCountdown(c.Remaining)
	}
	return routine.FormatCountdown(c.Remaining)
}

// Countdown returns the countdown for the current task.
func (s *Session) Countdown() (Countdown, bool) {
	task, ok := s.tracker.Current()
	if !ok {
		return Countdown{}, false
	}
	left, overdue := routine.Remaining(task, s.clock.Now())
	return Countdown{Remaining: left, Overdue: overdue, Urgency: routine.UrgencyOf(left, overdue)}, true
}

// TaskStatuses returns every task's display status at now as if it were current.
func (s *Session) TaskStatuses() []models.TaskStatus {
	tasks := s.tracker.Tasks()
	now := s.clock.Now()
	out := make([]models.TaskStatus, len(tasks))
	for i, t := range tasks {
		var next *models.Task
		if i+1 < len(tasks) {
			next = &tasks[i+1]
		}
		out[i] = routine.TaskStatusAt(t, next, now)
	}
	return out
}

// CompletionResult is everything the presentation needs after a completion.
type CompletionResult struct {
	Record      models.CompletionRecord `json:"record"`
	Feedback    models.Feedback         `json:"feedback"`
	Voice       string                  `json:"voice"`
	Unlocked    []models.Achievement    `json:"unlocked"`
	AllComplete bool                    `json:"allComplete"`
	PerfectDay  bool                    `json:"perfectDay"`
	Celebration string                  `json:"celebration,omitempty"`
	Medals      []models.Medal          `json:"medals,omitempty"`
	Game        models.GameData         `json:"game"`
}

// Complete marks the current task done at the clock's time.
func (s *Session) Complete() (*CompletionResult, error) {
	switch s.Mode() {
	case ModeRestDay:
		return nil, shared.ErrRoutineRestDay
	case ModeEmpty:
		return nil, shared.ErrNothingToDo
	case ModeComplete:
		return nil, shared.ErrRoutineComplete
	}

	pack := s.store.SoundPack()
	s.sound.Play(pack, models.SoundClick)

	now := s.clock.Now()
	next := s.tracker.Next()
	record, ok := s.tracker.Complete(now)
	if !ok {
		return nil, shared.ErrNothingToDo
	}
	early := record.Status == models.CompletionEarly

	game, _ := s.store.UpdateGameData(func(g *models.GameData) {
		if early {
			g.FlashCompletions++
		}
		g.TotalCompletions++
	})
	// another process sharing the database may have unlocked entries since
	s.evaluator.Load(game.UnlockedAchievements)
	if !s.store.RecordCompletion(record) {
		s.logger.Warn("completion not fully persisted", "task", record.TaskName)
	}

	var unlocked []models.Achievement
	if early {
		unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementFlashCompletions, game.FlashCompletions)...)
	}
	unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementFirstCompletion, game.TotalCompletions)...)
	unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementStreakDays, game.StreakDays)...)

	s.sound.Play(pack, models.SoundSuccess)

	result := &CompletionResult{
		Record:   record,
		Feedback: routine.CompletionFeedback(record, next),
	}
	s.send(completedEvent(s.tracker.CompletedCount(), s.tracker.Total(), record))

	if s.tracker.IsAllComplete() {
		game, unlocked = s.finishDay(now, unlocked, result)
		s.sound.Play(pack, models.SoundCelebration)
		result.Voice = result.Celebration
	} else {
		result.Voice = routine.VoiceFeedback(record, next)
	}
	s.voice.Announce(result.Voice)

	if len(unlocked) > 0 {
		game, _ = s.store.UpdateGameData(func(g *models.GameData) {
			for _, a := range unlocked {
				g.Unlock(a.ID)
			}
		})
	}

	result.Unlocked = unlocked
	result.Game = game
	s.logger.Debug("task completed", "task", record.TaskName, "status", record.Status, "diff", record.TimeDifference)
	return result, nil
}

// finishDay applies the all-tasks-complete counters and fills the celebration.
func (s *Session) finishDay(now time.Time, unlocked []models.Achievement, result *CompletionResult) (models.GameData, []models.Achievement) {
	today := s.store.DayRecord(now)
	perfect := len(today) >= s.tracker.Total() && today.AllEarly()

	game, _ := s.store.UpdateGameData(func(g *models.GameData) {
		g.UpdateStreak(shared.DateString(now), shared.Yesterday(now))
		g.AllTasksCount++
		if perfect {
			g.PerfectDays++
		}
	})
	s.evaluator.Load(game.UnlockedAchievements)

	unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementStreakDays, game.StreakDays)...)
	unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementAllTasksComplete, game.AllTasksCount)...)
	if perfect {
		unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementPerfectDay, game.PerfectDays)...)
	}
	week := s.store.WeekStats()
	unlocked = append(unlocked, s.evaluator.Evaluate(models.AchievementWeeklyChallenge, len(week.DatesCompleted))...)

	early := s.tracker.EarlyCount()
	result.AllComplete = true
	result.PerfectDay = perfect
	result.Celebration = routine.CelebrationMessage(early, game.StreakDays)
	result.Medals = routine.Medals(game.StreakDays, early, s.tracker.Total())

	s.logger.Info("routine complete", "streak", game.StreakDays, "early", early, "perfect", perfect)
	s.send(allCompleteEvent(s.tracker.Total(), result.Celebration))
	return game, unlocked
}

// SetTasks replaces the task list and restarts at the first task.
func (s *Session) SetTasks(tasks []models.Task) {
	s.tracker.SetTasks(tasks)
	s.send(Event{Kind: TasksChanged, Total: len(tasks), Data: tasks})
}

// Restart returns to the first task without touching persisted data.
func (s *Session) Restart() {
	s.tracker.Reset()
	s.send(Event{Kind: SessionReset, Total: s.tracker.Total(), Message: "restart"})
}

// ResetToday clears today's record and restarts the session.
func (s *Session) ResetToday() bool {
	ok := s.store.ResetToday()
	s.tracker.Reset()
	s.send(Event{Kind: SessionReset, Total: s.tracker.Total(), Message: "today"})
	return ok
}

// ResetWeek clears week stats and today's record and restarts the session.
func (s *Session) ResetWeek() bool {
	ok := s.store.ResetWeek()
	s.tracker.Reset()
	s.send(Event{Kind: SessionReset, Total: s.tracker.Total(), Message: "week"})
	return ok
}

// SoundPack returns the preferred sound pack.
func (s *Session) SoundPack() models.SoundPack { return s.store.SoundPack() }

// SetSoundPack persists pack and plays a preview cue.
func (s *Session) SetSoundPack(pack models.SoundPack) error {
	if !pack.Valid() {
		return fmt.Errorf("%w: unknown sound pack %q", shared.ErrInvalidArgument, pack)
	}
	s.store.SetSoundPack(pack)
	s.sound.Play(pack, models.SoundSuccess)
	return nil
}

// Achievements returns every achievement with its unlock state.
func (s *Session) Achievements() []models.Achievement {
	s.evaluator.Load(s.store.GameData().UnlockedAchievements)
	return s.evaluator.All()
}

// AchievementProgress returns the unlocked and total achievement counts.
func (s *Session) AchievementProgress() (int, int) {
	s.evaluator.Load(s.store.GameData().UnlockedAchievements)
	return s.evaluator.Progress()
}

// Stats bundles the session, lifetime and week numbers.
type Stats struct {
	Session routine.Stats    `json:"session"`
	Game    models.GameData  `json:"game"`
	Week    models.WeekStats `json:"week"`
}

// Stats returns the current numbers.
func (s *Session) Stats() Stats {
	s.rollover()
	return Stats{
		Session: s.tracker.Stats(),
		Game:    s.store.GameData(),
		Week:    s.store.WeekStats(),
	}
}

// Snapshot is a serializable view of the session.
type Snapshot struct {
	Date      string            `json:"date"`
	Mode      Mode              `json:"mode"`
	Index     int               `json:"index"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Current   *models.Task      `json:"current,omitempty"`
	Next      *models.Task      `json:"next,omitempty"`
	Status    models.TaskStatus `json:"status,omitempty"`
	Message   string            `json:"message,omitempty"`
	Countdown string            `json:"countdown,omitempty"`
	Overdue   bool              `json:"overdue"`
	SoundPack models.SoundPack  `json:"soundPack"`
}

// Snapshot captures the session at the clock's time.
func (s *Session) Snapshot() Snapshot {
	s.rollover()
	snap := Snapshot{
		Date:      shared.DateString(s.clock.Now()),
		Mode:      s.Mode(),
		Index:     s.tracker.Index(),
		Completed: s.tracker.CompletedCount(),
		Total:     s.tracker.Total(),
		SoundPack: s.store.SoundPack(),
	}

	if snap.Mode != ModeActive {
		return snap
	}

	if task, ok := s.tracker.Current(); ok {
		snap.Current = &task
		snap.Next = s.tracker.Next()
		snap.Status = s.Status()
		snap.Message = snap.Status.Message()
		if c, ok := s.Countdown(); ok {
			snap.Countdown = c.Text()
			snap.Overdue = c.Overdue
		}
	}
	return snap
}
