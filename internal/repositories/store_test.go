package repositories

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

func newTestStore(t *testing.T, now time.Time) (*Store, *bytes.Buffer) {
	t.Helper()
	db := setupTestDB(t)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	clock := shared.ClockFunc(func() time.Time { return now })
	return NewStore(db, clock, log.New(&buf)), &buf
}

func TestStore(t *testing.T) {
	now := time.Date(2025, 3, 3, 6, 52, 0, 0, time.Local)

	t.Run("GameData Defaults", func(t *testing.T) {
		store, _ := newTestStore(t, now)
		data := store.GameData()

		if !data.FirstVisit {
			t.Error("expected first visit by default")
		}
		if data.StreakDays != 0 || data.UnlockedAchievements == nil {
			t.Errorf("unexpected defaults: %+v", data)
		}
	})

	t.Run("UpdateGameData", func(t *testing.T) {
		store, _ := newTestStore(t, now)

		if _, ok := store.UpdateGameData(func(g *models.GameData) { g.TotalCompletions++ }); !ok {
			t.Fatal("expected update to succeed")
		}
		got, ok := store.UpdateGameData(func(g *models.GameData) {
			g.TotalCompletions++
			g.Unlock("first_step")
		})
		if !ok {
			t.Fatal("expected second update to succeed")
		}

		if got.TotalCompletions != 2 {
			t.Errorf("expected 2 completions, got %d", got.TotalCompletions)
		}

		stored := store.GameData()
		if stored.TotalCompletions != 2 || !stored.HasUnlocked("first_step") {
			t.Errorf("expected persisted counters, got %+v", stored)
		}
	})

	t.Run("Malformed GameData Falls Back", func(t *testing.T) {
		store, buf := newTestStore(t, now)
		if err := store.kv.Put(KeyGameData, []byte("{not json")); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		data := store.GameData()
		if !data.FirstVisit {
			t.Error("expected defaults for malformed data")
		}
		if !strings.Contains(buf.String(), "malformed") {
			t.Errorf("expected warning to be logged, got %q", buf.String())
		}
	})

	t.Run("RecordCompletion", func(t *testing.T) {
		store, _ := newTestStore(t, now)

		rec := models.CompletionRecord{
			ID: shared.GenerateID(), TaskID: 1, TaskName: "Get up", TaskIndex: 0,
			Status: models.CompletionEarly, Timestamp: now, CompletionTime: "06:52", TimeDifference: -3,
		}
		if !store.RecordCompletion(rec) {
			t.Fatal("expected record to succeed")
		}

		day := store.TodayRecord()
		if entry, ok := day[0]; !ok || entry.Status != models.CompletionEarly {
			t.Errorf("expected early entry for index 0, got %+v", day)
		}

		week := store.WeekStats()
		if week.EarlyCompletions != 1 || week.CompletedTasks != 1 || len(week.DatesCompleted) != 1 || week.DatesCompleted[0] != "2025-03-03" {
			t.Errorf("unexpected week stats: %+v", week)
		}

		history := store.History(now)
		if len(history) != 1 || history[0].ID != rec.ID {
			t.Errorf("expected completion in history, got %+v", history)
		}
	})

	t.Run("RecordedDays", func(t *testing.T) {
		store, buf := newTestStore(t, now)
		for i, ts := range []time.Time{now.AddDate(0, 0, -1), now, now} {
			store.RecordCompletion(models.CompletionRecord{
				ID: shared.GenerateID(), TaskName: "Get up", TaskIndex: i, Status: models.CompletionOnTime, Timestamp: ts,
			})
		}
		if err := store.kv.Put(KeyDayPrefix+"garbage", []byte("{}")); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		days := store.RecordedDays()
		if len(days) != 2 || days[0] != "2025-03-02" || days[1] != "2025-03-03" {
			t.Errorf("expected two recorded days, got %v", days)
		}
		if !strings.Contains(buf.String(), "malformed day key") {
			t.Errorf("expected malformed key warning, got %q", buf.String())
		}
		if n := store.LoggedCompletions(); n != 3 {
			t.Errorf("expected 3 logged completions, got %d", n)
		}

		store.ResetToday()
		if days := store.RecordedDays(); len(days) != 1 {
			t.Errorf("expected one day after reset, got %v", days)
		}
		if n := store.LoggedCompletions(); n != 1 {
			t.Errorf("expected 1 logged completion after reset, got %d", n)
		}
	})

	t.Run("ResetToday", func(t *testing.T) {
		store, _ := newTestStore(t, now)
		store.RecordCompletion(models.CompletionRecord{ID: "a", TaskName: "a", Status: models.CompletionLate, Timestamp: now})

		if !store.ResetToday() {
			t.Fatal("expected reset to succeed")
		}
		if len(store.TodayRecord()) != 0 || len(store.History(now)) != 0 {
			t.Error("expected today's records to be cleared")
		}
		if store.WeekStats().TotalTasks != 1 {
			t.Error("resetting today must keep week stats")
		}
	})

	t.Run("ResetWeek", func(t *testing.T) {
		store, _ := newTestStore(t, now)
		store.RecordCompletion(models.CompletionRecord{ID: "a", TaskName: "a", Status: models.CompletionOnTime, Timestamp: now})

		if !store.ResetWeek() {
			t.Fatal("expected reset to succeed")
		}
		week := store.WeekStats()
		if week.TotalTasks != 0 || len(week.DatesCompleted) != 0 {
			t.Errorf("expected empty week stats, got %+v", week)
		}
		if len(store.TodayRecord()) != 0 {
			t.Error("expected today's record to be cleared with the week")
		}
	})

	t.Run("SoundPack", func(t *testing.T) {
		store, _ := newTestStore(t, now)

		if store.SoundPack() != models.SoundPackDefault {
			t.Error("expected default sound pack")
		}
		if store.SetSoundPack("unknown") {
			t.Error("expected unknown pack to be rejected")
		}
		if !store.SetSoundPack(models.SoundPackVideo1) {
			t.Fatal("expected pack to be saved")
		}
		if store.SoundPack() != models.SoundPackVideo1 {
			t.Errorf("expected video1, got %s", store.SoundPack())
		}
	})

	t.Run("TasksOverride", func(t *testing.T) {
		store, _ := newTestStore(t, now)

		if _, ok := store.TasksOverride(); ok {
			t.Error("expected no override")
		}
		if !store.SaveTasksOverride([]byte(`[{"id":1}]`)) {
			t.Fatal("expected override to save")
		}
		raw, ok := store.TasksOverride()
		if !ok || string(raw) != `[{"id":1}]` {
			t.Errorf("unexpected override %q", raw)
		}
		if !store.ClearTasksOverride() {
			t.Fatal("expected override to clear")
		}
		if _, ok := store.TasksOverride(); ok {
			t.Error("expected override to be gone")
		}
	})

	t.Run("Intro", func(t *testing.T) {
		store, _ := newTestStore(t, now)

		if store.HasSeenIntro() {
			t.Error("expected intro unseen")
		}
		if !store.MarkIntroSeen() {
			t.Fatal("expected intro flag to save")
		}
		if !store.HasSeenIntro() {
			t.Error("expected intro seen")
		}
		if store.GameData().FirstVisit {
			t.Error("expected first visit cleared")
		}
	})

	t.Run("Storage Failure Is Swallowed", func(t *testing.T) {
		db := setupTestDB(t)
		var buf bytes.Buffer
		store := NewStore(db, shared.ClockFunc(func() time.Time { return now }), log.New(&buf))
		db.Close()

		if store.SaveGameData(models.NewGameData()) {
			t.Error("expected save to report failure on closed database")
		}
		if !store.GameData().FirstVisit {
			t.Error("expected defaults on read failure")
		}
		if !strings.Contains(buf.String(), "failed") {
			t.Errorf("expected error to be logged, got %q", buf.String())
		}
	})
}
