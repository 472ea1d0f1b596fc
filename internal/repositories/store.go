package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Persisted keys.
const (
	KeyGameData      = "morningChargeTeamData"
	KeyDayPrefix     = "completed_"
	KeyWeekStats     = "weekCompletionData"
	KeySoundPack     = "preferredSoundPack"
	KeyTasksOverride = "userTasksConfig"
	KeySeenIntro     = "hasSeenIntro"
)

// DayKey returns the key of the day record for t.
func DayKey(t time.Time) string {
	return KeyDayPrefix + shared.DayKey(t)
}

// Store is the typed facade over persisted game state.
//
// Storage failures are logged and swallowed: reads fall back to defaults and
// writes report success as a bool.
type Store struct {
	kv          *KVRepository
	completions *CompletionRepository
	clock       shared.Clock
	logger      *log.Logger
}

// NewStore creates a Store over db.
func NewStore(db *sql.DB, clock shared.Clock, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		kv:          NewKVRepository(db),
		completions: NewCompletionRepository(db),
		clock:       clock,
		logger:      logger,
	}
}

// readJSON decodes key into out, returning false when missing or unreadable.
func (s *Store) readJSON(key string, out any) bool {
	entry, err := s.kv.Get(key)
	if errors.Is(err, shared.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Error("failed to read key", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		s.logger.Warn("discarding malformed value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) writeJSON(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode value", "key", key, "error", err)
		return false
	}
	if err := s.kv.Put(key, data); err != nil {
		s.logger.Error("failed to write key", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) remove(key string) bool {
	if err := s.kv.Delete(key); err != nil {
		s.logger.Error("failed to delete key", "key", key, "error", err)
		return false
	}
	return true
}

// updateJSON runs a compare-and-swap read-modify-write of a JSON document.
func updateJSON[T any](s *Store, key string, zero func() T, fn func(*T)) (T, bool) {
	var result T
	err := s.kv.Update(context.Background(), key, func(current []byte) ([]byte, error) {
		v := zero()
		if current != nil {
			if err := json.Unmarshal(current, &v); err != nil {
				s.logger.Warn("discarding malformed value", "key", key, "error", err)
				v = zero()
			}
		}
		fn(&v)
		result = v
		return json.Marshal(v)
	})
	if err != nil {
		s.logger.Error("failed to update key", "key", key, "error", err)
		return zero(), false
	}
	return result, true
}

// GameData returns the stored counters, or fresh ones for a first visit.
func (s *Store) GameData() models.GameData {
	data := models.NewGameData()
	if !s.readJSON(KeyGameData, &data) {
		return models.NewGameData()
	}
	if data.UnlockedAchievements == nil {
		data.UnlockedAchievements = []string{}
	}
	return data
}

// SaveGameData overwrites the stored counters.
func (s *Store) SaveGameData(data models.GameData) bool {
	return s.writeJSON(KeyGameData, data)
}

// UpdateGameData atomically applies fn to the stored counters.
func (s *Store) UpdateGameData(fn func(*models.GameData)) (models.GameData, bool) {
	return updateJSON(s, KeyGameData, models.NewGameData, fn)
}

// DayRecord returns the completions recorded on the day of t.
func (s *Store) DayRecord(t time.Time) models.DayRecord {
	record := models.DayRecord{}
	if !s.readJSON(DayKey(t), &record) || record == nil {
		return models.DayRecord{}
	}
	return record
}

// TodayRecord returns today's completions.
func (s *Store) TodayRecord() models.DayRecord {
	return s.DayRecord(s.clock.Now())
}

// RecordCompletion stores rec in the day record, week stats and history log.
func (s *Store) RecordCompletion(rec models.CompletionRecord) bool {
	_, dayOK := updateJSON(s, DayKey(rec.Timestamp), func() models.DayRecord { return models.DayRecord{} }, func(d *models.DayRecord) {
		if *d == nil {
			*d = models.DayRecord{}
		}
		(*d)[rec.TaskIndex] = models.DayEntry{Status: rec.Status, Timestamp: rec.Timestamp}
	})

	_, weekOK := updateJSON(s, KeyWeekStats, models.NewWeekStats, func(w *models.WeekStats) {
		w.Record(rec.Status, shared.DateString(rec.Timestamp))
	})

	ok := dayOK && weekOK
	if err := s.completions.Create(shared.DayKey(rec.Timestamp), rec); err != nil {
		s.logger.Error("failed to log completion", "task", rec.TaskName, "error", err)
		ok = false
	}

	return ok
}

// History returns the full completion records of the day of t.
func (s *Store) History(t time.Time) []models.CompletionRecord {
	records, err := s.completions.ListByDay(shared.DayKey(t))
	if err != nil {
		s.logger.Error("failed to read completion history", "error", err)
		return nil
	}
	return records
}

// RecordedDays returns the dates (YYYY-MM-DD) that have a day record, oldest first.
func (s *Store) RecordedDays() []string {
	keys, err := s.kv.Keys(KeyDayPrefix)
	if err != nil {
		s.logger.Error("failed to list day records", "error", err)
		return nil
	}

	days := make([]string, 0, len(keys))
	for _, key := range keys {
		t, err := time.ParseInLocation(shared.DayKeyLayout, strings.TrimPrefix(key, KeyDayPrefix), time.Local)
		if err != nil {
			s.logger.Warn("skipping malformed day key", "key", key)
			continue
		}
		days = append(days, shared.DateString(t))
	}
	return days
}

// LoggedCompletions returns the number of entries in the completion log.
func (s *Store) LoggedCompletions() int {
	n, err := s.completions.Count()
	if err != nil {
		s.logger.Error("failed to count completions", "error", err)
		return 0
	}
	return n
}

// WeekStats returns the accumulated week stats.
func (s *Store) WeekStats() models.WeekStats {
	stats := models.NewWeekStats()
	if !s.readJSON(KeyWeekStats, &stats) {
		return models.NewWeekStats()
	}
	if stats.DatesCompleted == nil {
		stats.DatesCompleted = []string{}
	}
	return stats
}

// ResetToday clears today's day record and history.
func (s *Store) ResetToday() bool {
	now := s.clock.Now()
	ok := s.remove(DayKey(now))
	if _, err := s.completions.DeleteDay(shared.DayKey(now)); err != nil {
		s.logger.Error("failed to clear completion history", "error", err)
		ok = false
	}
	return ok
}

// ResetWeek clears week stats along with today's record.
func (s *Store) ResetWeek() bool {
	weekOK := s.writeJSON(KeyWeekStats, models.NewWeekStats())
	return s.ResetToday() && weekOK
}

// SoundPack returns the preferred pack, defaulting to [models.SoundPackDefault].
func (s *Store) SoundPack() models.SoundPack {
	var pack models.SoundPack
	if !s.readJSON(KeySoundPack, &pack) || !pack.Valid() {
		return models.SoundPackDefault
	}
	return pack
}

// SetSoundPack persists the preferred pack. Unknown packs are rejected.
func (s *Store) SetSoundPack(pack models.SoundPack) bool {
	if !pack.Valid() {
		s.logger.Warn("ignoring unknown sound pack", "pack", pack)
		return false
	}
	return s.writeJSON(KeySoundPack, pack)
}

// TasksOverride returns the raw user task list, if one was saved.
func (s *Store) TasksOverride() ([]byte, bool) {
	entry, err := s.kv.Get(KeyTasksOverride)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.Error("failed to read task override", "error", err)
		return nil, false
	}
	return entry.Value, true
}

// SaveTasksOverride stores raw as the user task list.
func (s *Store) SaveTasksOverride(raw []byte) bool {
	if err := s.kv.Put(KeyTasksOverride, raw); err != nil {
		s.logger.Error("failed to save task override", "error", err)
		return false
	}
	return true
}

// ClearTasksOverride removes the user task list so defaults apply again.
func (s *Store) ClearTasksOverride() bool {
	return s.remove(KeyTasksOverride)
}

// HasSeenIntro reports whether the intro screen was dismissed before.
func (s *Store) HasSeenIntro() bool {
	entry, err := s.kv.Get(KeySeenIntro)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to read intro flag", "error", err)
		}
		return false
	}
	return string(entry.Value) == "true"
}

// MarkIntroSeen records that the intro was shown and clears the first-visit flag.
func (s *Store) MarkIntroSeen() bool {
	if err := s.kv.Put(KeySeenIntro, []byte("true")); err != nil {
		s.logger.Error("failed to save intro flag", "error", err)
		return false
	}
	_, ok := s.UpdateGameData(func(g *models.GameData) { g.FirstVisit = false })
	return ok
}
