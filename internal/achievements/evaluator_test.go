package achievements

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/morningcharge/internal/models"
)

func TestCatalog(t *testing.T) {
	all := Catalog()
	require.Len(t, all, 12)

	seen := map[string]bool{}
	for _, a := range all {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.False(t, a.Unlocked)
		assert.Positive(t, a.Requirement)
	}

	all[0].Unlocked = true
	assert.False(t, Catalog()[0].Unlocked, "Catalog must return a copy")
}

func TestEvaluator(t *testing.T) {
	t.Run("unlocks every crossed threshold in order", func(t *testing.T) {
		e := NewEvaluator(nil)
		got := e.Evaluate(models.AchievementFlashCompletions, 12)

		require.Len(t, got, 2)
		assert.Equal(t, "flash_5_times", got[0].ID)
		assert.Equal(t, "flash_10_times", got[1].ID)
		assert.True(t, got[0].Unlocked)
	})

	t.Run("idempotent", func(t *testing.T) {
		e := NewEvaluator(nil)
		require.Len(t, e.Evaluate(models.AchievementFirstCompletion, 1), 1)
		assert.Empty(t, e.Evaluate(models.AchievementFirstCompletion, 1))
		assert.Empty(t, e.Evaluate(models.AchievementFirstCompletion, 50))
	})

	t.Run("below threshold unlocks nothing", func(t *testing.T) {
		e := NewEvaluator(nil)
		assert.Empty(t, e.Evaluate(models.AchievementStreakDays, 2))
	})

	t.Run("only matching type", func(t *testing.T) {
		e := NewEvaluator(nil)
		got := e.Evaluate(models.AchievementPerfectDay, 1)
		require.Len(t, got, 1)
		assert.Equal(t, "perfect_day_1", got[0].ID)

		unlocked, total := e.Progress()
		assert.Equal(t, 1, unlocked)
		assert.Equal(t, 12, total)
	})

	t.Run("load restores unlock state", func(t *testing.T) {
		e := NewEvaluator(nil)
		e.Load([]string{"streak_3_days", "unknown"})

		got := e.Evaluate(models.AchievementStreakDays, 7)
		require.Len(t, got, 1)
		assert.Equal(t, "streak_7_days", got[0].ID)
		assert.Equal(t, []string{"streak_3_days", "streak_7_days"}, e.UnlockedIDs())

		unlocked, _ := e.Progress()
		assert.Equal(t, 2, unlocked)
	})

	t.Run("load is additive", func(t *testing.T) {
		e := NewEvaluator(nil)
		e.Evaluate(models.AchievementAllTasksComplete, 5)
		e.Load(nil)
		assert.Equal(t, []string{"all_tasks_5_times"}, e.UnlockedIDs())

		assert.Empty(t, e.Evaluate(models.AchievementAllTasksComplete, 5))
	})

	t.Run("listeners notified and panics isolated", func(t *testing.T) {
		var buf bytes.Buffer
		e := NewEvaluator(log.New(&buf))

		var notified []string
		e.Subscribe(func(models.Achievement) { panic("boom") })
		e.Subscribe(func(a models.Achievement) { notified = append(notified, a.ID) })

		got := e.Evaluate(models.AchievementWeeklyChallenge, 5)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"weekly_challenge_5_days"}, notified)
		assert.Contains(t, buf.String(), "listener panicked")
	})
}
