package routine

import (
	"testing"

	"github.com/felixgeelhaar/statekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/morningcharge/internal/models"
)

func defaultTasks() []models.Task {
	return []models.Task{
		task(1, "06:50", "06:55"),
		task(2, "06:55", "07:00"),
		task(3, "07:00", "07:05"),
	}
}

func TestTracker(t *testing.T) {
	t.Run("starts at first task", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks())
		require.NoError(t, err)

		cur, ok := tr.Current()
		require.True(t, ok)
		assert.Equal(t, 1, cur.ID)
		assert.Equal(t, StateAdvancing, tr.State())
		assert.Equal(t, 2, tr.Next().ID)
	})

	t.Run("complete advances and records", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks())
		require.NoError(t, err)

		rec, ok := tr.Complete(at("06:52"))
		require.True(t, ok)
		assert.Equal(t, models.CompletionEarly, rec.Status)
		assert.Equal(t, -3, rec.TimeDifference)
		assert.Equal(t, "06:52", rec.CompletionTime)
		assert.Equal(t, 0, rec.TaskIndex)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, 1, tr.Index())
	})

	t.Run("very late uses next start", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks()[:2])
		require.NoError(t, err)

		rec, ok := tr.Complete(at("07:00"))
		require.True(t, ok)
		assert.Equal(t, models.CompletionVeryLate, rec.Status)
	})

	t.Run("last completion is terminal", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks())
		require.NoError(t, err)

		for _, now := range []string{"06:52", "06:58", "07:10"} {
			_, ok := tr.Complete(at(now))
			require.True(t, ok)
		}

		assert.True(t, tr.IsAllComplete())
		assert.Equal(t, StateAllComplete, tr.State())
		assert.Equal(t, models.StatusCompleted, tr.Status(at("07:10")))

		_, ok := tr.Complete(at("07:11"))
		assert.False(t, ok)
		assert.Equal(t, 3, tr.CompletedCount())

		records := tr.Records()
		assert.Equal(t, models.CompletionLate, records[2].Status)
	})

	t.Run("no tasks is a no-op", func(t *testing.T) {
		tr, err := NewTracker(nil)
		require.NoError(t, err)

		_, ok := tr.Complete(at("06:52"))
		assert.False(t, ok)
		assert.Equal(t, float64(0), tr.CompletionRate())
	})

	t.Run("finish is refused until every task is done", func(t *testing.T) {
		empty, err := NewTracker(nil)
		require.NoError(t, err)
		empty.lifecycle.Send(statekit.Event{Type: eventFinish})
		assert.Equal(t, StateAdvancing, empty.State())

		tr, err := NewTracker(defaultTasks())
		require.NoError(t, err)
		_, ok := tr.Complete(at("06:52"))
		require.True(t, ok)

		tr.lifecycle.Send(statekit.Event{Type: eventFinish})
		assert.Equal(t, StateAdvancing, tr.State())
		assert.Equal(t, 1, tr.Index())
	})

	t.Run("set tasks resizes the finish guard", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks()[:1])
		require.NoError(t, err)

		tr.SetTasks(defaultTasks())
		_, ok := tr.Complete(at("06:52"))
		require.True(t, ok)
		assert.False(t, tr.IsAllComplete())

		tr.SetTasks(defaultTasks()[:1])
		_, ok = tr.Complete(at("06:52"))
		require.True(t, ok)
		assert.True(t, tr.IsAllComplete())
	})

	t.Run("reset restarts at first task", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks()[:1])
		require.NoError(t, err)

		_, ok := tr.Complete(at("06:52"))
		require.True(t, ok)
		require.True(t, tr.IsAllComplete())

		tr.Reset()
		assert.False(t, tr.IsAllComplete())
		assert.Equal(t, 0, tr.Index())
		assert.Empty(t, tr.Records())

		_, ok = tr.Complete(at("06:53"))
		assert.True(t, ok)
	})

	t.Run("stats", func(t *testing.T) {
		tr, err := NewTracker(defaultTasks()[:2])
		require.NoError(t, err)

		tr.Complete(at("06:52"))
		stats := tr.Stats()

		assert.Equal(t, 2, stats.TotalTasks)
		assert.Equal(t, 1, stats.CompletedTasks)
		assert.Equal(t, 1, stats.EarlyCompletions)
		assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)
		assert.False(t, stats.IsAllCompleted)
	})
}
