package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/repositories"
	"github.com/desertthunder/morningcharge/internal/shared"
	tu "github.com/desertthunder/morningcharge/internal/testing"
)

type memPersister struct {
	raw      []byte
	saves    int
	failSave bool
}

func (m *memPersister) TasksOverride() ([]byte, bool) { return m.raw, m.raw != nil }

func (m *memPersister) SaveTasksOverride(raw []byte) bool {
	if m.failSave {
		return false
	}
	m.saves++
	m.raw = raw
	return true
}

func (m *memPersister) ClearTasksOverride() bool {
	m.raw = nil
	return true
}

type fakeRemote struct {
	err   error
	calls []int
}

func (f *fakeRemote) DeleteTask(_ context.Context, id int) error {
	f.calls = append(f.calls, id)
	return f.err
}

func sample() []models.Task {
	return []models.Task{
		{ID: 1, Name: "Wake", Icon: "⏰", StartTime: "06:30", DeadlineTime: "06:35"},
		{ID: 2, Name: "Stretch", Icon: "🤸", StartTime: "06:35", DeadlineTime: "06:45"},
	}
}

func TestDefaultTasks(t *testing.T) {
	tasks := DefaultTasks()
	require.Len(t, tasks, 4)
	assert.Equal(t, "Get up", tasks[0].Name)
	assert.Equal(t, "07:15", tasks[3].DeadlineTime)
	require.NoError(t, Validate(tasks))

	data, err := json.Marshal(tasks)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "nextTaskStartTime")
}

func TestNormalize(t *testing.T) {
	t.Run("strips hints and round trips", func(t *testing.T) {
		raw := Denormalize(sample())
		assert.Equal(t, "06:35", raw[0].NextTaskStartTime)

		once := Normalize(raw)
		assert.Equal(t, sample(), once)
		assert.Equal(t, once, Normalize(Denormalize(once)))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})
}

func TestClean(t *testing.T) {
	cleaned := Clean([]models.Task{
		{ID: 9, Name: "  Wake ", Icon: " ", StartTime: " 06:30", DeadlineTime: "06:35 "},
		{ID: 3, Name: "Eat", Icon: "🍞", StartTime: "06:35", DeadlineTime: "06:45"},
	})

	assert.Equal(t, 1, cleaned[0].ID)
	assert.Equal(t, 2, cleaned[1].ID)
	assert.Equal(t, "Wake", cleaned[0].Name)
	assert.Equal(t, DefaultIcon, cleaned[0].Icon)
	assert.Equal(t, "06:30", cleaned[0].StartTime)
	assert.Equal(t, "06:35", cleaned[0].DeadlineTime)
}

func TestParseJSON(t *testing.T) {
	t.Run("valid with transient field", func(t *testing.T) {
		data := `[{"id":1,"name":"Wake","icon":"⏰","startTime":"06:30","deadlineTime":"06:35","nextTaskStartTime":"06:35"}]`
		tasks, err := ParseJSON([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, []models.Task{{ID: 1, Name: "Wake", Icon: "⏰", StartTime: "06:30", DeadlineTime: "06:35"}}, tasks)
	})

	tc := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{oops`},
		{name: "object instead of array", data: `{"name":"x"}`},
		{name: "empty array", data: `[]`},
		{name: "missing deadline", data: `[{"name":"x","startTime":"06:30"}]`},
		{name: "bad time", data: `[{"name":"x","startTime":"6:30am","deadlineTime":"06:35"}]`},
		{name: "empty name", data: `[{"name":"  ","startTime":"06:30","deadlineTime":"06:35"}]`},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			require.Error(t, err)
		})
	}

	t.Run("empty name sentinel", func(t *testing.T) {
		_, err := ParseJSON([]byte(`[{"name":"","startTime":"06:30","deadlineTime":"06:35"}]`))
		assert.True(t, errors.Is(err, shared.ErrEmptyTaskName), "got %v", err)
	})
}

func TestParseURL(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)

	tasks, err := ParseURL("http://localhost/?tasks=" + url.QueryEscape(string(data)))
	require.NoError(t, err)
	assert.Equal(t, sample(), tasks)

	_, err = ParseURL("http://localhost/?other=1")
	assert.ErrorIs(t, err, shared.ErrMissingArgument)
}

func TestStoreLoad(t *testing.T) {
	data, _ := json.Marshal(sample())
	tasksURL := "http://localhost/?tasks=" + url.QueryEscape(string(data))

	t.Run("defaults when nothing else", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		tasks, src := s.Load("")
		assert.Equal(t, SourceDefaults, src)
		assert.Equal(t, DefaultTasks(), tasks)
	})

	t.Run("url beats defaults", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		tasks, src := s.Load(tasksURL)
		assert.Equal(t, SourceURL, src)
		assert.Equal(t, sample(), tasks)
	})

	t.Run("override beats url", func(t *testing.T) {
		override := []models.Task{{ID: 1, Name: "Only", Icon: "1️⃣", StartTime: "07:00", DeadlineTime: "07:10"}}
		raw, _ := json.Marshal(override)
		s := NewStore(&memPersister{raw: raw}, nil, nil)

		tasks, src := s.Load(tasksURL)
		assert.Equal(t, SourceOverride, src)
		assert.Equal(t, override, tasks)
	})

	t.Run("malformed override falls through", func(t *testing.T) {
		s := NewStore(&memPersister{raw: []byte("garbage")}, nil, nil)
		_, src := s.Load(tasksURL)
		assert.Equal(t, SourceURL, src)
	})

	t.Run("malformed url falls back to defaults", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		tasks, src := s.Load("http://localhost/?tasks=" + url.QueryEscape("[not json"))
		assert.Equal(t, SourceDefaults, src)
		assert.Len(t, tasks, 4)
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("empty name fails and leaves config unchanged", func(t *testing.T) {
		original, _ := json.Marshal(sample())
		p := &memPersister{raw: original}
		s := NewStore(p, nil, nil)

		bad := sample()
		bad[1].Name = "   "
		assert.False(t, s.Save(bad))
		assert.Equal(t, original, p.raw)
		assert.Equal(t, 0, p.saves)

		_, err := s.SaveList(bad)
		assert.ErrorIs(t, err, shared.ErrEmptyTaskName)
	})

	t.Run("cleans and renumbers", func(t *testing.T) {
		p := &memPersister{}
		s := NewStore(p, nil, nil)

		input := sample()
		input[0].ID = 7
		input[1].Icon = ""
		require.True(t, s.Save(input))

		got := s.Current()
		assert.Equal(t, 1, got[0].ID)
		assert.Equal(t, 2, got[1].ID)
		assert.Equal(t, DefaultIcon, got[1].Icon)
	})

	t.Run("persist failure", func(t *testing.T) {
		s := NewStore(&memPersister{failSave: true}, nil, nil)
		assert.False(t, s.Save(sample()))
	})

	t.Run("add appends to current list", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		got, err := s.Add(models.Task{Name: "Shoes", StartTime: "07:15", DeadlineTime: "07:20"})
		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, 5, got[4].ID)
		assert.Equal(t, DefaultIcon, got[4].Icon)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		require.True(t, s.Save(sample()))
		require.True(t, s.Reset())
		_, src := s.Load("")
		assert.Equal(t, SourceDefaults, src)
	})
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("remote called first then removed", func(t *testing.T) {
		remote := &fakeRemote{}
		s := NewStore(&memPersister{}, remote, nil)
		require.True(t, s.Save(sample()))

		got, err := s.Delete(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, remote.calls)
		require.Len(t, got, 1)
		assert.Equal(t, "Stretch", got[0].Name)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("remote failure keeps list", func(t *testing.T) {
		remote := &fakeRemote{err: errors.New("503")}
		s := NewStore(&memPersister{}, remote, nil)
		require.True(t, s.Save(sample()))

		_, err := s.Delete(ctx, 2)
		assert.ErrorIs(t, err, shared.ErrRemoteDelete)
		assert.Len(t, s.Current(), 2)
	})

	t.Run("last task cannot be deleted", func(t *testing.T) {
		remote := &fakeRemote{}
		s := NewStore(&memPersister{}, remote, nil)
		require.True(t, s.Save(sample()[:1]))

		_, err := s.Delete(ctx, 1)
		assert.ErrorIs(t, err, shared.ErrLastTask)
		assert.Empty(t, remote.calls)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewStore(&memPersister{}, nil, nil)
		_, err := s.Delete(ctx, 99)
		assert.ErrorIs(t, err, shared.ErrTaskNotFound)
	})

	t.Run("works against the sqlite store", func(t *testing.T) {
		db := tu.MustOpenDB(t)
		persist := repositories.NewStore(db, tu.At("06:00"), nil)
		s := NewStore(persist, nil, nil)

		got, err := s.Delete(ctx, 4)
		require.NoError(t, err)
		assert.Len(t, got, 3)

		tasks, src := s.Load("")
		assert.Equal(t, SourceOverride, src)
		assert.Len(t, tasks, 3)
	})
}

func TestFiles(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("json round trip", func(t *testing.T) {
		require.NoError(t, WriteFile(fs, "/out/tasks.json", sample()))
		got, err := ReadFile(fs, "/out/tasks.json")
		require.NoError(t, err)
		assert.Equal(t, sample(), got)
	})

	t.Run("yaml round trip", func(t *testing.T) {
		require.NoError(t, WriteFile(fs, "/out/tasks.yaml", sample()))
		got, err := ReadFile(fs, "/out/tasks.yaml")
		require.NoError(t, err)
		assert.Equal(t, sample(), got)
	})

	t.Run("hand written yaml", func(t *testing.T) {
		doc := `
- name: Wake
  icon: "⏰"
  startTime: "06:30"
  deadlineTime: "06:35"
  nextTaskStartTime: "06:35"
`
		require.NoError(t, afero.WriteFile(fs, "/in.yml", []byte(doc), 0o644))
		got, err := ReadFile(fs, "/in.yml")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Wake", got[0].Name)
	})

	t.Run("invalid yaml task", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("- name: x\n  startTime: \"25:00\"\n  deadlineTime: \"06:00\"\n"), 0o644))
		_, err := ReadFile(fs, "/bad.yaml")
		assert.ErrorIs(t, err, shared.ErrInvalidTasks)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := ReadFile(fs, "/tasks.txt")
		assert.ErrorIs(t, err, shared.ErrUnknownFormat)
		assert.ErrorIs(t, WriteFile(fs, "/tasks.txt", sample()), shared.ErrUnknownFormat)
	})
}
