package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tasktrack/internal/db"
)

// kvFactories builds each backend fresh for the shared contract tests.
func kvFactories(t *testing.T) map[string]func() KV {
	return map[string]func() KV{
		"memory": func() KV { return NewMemoryKV() },
		"file":   func() KV { return NewFileKV(filepath.Join(t.TempDir(), "data")) },
		"database": func() KV {
			return NewDatabaseKV(db.NewTestDB(t))
		},
	}
}

func TestKV_Contract(t *testing.T) {
	for name, newKV := range kvFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newKV()

			_, found, err := kv.Get(ctx, "tasktrack_tasks")
			require.NoError(t, err)
			assert.False(t, found, "absent key is not an error")

			require.NoError(t, kv.Put(ctx, "tasktrack_tasks", []byte(`[]`)))
			require.NoError(t, kv.Put(ctx, "tasktrack_tasks", []byte(`[{"id":"1"}]`)))

			got, found, err := kv.Get(ctx, "tasktrack_tasks")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, kv.Delete(ctx, "tasktrack_tasks"))
			require.NoError(t, kv.Delete(ctx, "tasktrack_tasks"), "second delete is a no-op")
			_, found, err = kv.Get(ctx, "tasktrack_tasks")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Close())
			assert.ErrorIs(t, kv.Put(ctx, "k", []byte("v")), ErrClosed)
			_, _, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	value := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'X'

	got, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'Y'
	again, _, _ := kv.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFileKV_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	kv := NewFileKV(dir)
	assert.Equal(t, dir, kv.Dir())

	require.NoError(t, kv.Put(ctx, "tasktrack_theme", []byte("false")))

	data, err := os.ReadFile(filepath.Join(dir, "tasktrack_theme.json"))
	require.NoError(t, err)
	assert.Equal(t, "false", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	info, err := os.Stat(filepath.Join(dir, "tasktrack_theme.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(t.TempDir())

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, kv.Put(ctx, key, []byte("x")), "key %q", key)
		_, _, err := kv.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDatabaseKV_CloseTwice(t *testing.T) {
	kv, err := NewInMemoryDatabaseKV()
	require.NoError(t, err)
	require.NotNil(t, kv.DB())

	require.NoError(t, kv.Close())
	assert.NoError(t, kv.Close())
}

func TestDatabaseKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	d, err := db.Open(path)
	require.NoError(t, err)
	kv := NewDatabaseKV(d)
	require.NoError(t, kv.Put(ctx, TasksKey, []byte(`[]`)))
	require.NoError(t, kv.Close())

	d, err = db.Open(path)
	require.NoError(t, err)
	kv = NewDatabaseKV(d)
	defer kv.Close()

	got, found, err := kv.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(got))
}
