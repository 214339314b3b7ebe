package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

type recorder struct {
	mu  sync.Mutex
	ids []types.TableID
}

func (r *recorder) Invalidate(ids ...types.TableID) {
	r.mu.Lock()
	r.ids = append(r.ids, ids...)
	r.mu.Unlock()
}

func (r *recorder) seen(id types.TableID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.ids {
		if got == id {
			return true
		}
	}
	return false
}

func TestWatcherInvalidatesChangedTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	rec := &recorder{}
	w, err := New(dir, rec, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lists.csv"), []byte("ListName,Value\n"), 0o644))
	require.Eventually(t, func() bool { return rec.seen(types.TableLists) }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "lists.csv")))
	require.Eventually(t, func() bool { return w.Stats().Invalidations >= 2 }, 5*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	for _, id := range rec.ids {
		assert.Equal(t, types.TableLists, id, "unrelated files must not invalidate")
	}
	rec.mu.Unlock()
	assert.Equal(t, types.TableLists, w.Stats().LastTable)

	cancel()
	require.NoError(t, <-done)
	goleak.VerifyNone(t)
}

func TestWatcherSeesAtomicRename(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, rec, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	tmp := filepath.Join(dir, ".csv-123.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("RuleKey,Threshold\n"), 0o644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "policy.csv")))
	require.Eventually(t, func() bool { return rec.seen(types.TablePolicy) }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	goleak.VerifyNone(t)
}

func TestWatcherCloseWithoutRun(t *testing.T) {
	w, err := New(t.TempDir(), &recorder{}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	goleak.VerifyNone(t)
}

func TestTableFor(t *testing.T) {
	id, ok := tableFor("/x/config/circulars.csv")
	assert.True(t, ok)
	assert.Equal(t, types.TableCirculars, id)

	_, ok = tableFor("/x/config/circulars.csv.bak")
	assert.False(t, ok)
}
