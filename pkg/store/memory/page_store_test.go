package memory

import (
	"context"
	"testing"
	"time"

	"agentconsole/internal/agentform"
	"agentconsole/internal/model"
	"agentconsole/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*PageStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewPageStore(ttl)
	s.now = clock.now
	return s, clock
}

func testSnapshot(id string) *agentform.Snapshot {
	return &agentform.Snapshot{
		ID:    id,
		Mode:  model.FormModeCreate,
		Draft: agentform.DefaultDraft(model.FormModeCreate, nil),
		State: agentform.StateEditing,
	}
}

func TestPageStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))

	got, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, 10, *got.Draft.NodeCapacity)

	require.NoError(t, s.Delete(ctx, "p1"))
	_, err = s.Load(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrPageNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "p1"))
}

func TestPageStore_IsolatesCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	snap := testSnapshot("p1")
	snap.Draft.ConfigFile = &model.ConfigFile{Filename: "a.zip", Content: []byte("abc")}
	require.NoError(t, s.Save(ctx, snap))

	snap.Draft.Name = "changed"
	snap.Draft.ConfigFile.Content[0] = 'z'

	got, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got.Draft.Name)
	assert.Equal(t, "abc", string(got.Draft.ConfigFile.Content))
}

func TestPageStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))
	require.NoError(t, s.Save(ctx, testSnapshot("p2")))

	clock.t = clock.t.Add(30 * time.Second)
	// saving refreshes the expiry
	require.NoError(t, s.Save(ctx, testSnapshot("p2")))

	clock.t = clock.t.Add(45 * time.Second)
	_, err := s.Load(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrPageNotFound)
	_, err = s.Load(ctx, "p2")
	assert.NoError(t, err)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
}

func TestPageStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(0)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))
	clock.t = clock.t.Add(24 * time.Hour)

	_, err := s.Load(ctx, "p1")
	assert.NoError(t, err)
	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
