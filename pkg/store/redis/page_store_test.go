package redis

import (
	"context"
	"testing"
	"time"

	"agentconsole/internal/agentform"
	"agentconsole/internal/model"
	"agentconsole/pkg/config"
	"agentconsole/pkg/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testSnapshot(id string) *agentform.Snapshot {
	draft := agentform.DefaultDraft(model.FormModeCreate, nil)
	draft.Name = "agent1"
	draft.ConfigFile = &model.ConfigFile{Filename: "agent.zip", ContentType: "application/zip", Content: []byte{0x50, 0x4b, 0x03, 0x04}}
	return &agentform.Snapshot{
		ID:        id,
		Mode:      model.FormModeCreate,
		Draft:     draft,
		State:     agentform.StateEditing,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC),
	}
}

func TestNewRedisClient_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestPageStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	s := NewPageStore(client, 10*time.Minute)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))
	assert.True(t, mr.Exists("agentform:page:p1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("agentform:page:p1"))

	got, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "agent1", got.Draft.Name)
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, got.Draft.ConfigFile.Content)
	assert.Equal(t, 10, *got.Draft.NodeCapacity)
	assert.True(t, *got.Draft.Schedulable)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPageStore_LoadMissing(t *testing.T) {
	_, client := setupTestRedis(t)
	s := NewPageStore(client, time.Minute)

	_, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrPageNotFound)
}

func TestPageStore_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	s := NewPageStore(client, time.Minute)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))
	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrPageNotFound)
}

func TestPageStore_LoadCorrupt(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewPageStore(client, time.Minute)
	require.NoError(t, mr.Set("agentform:page:bad", "{not json"))

	_, err := s.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrPageNotFound)
}

func TestPageStore_DeleteAndActivePages(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	s := NewPageStore(client, time.Minute)

	require.NoError(t, s.Save(ctx, testSnapshot("p1")))
	require.NoError(t, s.Save(ctx, testSnapshot("p2")))
	require.NoError(t, s.Save(ctx, testSnapshot("p3")))

	require.NoError(t, s.Delete(ctx, "p2"))
	mr.Del("agentform:page:p3")

	active, err := s.ActivePages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, active)

	members, err := mr.Members("agentform:pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, members)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	members, err = mr.Members("agentform:pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, members)

	removed, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
