package cars

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/cars/database"
	"github.com/tomoncle/cars/model"
	"github.com/tomoncle/cars/repository"
)

func sqliteConfig(name string) *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:" + name + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.HealthCheckInterval = 0
	return cfg
}

func TestOpenMigratesAndServes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	store, err := Open(ctx, sqliteConfig(t.Name()), repository.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	defer func() { assert.NoError(t, store.Close()) }()

	owner := &model.Owner{Name: "Anna"}
	require.NoError(t, store.Owners.Save(ctx, owner))

	car := &model.Car{Name: "Volvo", Engine: &model.Engine{Name: "B4204"}}
	require.NoError(t, store.Cars.Create(ctx, car))

	post, err := store.Posts.Create(ctx, &model.Post{Description: "family car", CarID: &car.ID})
	require.NoError(t, err)

	posts, err := store.Posts.FindPostsLastDay(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	health := store.Health(ctx)
	assert.True(t, health.Healthy)
	assert.True(t, health.Connected)
}

func TestOpenRejectsNilConfig(t *testing.T) {
	store, err := Open(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := sqliteConfig(t.Name())
	cfg.ConnectionConfig.Type = "oracle"
	store, err := Open(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewStoreDoesNotOwnConnection(t *testing.T) {
	store := NewStore(nil)
	assert.NoError(t, store.Close())
	assert.False(t, store.Health(context.Background()).Healthy)
}
