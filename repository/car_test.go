package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/cars/model"
)

func TestCarRepositoryCreatesEngine(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepository(newTestSession(t))

	car := &model.Car{Name: "Lada", Engine: &model.Engine{Name: "VAZ-21126"}}
	require.NoError(t, repo.Create(ctx, car))
	assert.NotZero(t, car.ID)
	assert.NotZero(t, car.Engine.ID)
	require.NotNil(t, car.EngineID)
	assert.Equal(t, car.Engine.ID, *car.EngineID)

	found, err := repo.FindByID(ctx, car.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Engine)
	assert.Equal(t, "VAZ-21126", found.Engine.Name)

	shared := &model.Car{Name: "Lada", Engine: car.Engine}
	require.NoError(t, repo.Create(ctx, shared))
	assert.Equal(t, car.Engine.ID, *shared.EngineID)

	byName, err := repo.FindByName(ctx, "Lada")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	none, err := repo.FindByName(ctx, "Volga")
	require.NoError(t, err)
	assert.Empty(t, none)
}
