package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/memory"
	"github.com/practicum-go/filmorate/pkg/logger"
)

func TestGenreService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
	genres := NewGenreService(store.Genres(), log)

	t.Run("get all returns seeded rows in order", func(t *testing.T) {
		all, err := genres.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 6)
		assert.Equal(t, "Комедия", all[0].Name)
		assert.Equal(t, "Боевик", all[5].Name)
	})

	t.Run("get by id", func(t *testing.T) {
		g, err := genres.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Драма", g.Name)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := genres.GetByID(ctx, 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("create rejects empty name", func(t *testing.T) {
		_, err := genres.Create(ctx, &film.Genre{})
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("create assigns next id", func(t *testing.T) {
		g, err := genres.Create(ctx, &film.Genre{Name: "Нуар"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), g.ID)
	})
}

func TestMPAService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
	mpa := NewMPAService(store.MPA(), log)

	t.Run("get all returns seeded rows in order", func(t *testing.T) {
		all, err := mpa.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "G", all[0].Name)
		assert.Equal(t, "NC-17", all[4].Name)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := mpa.GetByID(ctx, 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("create rejects empty name", func(t *testing.T) {
		_, err := mpa.Create(ctx, &film.MPA{})
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})
}
