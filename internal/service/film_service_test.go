package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/domain/user"
	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/memory"
	"github.com/practicum-go/filmorate/pkg/logger"
)

func newFilmFixture(t *testing.T) (*FilmService, *UserService, *memory.Store) {
	t.Helper()
	store := memory.NewSeededStore()
	log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})

	films := NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), nil, log)
	users := NewUserService(store.Users(), store.Friendships(), log)
	return films, users, store
}

// discard глушит вывод логгера в тестах.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func filmPayload(name string) *film.Film {
	return &film.Film{
		Name:        name,
		Description: "описание",
		ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    120,
		MPA:         film.MPA{ID: 1},
		Genres:      []film.Genre{{ID: 1}, {ID: 2}},
	}
}

func userPayload(login string) *user.User {
	return &user.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: time.Date(1990, time.May, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilmServiceCreate(t *testing.T) {
	ctx := context.Background()
	films, _, _ := newFilmFixture(t)

	t.Run("create hydrates references", func(t *testing.T) {
		created, err := films.Create(ctx, filmPayload("Фильм"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "G", created.MPA.Name)
		require.Len(t, created.Genres, 2)
		assert.Equal(t, "Комедия", created.Genres[0].Name)
		assert.Equal(t, 0, created.Likes)
	})

	t.Run("invalid film rejected", func(t *testing.T) {
		bad := filmPayload("")
		_, err := films.Create(ctx, bad)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("unknown mpa reference rejected", func(t *testing.T) {
		bad := filmPayload("Фильм")
		bad.MPA = film.MPA{ID: 99}
		_, err := films.Create(ctx, bad)
		assert.ErrorIs(t, err, shared.ErrMPANotFound)
	})

	t.Run("unknown genre reference rejected", func(t *testing.T) {
		bad := filmPayload("Фильм")
		bad.Genres = []film.Genre{{ID: 99}}
		_, err := films.Create(ctx, bad)
		assert.ErrorIs(t, err, shared.ErrGenreNotFound)
	})

	t.Run("duplicate genres collapsed", func(t *testing.T) {
		f := filmPayload("Фильм с дублями")
		f.Genres = []film.Genre{{ID: 1}, {ID: 2}, {ID: 1}}
		created, err := films.Create(ctx, f)
		require.NoError(t, err)
		assert.Len(t, created.Genres, 2)
	})
}

func TestFilmServiceUpdate(t *testing.T) {
	ctx := context.Background()
	films, _, _ := newFilmFixture(t)

	created, err := films.Create(ctx, filmPayload("Исходный"))
	require.NoError(t, err)

	t.Run("unknown id is not found, no mutation", func(t *testing.T) {
		payload := filmPayload("Не существует")
		payload.ID = 404
		_, err := films.Update(ctx, payload)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		got, err := films.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Исходный", got.Name)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		payload := filmPayload("Без id")
		_, err := films.Update(ctx, payload)
		assert.ErrorIs(t, err, shared.ErrInvalidID)
	})

	t.Run("update replaces mutable fields", func(t *testing.T) {
		payload := filmPayload("Обновлённый")
		payload.ID = created.ID
		payload.MPA = film.MPA{ID: 2}

		updated, err := films.Update(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, "Обновлённый", updated.Name)
		assert.Equal(t, "PG", updated.MPA.Name)
	})
}

func TestFilmServiceLikes(t *testing.T) {
	ctx := context.Background()
	films, users, _ := newFilmFixture(t)

	f, err := films.Create(ctx, filmPayload("Фильм"))
	require.NoError(t, err)
	u, err := users.Create(ctx, userPayload("liker"))
	require.NoError(t, err)

	t.Run("like from unknown user rejected, count unchanged", func(t *testing.T) {
		_, err := films.AddLike(ctx, f.ID, 404)
		assert.ErrorIs(t, err, shared.ErrUserNotFound)

		got, err := films.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Likes)
	})

	t.Run("like on unknown film rejected", func(t *testing.T) {
		_, err := films.AddLike(ctx, 404, u.ID)
		assert.ErrorIs(t, err, shared.ErrFilmNotFound)
	})

	t.Run("add like is idempotent", func(t *testing.T) {
		got, err := films.AddLike(ctx, f.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Likes)

		got, err = films.AddLike(ctx, f.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Likes)
	})

	t.Run("remove like is idempotent", func(t *testing.T) {
		got, err := films.DeleteLike(ctx, f.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Likes)

		got, err = films.DeleteLike(ctx, f.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Likes)
	})
}

func TestFilmServiceMostPopular(t *testing.T) {
	ctx := context.Background()
	films, users, _ := newFilmFixture(t)

	f1, err := films.Create(ctx, filmPayload("Один лайк"))
	require.NoError(t, err)
	f2, err := films.Create(ctx, filmPayload("Два лайка"))
	require.NoError(t, err)
	f3, err := films.Create(ctx, filmPayload("Без лайков"))
	require.NoError(t, err)

	u1, err := users.Create(ctx, userPayload("u1"))
	require.NoError(t, err)
	u2, err := users.Create(ctx, userPayload("u2"))
	require.NoError(t, err)

	_, err = films.AddLike(ctx, f1.ID, u1.ID)
	require.NoError(t, err)
	_, err = films.AddLike(ctx, f2.ID, u1.ID)
	require.NoError(t, err)
	_, err = films.AddLike(ctx, f2.ID, u2.ID)
	require.NoError(t, err)

	t.Run("ordered by likes desc, zero-like films included", func(t *testing.T) {
		popular, err := films.MostPopular(ctx, 10)
		require.NoError(t, err)
		require.Len(t, popular, 3)
		assert.Equal(t, f2.ID, popular[0].ID)
		assert.Equal(t, f1.ID, popular[1].ID)
		assert.Equal(t, f3.ID, popular[2].ID)
		assert.Equal(t, 2, popular[0].Likes)
	})

	t.Run("limit truncates", func(t *testing.T) {
		popular, err := films.MostPopular(ctx, 1)
		require.NoError(t, err)
		require.Len(t, popular, 1)
		assert.Equal(t, f2.ID, popular[0].ID)
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		popular, err := films.MostPopular(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, popular, 3)
	})

	t.Run("removing a like reorders the ranking", func(t *testing.T) {
		_, err := films.DeleteLike(ctx, f2.ID, u1.ID)
		require.NoError(t, err)
		_, err = films.DeleteLike(ctx, f2.ID, u2.ID)
		require.NoError(t, err)

		popular, err := films.MostPopular(ctx, 10)
		require.NoError(t, err)
		// f1 теперь единственный с лайком; при равенстве — возрастание id.
		assert.Equal(t, f1.ID, popular[0].ID)
		assert.Equal(t, f2.ID, popular[1].ID)
		assert.Equal(t, f3.ID, popular[2].ID)
	})
}

func TestFilmServiceDelete(t *testing.T) {
	ctx := context.Background()
	films, _, _ := newFilmFixture(t)

	f, err := films.Create(ctx, filmPayload("Удаляемый"))
	require.NoError(t, err)

	require.NoError(t, films.Delete(ctx, f.ID))

	_, err = films.GetByID(ctx, f.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, films.Delete(ctx, f.ID), shared.ErrNotFound)
}

// stubRanking реализует PopularityCache поверх заранее заданного ответа.
type stubRanking struct {
	top      []int64
	topErr   error
	rebuilds int
	sets     int
	removed  []int64
}

func (s *stubRanking) Top(ctx context.Context, limit int) ([]int64, error) {
	if s.topErr != nil {
		return nil, s.topErr
	}
	if limit < len(s.top) {
		return s.top[:limit], nil
	}
	return s.top, nil
}

func (s *stubRanking) Rebuild(ctx context.Context, counts map[int64]int) error {
	s.rebuilds++
	return nil
}

func (s *stubRanking) SetCount(ctx context.Context, filmID int64, count int) error {
	s.sets++
	return nil
}

func (s *stubRanking) RemoveFilm(ctx context.Context, filmID int64) error {
	s.removed = append(s.removed, filmID)
	return nil
}

func TestFilmServiceRankingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit serves ranking", func(t *testing.T) {
		store := memory.NewSeededStore()
		log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
		ranking := &stubRanking{}
		films := NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), ranking, log)

		f1, err := films.Create(ctx, filmPayload("А"))
		require.NoError(t, err)
		f2, err := films.Create(ctx, filmPayload("Б"))
		require.NoError(t, err)

		// Кеш отдаёт порядок, противоположный порядку хранилища.
		ranking.top = []int64{f2.ID, f1.ID}

		popular, err := films.MostPopular(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, f2.ID, popular[0].ID)
		assert.Equal(t, f1.ID, popular[1].ID)
		assert.Equal(t, 0, ranking.rebuilds)
	})

	t.Run("cache miss falls back to storage and rebuilds", func(t *testing.T) {
		store := memory.NewSeededStore()
		log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
		ranking := &stubRanking{topErr: assert.AnError}
		films := NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), ranking, log)

		f1, err := films.Create(ctx, filmPayload("А"))
		require.NoError(t, err)

		popular, err := films.MostPopular(ctx, 10)
		require.NoError(t, err)
		require.Len(t, popular, 1)
		assert.Equal(t, f1.ID, popular[0].ID)
		assert.Equal(t, 1, ranking.rebuilds)
	})

	t.Run("ranked id failing to resolve is a storage fault", func(t *testing.T) {
		store := memory.NewSeededStore()
		log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
		ranking := &stubRanking{top: []int64{404}}
		films := NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), ranking, log)

		_, err := films.MostPopular(ctx, 10)
		assert.ErrorIs(t, err, shared.ErrStorageInconsistency)
	})

	t.Run("delete evicts film from ranking", func(t *testing.T) {
		store := memory.NewSeededStore()
		log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})
		ranking := &stubRanking{}
		films := NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), ranking, log)

		f, err := films.Create(ctx, filmPayload("Удаляемый"))
		require.NoError(t, err)
		require.NoError(t, films.Delete(ctx, f.ID))
		assert.Equal(t, []int64{f.ID}, ranking.removed)
	})
}
