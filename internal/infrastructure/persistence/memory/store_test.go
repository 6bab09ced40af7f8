package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/user"
)

func testFilm(name string) *film.Film {
	return &film.Film{
		Name:        name,
		Description: "описание",
		ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    120,
		MPA:         film.MPA{ID: 1},
	}
}

func testUser(login string) *user.User {
	return &user.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilmRepoIdentityMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()

	first, err := films.Save(ctx, testFilm("Первый"))
	require.NoError(t, err)
	second, err := films.Save(ctx, testFilm("Второй"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	// Deleting the row with the maximum key must not free its id.
	require.NoError(t, films.Delete(ctx, second.ID))

	third, err := films.Save(ctx, testFilm("Третий"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
}

func TestUserRepoIdentityMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	a, err := users.Save(ctx, testUser("a"))
	require.NoError(t, err)
	b, err := users.Save(ctx, testUser("b"))
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, b.ID))

	c, err := users.Save(ctx, testUser("c"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestFilmRepoFindAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	f, found, err := store.Films().Find(ctx, 404)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, f)
}

func TestLikeRepoIdempotence(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()
	likes := store.Likes()

	f, err := films.Save(ctx, testFilm("Фильм"))
	require.NoError(t, err)

	require.NoError(t, likes.Add(ctx, f.ID, 10))
	require.NoError(t, likes.Add(ctx, f.ID, 10)) // duplicate add is a no-op

	count, err := likes.CountForFilm(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, likes.Remove(ctx, f.ID, 10))
	require.NoError(t, likes.Remove(ctx, f.ID, 10)) // removing an absent like is a no-op

	count, err = likes.CountForFilm(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLikeRepoMostPopular(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()
	likes := store.Likes()

	f1, _ := films.Save(ctx, testFilm("Один лайк"))
	f2, _ := films.Save(ctx, testFilm("Два лайка"))
	f3, _ := films.Save(ctx, testFilm("Без лайков"))

	require.NoError(t, likes.Add(ctx, f1.ID, 100))
	require.NoError(t, likes.Add(ctx, f2.ID, 100))
	require.NoError(t, likes.Add(ctx, f2.ID, 101))

	ids, err := likes.MostPopular(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{f2.ID, f1.ID, f3.ID}, ids)

	// Truncated to limit.
	ids, err = likes.MostPopular(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{f2.ID, f1.ID}, ids)
}

func TestLikeRepoMostPopularTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()

	f1, _ := films.Save(ctx, testFilm("А"))
	f2, _ := films.Save(ctx, testFilm("Б"))
	f3, _ := films.Save(ctx, testFilm("В"))

	// All zero likes: ordering falls back to ascending id.
	ids, err := store.Likes().MostPopular(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{f1.ID, f2.ID, f3.ID}, ids)
}

func TestLikeRepoCountsIncludesZero(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()

	f1, _ := films.Save(ctx, testFilm("А"))
	f2, _ := films.Save(ctx, testFilm("Б"))
	require.NoError(t, store.Likes().Add(ctx, f1.ID, 1))

	counts, err := store.Likes().Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{f1.ID: 1, f2.ID: 0}, counts)
}

func TestFilmDeleteCascadesLikes(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	films := store.Films()
	likes := store.Likes()

	f, _ := films.Save(ctx, testFilm("Фильм"))
	require.NoError(t, likes.Add(ctx, f.ID, 1))
	require.NoError(t, films.Delete(ctx, f.ID))

	count, err := likes.CountForFilm(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFriendshipRepoEdgePrimitives(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	friendships := store.Friendships()

	require.NoError(t, friendships.AddEdge(ctx, 1, 2))

	edge, found, err := friendships.Edge(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, user.StatusPending, edge.Status)

	// No reverse edge yet.
	_, found, err = friendships.Edge(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, found)

	// Re-adding must not reset the status.
	require.NoError(t, friendships.SetStatus(ctx, 1, 2, user.StatusApproved))
	require.NoError(t, friendships.AddEdge(ctx, 1, 2))

	edge, _, err = friendships.Edge(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, user.StatusApproved, edge.Status)

	removed, err := friendships.RemoveEdge(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = friendships.RemoveEdge(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFriendshipRepoSetStatusMissingEdge(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Friendships().SetStatus(ctx, 1, 2, user.StatusApproved)
	assert.Error(t, err)
}

func TestFriendshipRepoCommonFriendIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	friendships := store.Friendships()

	require.NoError(t, friendships.AddEdge(ctx, 1, 3))
	require.NoError(t, friendships.AddEdge(ctx, 1, 4))
	require.NoError(t, friendships.AddEdge(ctx, 2, 3))
	require.NoError(t, friendships.AddEdge(ctx, 2, 5))

	common, err := friendships.CommonFriendIDs(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, common)

	// Symmetric.
	common, err = friendships.CommonFriendIDs(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, common)
}

func TestUserDeleteCascadesEdges(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()
	users := store.Users()
	friendships := store.Friendships()

	a, _ := users.Save(ctx, testUser("a"))
	b, _ := users.Save(ctx, testUser("b"))
	require.NoError(t, friendships.AddEdge(ctx, a.ID, b.ID))
	require.NoError(t, friendships.AddEdge(ctx, b.ID, a.ID))

	f, _ := store.Films().Save(ctx, testFilm("Фильм"))
	require.NoError(t, store.Likes().Add(ctx, f.ID, a.ID))

	require.NoError(t, users.Delete(ctx, a.ID))

	// Both directions are gone.
	_, found, err := friendships.Edge(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = friendships.Edge(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, found)

	count, err := store.Likes().CountForFilm(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSeededStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	genres, err := store.Genres().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 6)
	assert.Equal(t, "Комедия", genres[0].Name)

	ratings, err := store.MPA().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, ratings, 5)
	assert.Equal(t, "G", ratings[0].Name)
	assert.Equal(t, "NC-17", ratings[4].Name)
}
