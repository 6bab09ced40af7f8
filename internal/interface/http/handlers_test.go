package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/memory"
	"github.com/practicum-go/filmorate/internal/service"
	"github.com/practicum-go/filmorate/pkg/logger"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewSeededStore()
	log := logger.New(logger.Options{Output: discard{}, Level: logger.LevelError})

	films := service.NewFilmService(store.Films(), store.Likes(), store.Genres(), store.MPA(), store.Users(), nil, log)
	users := service.NewUserService(store.Users(), store.Friendships(), log)
	genres := service.NewGenreService(store.Genres(), log)
	mpa := service.NewMPAService(store.MPA(), log)

	cfg := DefaultConfig()
	return NewServer(cfg, Dependencies{
		Films:  films,
		Users:  users,
		Genres: genres,
		MPA:    mpa,
		Logger: log,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func filmBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "описание",
		"releaseDate": "1999-03-31",
		"duration":    136,
		"mpa":         map[string]any{"id": 4},
		"genres":      []map[string]any{{"id": 4}},
	}
}

func userBody(login string) map[string]any {
	return map[string]any{
		"email":    login + "@example.com",
		"login":    login,
		"name":     "",
		"birthday": "1990-05-05",
	}
}

func TestFilmEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create film", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/films", filmBody("Матрица"))
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decode[filmPayload](t, rec)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Матрица", created.Name)
		assert.Equal(t, "1999-03-31", created.ReleaseDate.Format(dateLayout))
		assert.Equal(t, "R", created.MPA.Name)
		require.Len(t, created.Genres, 1)
		assert.Equal(t, "Триллер", created.Genres[0].Name)
	})

	t.Run("invalid film rejected", func(t *testing.T) {
		body := filmBody("")
		rec := doJSON(t, srv, http.MethodPost, "/films", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("release date before 1895-12-28 rejected", func(t *testing.T) {
		body := filmBody("Слишком ранний")
		body["releaseDate"] = "1895-12-27"
		rec := doJSON(t, srv, http.MethodPost, "/films", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get film", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[filmPayload](t, rec)
		assert.Equal(t, "Матрица", got.Name)
	})

	t.Run("unknown film is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update film", func(t *testing.T) {
		body := filmBody("Матрица: Перезагрузка")
		body["id"] = 1
		rec := doJSON(t, srv, http.MethodPut, "/films", body)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[filmPayload](t, rec)
		assert.Equal(t, "Матрица: Перезагрузка", got.Name)
	})

	t.Run("update of unknown film is 404", func(t *testing.T) {
		body := filmBody("Призрак")
		body["id"] = 404
		rec := doJSON(t, srv, http.MethodPut, "/films", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list films", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]filmPayload](t, rec)
		assert.Len(t, list, 1)
	})
}

func TestLikeAndPopularEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"Первый", "Второй"} {
		rec := doJSON(t, srv, http.MethodPost, "/films", filmBody(name))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	for _, login := range []string{"u1", "u2"} {
		rec := doJSON(t, srv, http.MethodPost, "/users", userBody(login))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("like from unknown user is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/films/1/like/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("add likes", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/films/2/like/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = doJSON(t, srv, http.MethodPut, "/films/2/like/2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[filmPayload](t, rec)
		assert.Equal(t, 2, got.Likes)
	})

	t.Run("popular ordering", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films/popular?count=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]filmPayload](t, rec)
		require.Len(t, list, 2)
		assert.Equal(t, int64(2), list[0].ID)
		assert.Equal(t, int64(1), list[1].ID)
	})

	t.Run("popular respects count", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/films/popular?count=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]filmPayload](t, rec)
		assert.Len(t, list, 1)
	})

	t.Run("remove like", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/films/2/like/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[filmPayload](t, rec)
		assert.Equal(t, 1, got.Likes)
	})
}

func TestUserEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create user substitutes login for empty name", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/users", userBody("nick"))
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decode[userPayload](t, rec)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "nick", created.Name)
		assert.Equal(t, "1990-05-05", created.Birthday.Format(dateLayout))
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		body := userBody("bad")
		body["email"] = "not-an-email"
		rec := doJSON(t, srv, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update user", func(t *testing.T) {
		body := userBody("renamed")
		body["id"] = 1
		body["name"] = "Переименованный"
		rec := doJSON(t, srv, http.MethodPut, "/users", body)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[userPayload](t, rec)
		assert.Equal(t, "Переименованный", got.Name)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFriendEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, login := range []string{"a", "b", "c"} {
		rec := doJSON(t, srv, http.MethodPost, "/users", userBody(login))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("add friend", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/users/1/friends/2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[userPayload](t, rec)
		assert.Equal(t, []int64{2}, got.Friends)
	})

	t.Run("friend list is one-sided", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/1/friends", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		friends := decode[[]userPayload](t, rec)
		require.Len(t, friends, 1)
		assert.Equal(t, int64(2), friends[0].ID)

		rec = doJSON(t, srv, http.MethodGet, "/users/2/friends", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		friends = decode[[]userPayload](t, rec)
		assert.Empty(t, friends)
	})

	t.Run("common friends", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/users/1/friends/3", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = doJSON(t, srv, http.MethodPut, "/users/2/friends/3", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, srv, http.MethodGet, "/users/1/friends/common/2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		common := decode[[]userPayload](t, rec)
		require.Len(t, common, 1)
		assert.Equal(t, int64(3), common[0].ID)
	})

	t.Run("delete friend", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/users/1/friends/2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[userPayload](t, rec)
		assert.NotContains(t, got.Friends, int64(2))
	})

	t.Run("friendship with unknown user is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/users/1/friends/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLookupEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("genres seeded", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/genres", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		genres := decode[[]map[string]any](t, rec)
		assert.Len(t, genres, 6)
	})

	t.Run("genre by id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/genres/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		genre := decode[map[string]any](t, rec)
		assert.Equal(t, "Комедия", genre["name"])
	})

	t.Run("unknown genre is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/genres/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("mpa seeded", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/mpa", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		ratings := decode[[]map[string]any](t, rec)
		assert.Len(t, ratings, 5)
	})

	t.Run("mpa by id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/mpa/5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rating := decode[map[string]any](t, rec)
		assert.Equal(t, "NC-17", rating["name"])
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[healthStatus](t, rec)
	assert.Equal(t, "ok", status.Status)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generated when absent", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/health", nil)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "test-id-123")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, "test-id-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"1967-03-25"`), &d))
		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"1967-03-25"`, string(out))
	})

	t.Run("timestamp format rejected", func(t *testing.T) {
		var d Date
		err := json.Unmarshal([]byte(`"1967-03-25T00:00:00Z"`), &d)
		assert.Error(t, err)
	})
}

func TestDeleteEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/films", filmBody("Удаляемый"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, srv, http.MethodPost, "/users", userBody("victim"))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("delete film", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/films/1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, srv, http.MethodGet, "/films/1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/users/1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/users/%d", 1), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
