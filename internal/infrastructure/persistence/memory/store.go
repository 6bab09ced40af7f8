// Package memory implements the in-memory persistence variant.
//
// A single Store owns every map and a single mutex, so identity assignment
// (1 + current maximum key) and the insert happen as one atomic step, and
// deleting a film or user can drop its like and friendship edges in the
// same critical section. The Store is passed by reference to the service
// layer; there is no package-level shared state.
package memory

import (
	"sync"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/user"
)

// likeKey identifies a like edge.
type likeKey struct {
	FilmID int64
	UserID int64
}

// edgeKey identifies a directed friendship edge.
type edgeKey struct {
	UserID   int64
	FriendID int64
}

// Store holds all application data in memory. It is safe for concurrent
// use: every repository view locks the shared mutex before touching data.
type Store struct {
	mu sync.RWMutex

	films      map[int64]film.Film
	users      map[int64]user.User
	genres     map[int64]film.Genre
	mpa        map[int64]film.MPA
	filmGenres map[int64][]film.Genre

	likes       map[likeKey]struct{}
	friendships map[edgeKey]user.FriendshipEdge

	// Highest identity ever assigned, so 1+max stays monotonic even
	// after the row holding the maximum key is deleted.
	filmIDFloor int64
	userIDFloor int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		films:       make(map[int64]film.Film),
		users:       make(map[int64]user.User),
		genres:      make(map[int64]film.Genre),
		mpa:         make(map[int64]film.MPA),
		filmGenres:  make(map[int64][]film.Genre),
		likes:       make(map[likeKey]struct{}),
		friendships: make(map[edgeKey]user.FriendshipEdge),
	}
}

// NewSeededStore creates a store pre-filled with the canonical genre and
// MPA lookup rows, matching what the SQL migrations seed.
func NewSeededStore() *Store {
	s := NewStore()
	for i, name := range []string{"Комедия", "Драма", "Мультфильм", "Триллер", "Документальный", "Боевик"} {
		id := int64(i + 1)
		s.genres[id] = film.Genre{ID: id, Name: name}
	}
	for i, name := range []string{"G", "PG", "PG-13", "R", "NC-17"} {
		id := int64(i + 1)
		s.mpa[id] = film.MPA{ID: id, Name: name}
	}
	return s
}

// Films returns the film repository view of the store.
func (s *Store) Films() film.Repository { return &filmRepo{s: s} }

// Likes returns the like index view of the store.
func (s *Store) Likes() film.LikeRepository { return &likeRepo{s: s} }

// Genres returns the genre repository view of the store.
func (s *Store) Genres() film.GenreRepository { return &genreRepo{s: s} }

// MPA returns the MPA rating repository view of the store.
func (s *Store) MPA() film.MPARepository { return &mpaRepo{s: s} }

// Users returns the user repository view of the store.
func (s *Store) Users() user.Repository { return &userRepo{s: s} }

// Friendships returns the friendship graph view of the store.
func (s *Store) Friendships() user.FriendshipRepository { return &friendshipRepo{s: s} }

// nextFilmID computes the next film identity. Caller must hold s.mu.
// Identities are monotonic within a process lifetime: deletes never free
// an id for reuse because the maximum observed key only grows.
func (s *Store) nextFilmID() int64 {
	var max int64
	for id := range s.films {
		if id > max {
			max = id
		}
	}
	if max < s.filmIDFloor {
		max = s.filmIDFloor
	}
	return max + 1
}

// nextUserID computes the next user identity. Caller must hold s.mu.
func (s *Store) nextUserID() int64 {
	var max int64
	for id := range s.users {
		if id > max {
			max = id
		}
	}
	if max < s.userIDFloor {
		max = s.userIDFloor
	}
	return max + 1
}
