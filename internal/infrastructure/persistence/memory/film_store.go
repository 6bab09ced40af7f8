package memory

import (
	"context"
	"sort"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// FILM REPOSITORY
// ─────────────────────────────────────────────────────────────────────────────

type filmRepo struct {
	s *Store
}

func (r *filmRepo) Save(ctx context.Context, f *film.Film) (*film.Film, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *f
	stored.ID = r.s.nextFilmID()
	r.s.filmIDFloor = stored.ID
	r.s.films[stored.ID] = stored
	if len(stored.Genres) > 0 {
		r.s.filmGenres[stored.ID] = append([]film.Genre(nil), stored.Genres...)
	}

	result := stored
	return &result, nil
}

func (r *filmRepo) Find(ctx context.Context, id int64) (*film.Film, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.films[id]
	if !ok {
		return nil, false, nil
	}
	result := f
	return &result, true, nil
}

func (r *filmRepo) GetAll(ctx context.Context) ([]*film.Film, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*film.Film, 0, len(r.s.films))
	for _, f := range r.s.films {
		f := f
		result = append(result, &f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *filmRepo) Update(ctx context.Context, f *film.Film) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[f.ID]; !ok {
		return shared.WrapError("film", "Update", shared.ErrStorageOperationFailed, "no rows affected", nil)
	}
	r.s.films[f.ID] = *f
	return nil
}

func (r *filmRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.films, id)
	delete(r.s.filmGenres, id)

	// Eager cascade, mirroring the ON DELETE CASCADE constraints of the
	// relational variant.
	for key := range r.s.likes {
		if key.FilmID == id {
			delete(r.s.likes, key)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// LIKE INDEX
// ─────────────────────────────────────────────────────────────────────────────

type likeRepo struct {
	s *Store
}

func (r *likeRepo) Add(ctx context.Context, filmID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.likes[likeKey{FilmID: filmID, UserID: userID}] = struct{}{}
	return nil
}

func (r *likeRepo) Remove(ctx context.Context, filmID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.likes, likeKey{FilmID: filmID, UserID: userID})
	return nil
}

func (r *likeRepo) CountForFilm(ctx context.Context, filmID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for key := range r.s.likes {
		if key.FilmID == filmID {
			count++
		}
	}
	return count, nil
}

func (r *likeRepo) Counts(ctx context.Context) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int, len(r.s.films))
	for id := range r.s.films {
		counts[id] = 0
	}
	for key := range r.s.likes {
		if _, ok := counts[key.FilmID]; ok {
			counts[key.FilmID]++
		}
	}
	return counts, nil
}

func (r *likeRepo) MostPopular(ctx context.Context, limit int) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int, len(r.s.films))
	for id := range r.s.films {
		counts[id] = 0
	}
	for key := range r.s.likes {
		if _, ok := counts[key.FilmID]; ok {
			counts[key.FilmID]++
		}
	}

	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	// Descending like count; ascending film id breaks ties so the
	// ordering is deterministic.
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GENRE REPOSITORY
// ─────────────────────────────────────────────────────────────────────────────

type genreRepo struct {
	s *Store
}

func (r *genreRepo) Save(ctx context.Context, g *film.Genre) (*film.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var max int64
	for id := range r.s.genres {
		if id > max {
			max = id
		}
	}
	stored := *g
	stored.ID = max + 1
	r.s.genres[stored.ID] = stored
	result := stored
	return &result, nil
}

func (r *genreRepo) Find(ctx context.Context, id int64) (*film.Genre, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.genres[id]
	if !ok {
		return nil, false, nil
	}
	result := g
	return &result, true, nil
}

func (r *genreRepo) GetAll(ctx context.Context) ([]*film.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*film.Genre, 0, len(r.s.genres))
	for _, g := range r.s.genres {
		g := g
		result = append(result, &g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *genreRepo) FindForFilm(ctx context.Context, filmID int64) ([]film.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	refs := r.s.filmGenres[filmID]
	result := make([]film.Genre, 0, len(refs))
	for _, ref := range refs {
		if g, ok := r.s.genres[ref.ID]; ok {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *genreRepo) ReplaceForFilm(ctx context.Context, filmID int64, genres []film.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(genres) == 0 {
		delete(r.s.filmGenres, filmID)
		return nil
	}
	r.s.filmGenres[filmID] = append([]film.Genre(nil), genres...)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MPA REPOSITORY
// ─────────────────────────────────────────────────────────────────────────────

type mpaRepo struct {
	s *Store
}

func (r *mpaRepo) Save(ctx context.Context, m *film.MPA) (*film.MPA, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var max int64
	for id := range r.s.mpa {
		if id > max {
			max = id
		}
	}
	stored := *m
	stored.ID = max + 1
	r.s.mpa[stored.ID] = stored
	result := stored
	return &result, nil
}

func (r *mpaRepo) Find(ctx context.Context, id int64) (*film.MPA, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.mpa[id]
	if !ok {
		return nil, false, nil
	}
	result := m
	return &result, true, nil
}

func (r *mpaRepo) GetAll(ctx context.Context) ([]*film.MPA, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*film.MPA, 0, len(r.s.mpa))
	for _, m := range r.s.mpa {
		m := m
		result = append(result, &m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
