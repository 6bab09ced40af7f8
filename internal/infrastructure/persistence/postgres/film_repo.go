package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILM REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// FilmRepository implements film.Repository backed by PostgreSQL.
type FilmRepository struct {
	conn *Connection
}

// NewFilmRepository creates a PostgreSQL film repository.
func NewFilmRepository(conn *Connection) *FilmRepository {
	return &FilmRepository{conn: conn}
}

// Save inserts a new film and assigns its identifier. BIGSERIAL keeps
// identifier assignment monotonic across deletions.
func (r *FilmRepository) Save(ctx context.Context, f *film.Film) (*film.Film, error) {
	query := `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		f.Name,
		f.Description,
		f.ReleaseDate,
		f.Duration,
		f.MPA.ID,
	).Scan(&f.ID)
	if err != nil {
		return nil, shared.WrapError("film", "Save", shared.ErrStorageOperationFailed, "failed to insert film", err)
	}

	return f, nil
}

// Find returns a film by identifier. The second value reports presence.
func (r *FilmRepository) Find(ctx context.Context, id int64) (*film.Film, bool, error) {
	query := `
		SELECT id, name, description, release_date, duration, mpa_id
		FROM films
		WHERE id = $1
	`

	f := &film.Film{}
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.ReleaseDate,
		&f.Duration,
		&f.MPA.ID,
	)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("film", "Find", shared.ErrStorageOperationFailed, "failed to query film", err)
	}

	return f, true, nil
}

// GetAll returns all films ordered by identifier.
func (r *FilmRepository) GetAll(ctx context.Context) ([]*film.Film, error) {
	query := `
		SELECT id, name, description, release_date, duration, mpa_id
		FROM films
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, shared.WrapError("film", "GetAll", shared.ErrStorageOperationFailed, "failed to query films", err)
	}
	defer rows.Close()

	return scanFilms(rows)
}

// Update replaces the mutable fields of an existing film.
func (r *FilmRepository) Update(ctx context.Context, f *film.Film) error {
	query := `
		UPDATE films
		SET name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		f.ID,
		f.Name,
		f.Description,
		f.ReleaseDate,
		f.Duration,
		f.MPA.ID,
	)
	if err != nil {
		return shared.WrapError("film", "Update", shared.ErrStorageOperationFailed, "failed to update film", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("film", "Update", shared.ErrStorageOperationFailed,
			fmt.Sprintf("no rows affected for film %d", f.ID))
	}

	return nil
}

// Delete removes a film. Like edges and genre links cascade.
func (r *FilmRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return shared.WrapError("film", "Delete", shared.ErrStorageOperationFailed, "failed to delete film", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("film", "Delete", shared.ErrStorageOperationFailed,
			fmt.Sprintf("no rows affected for film %d", id))
	}

	return nil
}

func scanFilms(rows pgx.Rows) ([]*film.Film, error) {
	films := make([]*film.Film, 0)
	for rows.Next() {
		f := &film.Film{}
		if err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Description,
			&f.ReleaseDate,
			&f.Duration,
			&f.MPA.ID,
		); err != nil {
			return nil, shared.WrapError("film", "Scan", shared.ErrStorageOperationFailed, "failed to scan film row", err)
		}
		films = append(films, f)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("film", "Scan", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return films, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// LikeRepository implements film.LikeRepository backed by PostgreSQL.
// The (user_id, film_id) primary key makes both directions idempotent.
type LikeRepository struct {
	conn *Connection
}

// NewLikeRepository creates a PostgreSQL like repository.
func NewLikeRepository(conn *Connection) *LikeRepository {
	return &LikeRepository{conn: conn}
}

// Add inserts a like edge. Re-adding an existing like is a no-op.
func (r *LikeRepository) Add(ctx context.Context, filmID, userID int64) error {
	query := `
		INSERT INTO likes (user_id, film_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, film_id) DO NOTHING
	`

	if _, err := r.conn.Exec(ctx, query, userID, filmID); err != nil {
		return shared.WrapError("film", "AddLike", shared.ErrStorageOperationFailed, "failed to insert like", err)
	}

	return nil
}

// Remove deletes a like edge. Removing an absent like is a no-op.
func (r *LikeRepository) Remove(ctx context.Context, filmID, userID int64) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND film_id = $2`

	if _, err := r.conn.Exec(ctx, query, userID, filmID); err != nil {
		return shared.WrapError("film", "RemoveLike", shared.ErrStorageOperationFailed, "failed to delete like", err)
	}

	return nil
}

// CountForFilm returns the number of likes a film has.
func (r *LikeRepository) CountForFilm(ctx context.Context, filmID int64) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE film_id = $1`, filmID).Scan(&count)
	if err != nil {
		return 0, shared.WrapError("film", "CountLikes", shared.ErrStorageOperationFailed, "failed to count likes", err)
	}

	return count, nil
}

// Counts returns the like count for every film, zero-like films included.
// Used to rebuild the popularity cache.
func (r *LikeRepository) Counts(ctx context.Context) (map[int64]int, error) {
	query := `
		SELECT f.id, COUNT(l.user_id)
		FROM films f
		LEFT JOIN likes l ON l.film_id = f.id
		GROUP BY f.id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, shared.WrapError("film", "Counts", shared.ErrStorageOperationFailed, "failed to query like counts", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var filmID int64
		var count int
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, shared.WrapError("film", "Counts", shared.ErrStorageOperationFailed, "failed to scan count row", err)
		}
		counts[filmID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("film", "Counts", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return counts, nil
}

// MostPopular returns film identifiers ordered by like count descending,
// ties broken by ascending identifier. Zero-like films participate via
// the LEFT JOIN and come last.
func (r *LikeRepository) MostPopular(ctx context.Context, limit int) ([]int64, error) {
	query := `
		SELECT f.id
		FROM films f
		LEFT JOIN likes l ON l.film_id = f.id
		GROUP BY f.id
		ORDER BY COUNT(l.user_id) DESC, f.id ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, shared.WrapError("film", "MostPopular", shared.ErrStorageOperationFailed, "failed to query ranking", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("film", "MostPopular", shared.ErrStorageOperationFailed, "failed to scan ranking row", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("film", "MostPopular", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return ids, nil
}
