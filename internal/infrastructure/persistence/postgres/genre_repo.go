package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENRE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// GenreRepository implements film.GenreRepository backed by PostgreSQL.
type GenreRepository struct {
	conn *Connection
}

// NewGenreRepository creates a PostgreSQL genre repository.
func NewGenreRepository(conn *Connection) *GenreRepository {
	return &GenreRepository{conn: conn}
}

// Save inserts a new genre.
func (r *GenreRepository) Save(ctx context.Context, g *film.Genre) (*film.Genre, error) {
	query := `INSERT INTO genres (name) VALUES ($1) RETURNING id`

	if err := r.conn.QueryRow(ctx, query, g.Name).Scan(&g.ID); err != nil {
		if IsUniqueViolation(err) {
			return nil, shared.WrapError("genre", "Save", shared.ErrAlreadyExists, "genre name already exists", err)
		}
		return nil, shared.WrapError("genre", "Save", shared.ErrStorageOperationFailed, "failed to insert genre", err)
	}

	return g, nil
}

// Find returns a genre by identifier.
func (r *GenreRepository) Find(ctx context.Context, id int64) (*film.Genre, bool, error) {
	g := &film.Genre{}
	err := r.conn.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("genre", "Find", shared.ErrStorageOperationFailed, "failed to query genre", err)
	}

	return g, true, nil
}

// GetAll returns all genres ordered by identifier.
func (r *GenreRepository) GetAll(ctx context.Context) ([]*film.Genre, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, shared.WrapError("genre", "GetAll", shared.ErrStorageOperationFailed, "failed to query genres", err)
	}
	defer rows.Close()

	genres := make([]*film.Genre, 0)
	for rows.Next() {
		g := &film.Genre{}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, shared.WrapError("genre", "GetAll", shared.ErrStorageOperationFailed, "failed to scan genre row", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("genre", "GetAll", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return genres, nil
}

// FindForFilm returns the genres linked to a film, ascending by id.
func (r *GenreRepository) FindForFilm(ctx context.Context, filmID int64) ([]film.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN films_genres fg ON fg.genre_id = g.id
		WHERE fg.film_id = $1
		ORDER BY g.id
	`

	rows, err := r.conn.Query(ctx, query, filmID)
	if err != nil {
		return nil, shared.WrapError("genre", "FindForFilm", shared.ErrStorageOperationFailed, "failed to query film genres", err)
	}
	defer rows.Close()

	genres := make([]film.Genre, 0)
	for rows.Next() {
		var g film.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, shared.WrapError("genre", "FindForFilm", shared.ErrStorageOperationFailed, "failed to scan genre row", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("genre", "FindForFilm", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return genres, nil
}

// ReplaceForFilm replaces the film's genre set atomically.
func (r *GenreRepository) ReplaceForFilm(ctx context.Context, filmID int64, genres []film.Genre) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM films_genres WHERE film_id = $1`, filmID); err != nil {
			return err
		}
		if len(genres) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, g := range genres {
			batch.Queue(
				`INSERT INTO films_genres (film_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				filmID, g.ID,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range genres {
			if _, err := results.Exec(); err != nil {
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		return shared.WrapError("genre", "ReplaceForFilm", shared.ErrStorageOperationFailed, "failed to replace film genres", err)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MPA REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MPARepository implements film.MPARepository backed by PostgreSQL.
type MPARepository struct {
	conn *Connection
}

// NewMPARepository creates a PostgreSQL MPA repository.
func NewMPARepository(conn *Connection) *MPARepository {
	return &MPARepository{conn: conn}
}

// Save inserts a new MPA rating.
func (r *MPARepository) Save(ctx context.Context, m *film.MPA) (*film.MPA, error) {
	query := `INSERT INTO mpa (name) VALUES ($1) RETURNING id`

	if err := r.conn.QueryRow(ctx, query, m.Name).Scan(&m.ID); err != nil {
		if IsUniqueViolation(err) {
			return nil, shared.WrapError("mpa", "Save", shared.ErrAlreadyExists, "MPA name already exists", err)
		}
		return nil, shared.WrapError("mpa", "Save", shared.ErrStorageOperationFailed, "failed to insert MPA rating", err)
	}

	return m, nil
}

// Find returns an MPA rating by identifier.
func (r *MPARepository) Find(ctx context.Context, id int64) (*film.MPA, bool, error) {
	m := &film.MPA{}
	err := r.conn.QueryRow(ctx, `SELECT id, name FROM mpa WHERE id = $1`, id).Scan(&m.ID, &m.Name)
	if IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.WrapError("mpa", "Find", shared.ErrStorageOperationFailed, "failed to query MPA rating", err)
	}

	return m, true, nil
}

// GetAll returns all MPA ratings ordered by identifier.
func (r *MPARepository) GetAll(ctx context.Context) ([]*film.MPA, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name FROM mpa ORDER BY id`)
	if err != nil {
		return nil, shared.WrapError("mpa", "GetAll", shared.ErrStorageOperationFailed, "failed to query MPA ratings", err)
	}
	defer rows.Close()

	ratings := make([]*film.MPA, 0)
	for rows.Next() {
		m := &film.MPA{}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, shared.WrapError("mpa", "GetAll", shared.ErrStorageOperationFailed, "failed to scan MPA row", err)
		}
		ratings = append(ratings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("mpa", "GetAll", shared.ErrStorageOperationFailed, "row iteration failed", err)
	}

	return ratings, nil
}
