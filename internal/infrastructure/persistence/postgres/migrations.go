package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_catalog_tables",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_social_tables",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "seed_lookup_tables",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// Migration 001: film catalog with genre and MPA lookup tables.
const migration001Up = `
CREATE TABLE IF NOT EXISTS mpa (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS genres (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS films (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	release_date DATE NOT NULL,
	duration INTEGER NOT NULL CHECK (duration > 0),
	mpa_id BIGINT NOT NULL REFERENCES mpa(id),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS films_genres (
	film_id BIGINT NOT NULL REFERENCES films(id) ON DELETE CASCADE,
	genre_id BIGINT NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
	PRIMARY KEY (film_id, genre_id)
);

CREATE INDEX IF NOT EXISTS idx_films_mpa_id ON films(mpa_id);
CREATE INDEX IF NOT EXISTS idx_films_genres_genre_id ON films_genres(genre_id);
`

const migration001Down = `
DROP TABLE IF EXISTS films_genres;
DROP TABLE IF EXISTS films;
DROP TABLE IF EXISTS genres;
DROP TABLE IF EXISTS mpa;
`

// Migration 002: users, the like index and the friendship edge table.
// Likes and friendship edges cascade when either endpoint is deleted.
const migration002Up = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL,
	login TEXT NOT NULL,
	name TEXT NOT NULL,
	birthday DATE NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS likes (
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	film_id BIGINT NOT NULL REFERENCES films(id) ON DELETE CASCADE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, film_id)
);

CREATE TABLE IF NOT EXISTS friendships (
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	friend_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved')),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, friend_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_film_id ON likes(film_id);
CREATE INDEX IF NOT EXISTS idx_friendships_friend_id ON friendships(friend_id);
`

const migration002Down = `
DROP TABLE IF EXISTS friendships;
DROP TABLE IF EXISTS likes;
DROP TABLE IF EXISTS users;
`

// Migration 003: seed the lookup tables with the canonical rows.
const migration003Up = `
INSERT INTO genres (name) VALUES
	('Комедия'),
	('Драма'),
	('Мультфильм'),
	('Триллер'),
	('Документальный'),
	('Боевик')
ON CONFLICT (name) DO NOTHING;

INSERT INTO mpa (name) VALUES
	('G'),
	('PG'),
	('PG-13'),
	('R'),
	('NC-17')
ON CONFLICT (name) DO NOTHING;
`

const migration003Down = `
DELETE FROM genres WHERE name IN ('Комедия', 'Драма', 'Мультфильм', 'Триллер', 'Документальный', 'Боевик');
DELETE FROM mpa WHERE name IN ('G', 'PG', 'PG-13', 'R', 'NC-17');
`
