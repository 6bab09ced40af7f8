// Package film содержит доменную модель каталога фильмов: сам фильм,
// жанры и возрастной рейтинг MPA. Лайки пользователей хранятся отдельным
// индексом рёбер (film, user) и попадают в фильм только как производный
// счётчик при чтении.
package film

import (
	"strings"
	"time"

	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

// MaxDescriptionLen — максимальная длина описания фильма.
const MaxDescriptionLen = 200

// EarliestReleaseDate — дата выхода первого в истории фильма
// (28 декабря 1895 года). Более ранние даты считаются невалидными.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// ══════════════════════════════════════════════════════════════════════════════
// LOOKUP ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Genre представляет жанр фильма (справочная сущность).
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// MPA представляет возрастной рейтинг фильма по классификации MPA
// (G, PG, PG-13, R, NC-17). Справочная сущность.
type MPA struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// FILM ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Film представляет фильм в каталоге.
//
// Идентификатор присваивается хранилищем при создании и неизменяем.
// Поля MPA и Genres хранятся как сырые ссылки (id) и "гидрируются"
// в полные записи на чтении — см. Hydrate в сервисном слое.
type Film struct {
	// ID — серверный идентификатор, 0 до первого сохранения.
	ID int64 `json:"id"`

	// Name — название фильма, не может быть пустым.
	Name string `json:"name"`

	// Description — описание, не длиннее MaxDescriptionLen символов.
	Description string `json:"description"`

	// ReleaseDate — дата выхода, не раньше EarliestReleaseDate.
	ReleaseDate time.Time `json:"releaseDate"`

	// Duration — продолжительность в минутах, строго положительная.
	Duration int `json:"duration"`

	// MPA — ссылка на возрастной рейтинг (обязательная, ровно одна).
	MPA MPA `json:"mpa"`

	// Genres — ссылки на жанры (ноль и более, без дубликатов).
	Genres []Genre `json:"genres"`

	// Likes — производный счётчик лайков, заполняется при чтении.
	Likes int `json:"likes"`
}

// Validate проверяет инварианты фильма на создании и обновлении.
func (f *Film) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return shared.ErrFilmNameEmpty
	}
	if len([]rune(f.Description)) > MaxDescriptionLen {
		return shared.ErrFilmDescTooLong
	}
	if f.ReleaseDate.Before(EarliestReleaseDate) {
		return shared.ErrFilmReleaseEarly
	}
	if f.Duration <= 0 {
		return shared.ErrFilmDuration
	}
	return nil
}

// DedupGenres удаляет повторяющиеся ссылки на жанры, сохраняя порядок
// первого вхождения. Клиенты нередко присылают (1,2,1) — храним (1,2).
func (f *Film) DedupGenres() {
	if len(f.Genres) < 2 {
		return
	}
	seen := make(map[int64]bool, len(f.Genres))
	unique := f.Genres[:0]
	for _, g := range f.Genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		unique = append(unique, g)
	}
	f.Genres = unique
}

// ApplyUpdate переносит изменяемые поля из payload, сохраняя идентификатор
// и накопленную историю лайков.
func (f *Film) ApplyUpdate(payload *Film) {
	f.Name = payload.Name
	f.Description = payload.Description
	f.ReleaseDate = payload.ReleaseDate
	f.Duration = payload.Duration
	if payload.MPA.ID != 0 {
		f.MPA = MPA{ID: payload.MPA.ID}
	}
	if payload.Genres != nil {
		f.Genres = payload.Genres
		f.DedupGenres()
	}
}
