package film

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт хранилища фильмов.
//
// Отсутствие записи — не ошибка: Find возвращает (nil, false, nil), и уже
// вызывающая сторона решает, фатально это или нет. Ошибка возвращается
// только при сбое самого хранилища.
type Repository interface {
	// Save сохраняет новый фильм и присваивает ему идентификатор.
	// Присвоение монотонно: идентификаторы не переиспользуются в рамках
	// жизни процесса даже после удалений.
	Save(ctx context.Context, f *Film) (*Film, error)

	// Find возвращает фильм по идентификатору. Второе значение — признак
	// наличия записи.
	Find(ctx context.Context, id int64) (*Film, bool, error)

	// GetAll возвращает все фильмы.
	GetAll(ctx context.Context) ([]*Film, error)

	// Update заменяет изменяемые поля существующего фильма.
	// Возвращает shared.ErrStorageOperationFailed, если не затронуто
	// ни одной строки.
	Update(ctx context.Context, f *Film) error

	// Delete удаляет фильм. Рёбра лайков удаляются каскадно.
	Delete(ctx context.Context, id int64) error
}

// LikeRepository поддерживает множество рёбер (film, user) — лайков.
// Добавление и удаление идемпотентны в обе стороны.
type LikeRepository interface {
	// Add добавляет ребро лайка. Повторное добавление — no-op.
	Add(ctx context.Context, filmID, userID int64) error

	// Remove удаляет ребро лайка. Удаление отсутствующего ребра — no-op.
	Remove(ctx context.Context, filmID, userID int64) error

	// CountForFilm возвращает число лайков фильма.
	CountForFilm(ctx context.Context, filmID int64) (int, error)

	// Counts возвращает число лайков для каждого существующего фильма,
	// включая фильмы без лайков (счётчик 0). Используется для
	// перестроения кеша рейтинга.
	Counts(ctx context.Context) (map[int64]int, error)

	// MostPopular возвращает идентификаторы фильмов, упорядоченные по
	// убыванию числа лайков; при равенстве — по возрастанию id.
	// Фильмы без лайков участвуют и идут последними. Результат усечён
	// до limit; если фильмов меньше, возвращаются все.
	MostPopular(ctx context.Context, limit int) ([]int64, error)
}

// GenreRepository — справочник жанров и связка фильм-жанры.
type GenreRepository interface {
	Save(ctx context.Context, g *Genre) (*Genre, error)
	Find(ctx context.Context, id int64) (*Genre, bool, error)
	GetAll(ctx context.Context) ([]*Genre, error)

	// FindForFilm возвращает жанры фильма в порядке возрастания id.
	FindForFilm(ctx context.Context, filmID int64) ([]Genre, error)

	// ReplaceForFilm заменяет множество жанров фильма.
	ReplaceForFilm(ctx context.Context, filmID int64, genres []Genre) error
}

// MPARepository — справочник возрастных рейтингов.
type MPARepository interface {
	Save(ctx context.Context, m *MPA) (*MPA, error)
	Find(ctx context.Context, id int64) (*MPA, bool, error)
	GetAll(ctx context.Context) ([]*MPA, error)
}
