// Package service содержит агрегирующий слой: оркестрацию хранилищ,
// проверки существования перед мутациями и гидрацию ссылок на
// справочные сущности при чтении.
package service

import (
	"context"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/internal/domain/user"
	"github.com/practicum-go/filmorate/pkg/logger"
)

// DefaultPopularLimit — число фильмов в рейтинге по умолчанию.
const DefaultPopularLimit = 10

// PopularityCache — опциональный кеш рейтинга популярности.
// Реализуется Redis-кешем; nil означает, что кеш выключен и рейтинг
// считается хранилищем напрямую. Любая ошибка кеша трактуется как
// промах: хранилище остаётся источником истины.
type PopularityCache interface {
	// Top возвращает первые limit идентификаторов рейтинга.
	// Пустой кеш — промах (ErrCacheMiss у реализации).
	Top(ctx context.Context, limit int) ([]int64, error)

	// Rebuild атомарно перестраивает кеш из точных счётчиков.
	Rebuild(ctx context.Context, counts map[int64]int) error

	// SetCount выставляет точный счётчик лайков фильма.
	SetCount(ctx context.Context, filmID int64, count int) error

	// RemoveFilm убирает фильм из рейтинга.
	RemoveFilm(ctx context.Context, filmID int64) error
}

// ══════════════════════════════════════════════════════════════════════════════
// FILM SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// FilmService реализует операции каталога фильмов, индекс лайков и
// запрос самых популярных фильмов.
type FilmService struct {
	films   film.Repository
	likes   film.LikeRepository
	genres  film.GenreRepository
	mpa     film.MPARepository
	users   user.Repository
	ranking PopularityCache
	log     *logger.Logger
}

// NewFilmService создаёт FilmService. ranking может быть nil.
func NewFilmService(
	films film.Repository,
	likes film.LikeRepository,
	genres film.GenreRepository,
	mpa film.MPARepository,
	users user.Repository,
	ranking PopularityCache,
	log *logger.Logger,
) *FilmService {
	if log == nil {
		log = logger.Default()
	}
	return &FilmService{
		films:   films,
		likes:   likes,
		genres:  genres,
		mpa:     mpa,
		users:   users,
		ranking: ranking,
		log:     log.With(logger.Component("film_service")),
	}
}

// GetAll возвращает все фильмы с гидрированными ссылками.
func (s *FilmService) GetAll(ctx context.Context) ([]*film.Film, error) {
	films, err := s.films.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range films {
		if err := s.hydrate(ctx, f); err != nil {
			return nil, err
		}
	}
	return films, nil
}

// GetByID возвращает фильм по идентификатору.
func (s *FilmService) GetByID(ctx context.Context, id int64) (*film.Film, error) {
	f, err := s.filmExistence(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Create валидирует и сохраняет новый фильм. Ссылки на рейтинг и жанры
// проверяются до сохранения; дубликаты жанров отбрасываются.
func (s *FilmService) Create(ctx context.Context, f *film.Film) (*film.Film, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.DedupGenres()

	if _, found, err := s.mpa.Find(ctx, f.MPA.ID); err != nil {
		return nil, err
	} else if !found {
		return nil, shared.ErrMPANotFound
	}
	for _, g := range f.Genres {
		if _, found, err := s.genres.Find(ctx, g.ID); err != nil {
			return nil, err
		} else if !found {
			return nil, shared.ErrGenreNotFound
		}
	}

	saved, err := s.films.Save(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.genres.ReplaceForFilm(ctx, saved.ID, saved.Genres); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, saved); err != nil {
		return nil, err
	}

	s.refreshRanking(ctx, saved.ID, 0)
	s.log.Info("film created", logger.FilmID(saved.ID))
	return saved, nil
}

// Update обновляет изменяемые поля фильма. Неизвестный идентификатор —
// NotFound, и мутация не выполняется.
func (s *FilmService) Update(ctx context.Context, payload *film.Film) (*film.Film, error) {
	if payload.ID == 0 {
		return nil, shared.NewDomainError("film", "Update", shared.ErrInvalidID, "film id is required")
	}

	existing, err := s.filmExistence(ctx, payload.ID)
	if err != nil {
		return nil, err
	}

	existing.ApplyUpdate(payload)
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if payload.MPA.ID != 0 {
		if _, found, err := s.mpa.Find(ctx, payload.MPA.ID); err != nil {
			return nil, err
		} else if !found {
			return nil, shared.ErrMPANotFound
		}
	}

	if err := s.films.Update(ctx, existing); err != nil {
		return nil, err
	}
	if payload.Genres != nil {
		if err := s.genres.ReplaceForFilm(ctx, existing.ID, existing.Genres); err != nil {
			return nil, err
		}
	}

	if err := s.hydrate(ctx, existing); err != nil {
		return nil, err
	}
	s.log.Info("film updated", logger.FilmID(existing.ID))
	return existing, nil
}

// Delete удаляет фильм вместе с его рёбрами лайков.
func (s *FilmService) Delete(ctx context.Context, id int64) error {
	if _, err := s.filmExistence(ctx, id); err != nil {
		return err
	}
	if err := s.films.Delete(ctx, id); err != nil {
		return err
	}
	if s.ranking != nil {
		if err := s.ranking.RemoveFilm(ctx, id); err != nil {
			s.log.Warn("ranking cache remove failed", logger.FilmID(id), logger.Err(err))
		}
	}
	s.log.Info("film deleted", logger.FilmID(id))
	return nil
}

// AddLike добавляет лайк пользователя фильму. Оба идентификатора
// проверяются до мутации; повторный лайк — no-op.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) (*film.Film, error) {
	if err := s.userExistence(ctx, userID); err != nil {
		return nil, err
	}
	f, err := s.filmExistence(ctx, filmID)
	if err != nil {
		return nil, err
	}

	if err := s.likes.Add(ctx, filmID, userID); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, f); err != nil {
		return nil, err
	}

	s.refreshRanking(ctx, filmID, f.Likes)
	s.log.Info("like added", logger.FilmID(filmID), logger.UserID(userID), logger.LikeCount(f.Likes))
	return f, nil
}

// DeleteLike удаляет лайк пользователя. Отсутствующий лайк — no-op.
func (s *FilmService) DeleteLike(ctx context.Context, filmID, userID int64) (*film.Film, error) {
	if err := s.userExistence(ctx, userID); err != nil {
		return nil, err
	}
	f, err := s.filmExistence(ctx, filmID)
	if err != nil {
		return nil, err
	}

	if err := s.likes.Remove(ctx, filmID, userID); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, f); err != nil {
		return nil, err
	}

	s.refreshRanking(ctx, filmID, f.Likes)
	s.log.Info("like removed", logger.FilmID(filmID), logger.UserID(userID), logger.LikeCount(f.Likes))
	return f, nil
}

// MostPopular возвращает limit самых популярных фильмов: по убыванию
// числа лайков, при равенстве — по возрастанию идентификатора. Фильм,
// исчезнувший между ранжированием и материализацией, — серверный сбой
// (StorageInconsistency), а не NotFound.
func (s *FilmService) MostPopular(ctx context.Context, limit int) ([]*film.Film, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	ids, err := s.rankedIDs(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*film.Film, 0, len(ids))
	for _, id := range ids {
		f, found, err := s.films.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, shared.ErrRankedFilmVanished
		}
		if err := s.hydrate(ctx, f); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

// rankedIDs отдаёт рейтинг из кеша, а при промахе или ошибке — из
// хранилища, попутно перестраивая кеш.
func (s *FilmService) rankedIDs(ctx context.Context, limit int) ([]int64, error) {
	if s.ranking != nil {
		ids, err := s.ranking.Top(ctx, limit)
		if err == nil {
			return ids, nil
		}
		s.log.Debug("ranking cache miss", logger.Limit(limit), logger.Err(err))
	}

	ids, err := s.likes.MostPopular(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.ranking != nil {
		counts, err := s.likes.Counts(ctx)
		if err == nil {
			if err := s.ranking.Rebuild(ctx, counts); err != nil {
				s.log.Warn("ranking cache rebuild failed", logger.Err(err))
			}
		}
	}
	return ids, nil
}

// refreshRanking выставляет точный счётчик в кеше рейтинга (best effort).
func (s *FilmService) refreshRanking(ctx context.Context, filmID int64, count int) {
	if s.ranking == nil {
		return
	}
	if err := s.ranking.SetCount(ctx, filmID, count); err != nil {
		s.log.Warn("ranking cache update failed", logger.FilmID(filmID), logger.Err(err))
	}
}

// hydrate разрешает сырые ссылки фильма в полные записи и заполняет
// производный счётчик лайков. Нарушение инварианта ссылочной
// целостности — серверный сбой хранилища.
func (s *FilmService) hydrate(ctx context.Context, f *film.Film) error {
	rating, found, err := s.mpa.Find(ctx, f.MPA.ID)
	if err != nil {
		return err
	}
	if !found {
		return shared.WrapError("film", "Hydrate", shared.ErrStorageInconsistency, "MPA reference failed to resolve", nil)
	}
	f.MPA = *rating

	genres, err := s.genres.FindForFilm(ctx, f.ID)
	if err != nil {
		return err
	}
	f.Genres = genres

	likes, err := s.likes.CountForFilm(ctx, f.ID)
	if err != nil {
		return err
	}
	f.Likes = likes
	return nil
}

// filmExistence возвращает фильм или NotFound.
func (s *FilmService) filmExistence(ctx context.Context, id int64) (*film.Film, error) {
	f, found, err := s.films.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrFilmNotFound
	}
	return f, nil
}

// userExistence проверяет, что пользователь существует.
func (s *FilmService) userExistence(ctx context.Context, id int64) error {
	_, found, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrUserNotFound
	}
	return nil
}
