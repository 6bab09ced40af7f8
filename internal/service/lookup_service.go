package service

import (
	"context"

	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/shared"
	"github.com/practicum-go/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENRE SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// GenreService — операции над справочником жанров.
type GenreService struct {
	genres film.GenreRepository
	log    *logger.Logger
}

// NewGenreService создаёт GenreService.
func NewGenreService(genres film.GenreRepository, log *logger.Logger) *GenreService {
	if log == nil {
		log = logger.Default()
	}
	return &GenreService{genres: genres, log: log.With(logger.Component("genre_service"))}
}

// GetAll возвращает все жанры.
func (s *GenreService) GetAll(ctx context.Context) ([]*film.Genre, error) {
	return s.genres.GetAll(ctx)
}

// GetByID возвращает жанр или NotFound.
func (s *GenreService) GetByID(ctx context.Context, id int64) (*film.Genre, error) {
	g, found, err := s.genres.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrGenreNotFound
	}
	return g, nil
}

// Create сохраняет новый жанр.
func (s *GenreService) Create(ctx context.Context, g *film.Genre) (*film.Genre, error) {
	if g.Name == "" {
		return nil, shared.NewDomainError("genre", "Create", shared.ErrEmptyValue, "genre name cannot be empty")
	}
	saved, err := s.genres.Save(ctx, g)
	if err != nil {
		return nil, err
	}
	s.log.Info("genre created", logger.Int64("genre_id", saved.ID))
	return saved, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MPA SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// MPAService — операции над справочником возрастных рейтингов.
type MPAService struct {
	mpa film.MPARepository
	log *logger.Logger
}

// NewMPAService создаёт MPAService.
func NewMPAService(mpa film.MPARepository, log *logger.Logger) *MPAService {
	if log == nil {
		log = logger.Default()
	}
	return &MPAService{mpa: mpa, log: log.With(logger.Component("mpa_service"))}
}

// GetAll возвращает все рейтинги.
func (s *MPAService) GetAll(ctx context.Context) ([]*film.MPA, error) {
	return s.mpa.GetAll(ctx)
}

// GetByID возвращает рейтинг или NotFound.
func (s *MPAService) GetByID(ctx context.Context, id int64) (*film.MPA, error) {
	m, found, err := s.mpa.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrMPANotFound
	}
	return m, nil
}

// Create сохраняет новый рейтинг.
func (s *MPAService) Create(ctx context.Context, m *film.MPA) (*film.MPA, error) {
	if m.Name == "" {
		return nil, shared.NewDomainError("mpa", "Create", shared.ErrEmptyValue, "MPA name cannot be empty")
	}
	saved, err := s.mpa.Save(ctx, m)
	if err != nil {
		return nil, err
	}
	s.log.Info("mpa rating created", logger.Int64("mpa_id", saved.ID))
	return saved, nil
}
