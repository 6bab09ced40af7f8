// Package main - точка входа HTTP-сервиса Filmorate: каталог фильмов,
// лайки, рейтинг популярности, пользователи и граф дружбы.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Service: оркестрация операций над хранилищами
// - Infrastructure: PostgreSQL, Redis и in-memory реализации репозиториев
// - Interface: REST API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/practicum-go/filmorate/config"
	"github.com/practicum-go/filmorate/internal/domain/film"
	"github.com/practicum-go/filmorate/internal/domain/user"
	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/memory"
	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/postgres"
	"github.com/practicum-go/filmorate/internal/infrastructure/persistence/redis"
	httpserver "github.com/practicum-go/filmorate/internal/interface/http"
	"github.com/practicum-go/filmorate/internal/service"
	"github.com/practicum-go/filmorate/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// repositories — собранный набор хранилищ: PostgreSQL либо in-memory.
type repositories struct {
	films       film.Repository
	likes       film.LikeRepository
	genres      film.GenreRepository
	mpa         film.MPARepository
	users       user.Repository
	friendships user.FriendshipRepository
}

func run(ctx context.Context) error {
	// ─── Конфигурация ─────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ─── Логгер ───────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting filmorate",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	healthCheckers := make(map[string]httpserver.HealthChecker)

	// ─── Хранилище ────────────────────────────────────────────────────────
	// PostgreSQL, если задан DATABASE_URL; иначе in-memory вариант с
	// предзаполненными справочниками — для разработки и тестов.
	var repos repositories
	if cfg.Database.URL != "" {
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()

		if cfg.Database.Migrate {
			if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			log.Info("migrations applied")
		}

		repos = repositories{
			films:       postgres.NewFilmRepository(conn),
			likes:       postgres.NewLikeRepository(conn),
			genres:      postgres.NewGenreRepository(conn),
			mpa:         postgres.NewMPARepository(conn),
			users:       postgres.NewUserRepository(conn),
			friendships: postgres.NewFriendshipRepository(conn),
		}
		healthCheckers["postgres"] = conn
		log.Info("using postgres storage")
	} else {
		store := memory.NewSeededStore()
		repos = repositories{
			films:       store.Films(),
			likes:       store.Likes(),
			genres:      store.Genres(),
			mpa:         store.MPA(),
			users:       store.Users(),
			friendships: store.Friendships(),
		}
		log.Info("using in-memory storage")
	}

	// ─── Кеш рейтинга (опционально) ───────────────────────────────────────
	var ranking service.PopularityCache
	if !cfg.Redis.Disabled {
		cache, err := newRedisCache(cfg.Redis)
		if err != nil {
			// Кеш необязателен: рейтинг считается хранилищем напрямую.
			log.Warn("redis unavailable, ranking cache disabled", logger.Err(err))
		} else {
			defer cache.Close()
			ranking = redis.NewPopularityCache(cache)
			healthCheckers["redis"] = cache
			log.Info("ranking cache enabled")
		}
	}

	// ─── Сервисный слой ───────────────────────────────────────────────────
	filmService := service.NewFilmService(
		repos.films, repos.likes, repos.genres, repos.mpa, repos.users, ranking, log,
	)
	userService := service.NewUserService(repos.users, repos.friendships, log)
	genreService := service.NewGenreService(repos.genres, log)
	mpaService := service.NewMPAService(repos.mpa, log)

	// ─── HTTP-сервер ──────────────────────────────────────────────────────
	serverConfig := httpserver.DefaultConfig()
	serverConfig.Host = cfg.HTTP.Host
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	serverConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	serverConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	serverConfig.EnableCORS = cfg.HTTP.EnableCORS
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverConfig, httpserver.Dependencies{
		Films:          filmService,
		Users:          userService,
		Genres:         genreService,
		MPA:            mpaService,
		Logger:         log,
		HealthCheckers: healthCheckers,
	})

	errCh := server.StartAsync()

	// ─── Graceful shutdown ────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("filmorate stopped")
	return nil
}

// newRedisCache собирает Redis-клиент из URL либо из отдельных полей.
func newRedisCache(cfg config.RedisConfig) (*redis.Cache, error) {
	if cfg.URL != "" {
		return redis.NewCacheFromURL(cfg.URL)
	}

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Host
	redisCfg.Port = cfg.Port
	redisCfg.Password = cfg.Password
	redisCfg.DB = cfg.DB
	redisCfg.PoolSize = cfg.PoolSize
	redisCfg.MinIdleConns = cfg.MinIdleConns
	redisCfg.DialTimeout = cfg.DialTimeout
	redisCfg.ReadTimeout = cfg.ReadTimeout
	redisCfg.WriteTimeout = cfg.WriteTimeout

	return redis.NewCache(redisCfg)
}
