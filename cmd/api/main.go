// Package main - точка входа REST API сервиса LevelUp Learning Hub.
//
// Сервис управляет учебным контентом: темы, гайды со страницами, курсы,
// записи на курсы и прогресс обучения. Видимость контента зависит от роли
// вызывающего, статусные переходы контролируются доменными правилами.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Event Handlers)
// - Infrastructure: PostgreSQL, Redis, event bus
// - Interface: HTTP handlers
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/levelup-hub/learning-hub/config"

	// Application layer
	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/eventhandler"
	"github.com/levelup-hub/learning-hub/internal/application/query"

	// Domain layer
	"github.com/levelup-hub/learning-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/levelup-hub/learning-hub/internal/infrastructure/messaging"
	"github.com/levelup-hub/learning-hub/internal/infrastructure/persistence/postgres"
	"github.com/levelup-hub/learning-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/levelup-hub/learning-hub/internal/interface/http"

	// Packages
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting LevelUp Learning Hub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed",
			logger.Int("applied", appliedCount),
			logger.Int("total", len(status)),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var catalogCache *redis.CatalogCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolTimeout:  cfg.Redis.PoolTimeout,
		}
		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			catalogCache = redis.NewCatalogCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcherConfig := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherConfig.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherConfig)
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))
	defer dispatcher.Stop()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	topicRepo := postgres.NewTopicRepository(dbConn)
	guideRepo := postgres.NewGuideRepository(dbConn)
	pageRepo := postgres.NewPageRepository(dbConn)
	likeRepo := postgres.NewLikeRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)
	enrollmentRepo := postgres.NewEnrollmentRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	var publisher shared.EventPublisher = eventBus

	// Порты кеша остаются nil, если Redis недоступен.
	var guideCache query.GuideCache
	var courseCache query.CourseCache
	var topicCache query.TopicCache
	if catalogCache != nil {
		guideCache = catalogCache
		courseCache = catalogCache
		topicCache = catalogCache
	}

	httpDeps := httpserver.Dependencies{
		// Topics
		CreateTopic: command.NewCreateTopicHandler(topicRepo),
		RenameTopic: command.NewRenameTopicHandler(topicRepo),
		DeleteTopic: command.NewDeleteTopicHandler(topicRepo),
		ListTopics:  query.NewListTopicsHandler(topicRepo, topicCache),
		GetTopic:    query.NewGetTopicHandler(topicRepo),

		// Guides
		CreateGuide:        command.NewCreateGuideHandler(guideRepo, topicRepo, publisher, cfg.Learning.MaxAuthorsPerGuide),
		UpdateGuide:        command.NewUpdateGuideHandler(guideRepo, topicRepo, publisher),
		UpdateGuideAuthors: command.NewUpdateGuideAuthorsHandler(guideRepo, publisher, cfg.Learning.MaxAuthorsPerGuide),
		ChangeGuideStatus:  command.NewChangeGuideStatusHandler(guideRepo, publisher),
		DeleteGuide:        command.NewDeleteGuideHandler(guideRepo, publisher),
		AddPage:            command.NewAddPageHandler(guideRepo, pageRepo, publisher),
		UpdatePage:         command.NewUpdatePageHandler(guideRepo, pageRepo, publisher),
		DeletePage:         command.NewDeletePageHandler(guideRepo, pageRepo, publisher),
		LikeGuide:          command.NewLikeGuideHandler(guideRepo, likeRepo),
		UnlikeGuide:        command.NewUnlikeGuideHandler(guideRepo, likeRepo),
		AddChallenge:       command.NewAddChallengeHandler(guideRepo, publisher),
		RemoveChallenge:    command.NewRemoveChallengeHandler(guideRepo, publisher),
		GetGuide:           query.NewGetGuideHandler(guideRepo, pageRepo, likeRepo, topicRepo, guideCache),
		SearchGuides:       query.NewSearchGuidesHandler(guideRepo, likeRepo),
		ListAuthorGuides:   query.NewListAuthorGuidesHandler(guideRepo, likeRepo),
		ListLikedGuides:    query.NewListLikedGuidesHandler(guideRepo, likeRepo),

		// Courses
		CreateCourse:          command.NewCreateCourseHandler(courseRepo, topicRepo, publisher, cfg.Learning.MaxAuthorsPerCourse),
		UpdateCourse:          command.NewUpdateCourseHandler(courseRepo, topicRepo, publisher),
		UpdateCourseAuthors:   command.NewUpdateCourseAuthorsHandler(courseRepo, publisher, cfg.Learning.MaxAuthorsPerCourse),
		ChangeCourseStatus:    command.NewChangeCourseStatusHandler(courseRepo, publisher),
		DeleteCourse:          command.NewDeleteCourseHandler(courseRepo, guideRepo, dbConn, publisher),
		AddGuideToCourse:      command.NewAddGuideToCourseHandler(courseRepo, guideRepo, dbConn, publisher),
		RemoveGuideFromCourse: command.NewRemoveGuideFromCourseHandler(courseRepo, guideRepo, dbConn, publisher),
		GetCourse:             query.NewGetCourseHandler(courseRepo, guideRepo, likeRepo, topicRepo, courseCache),
		SearchCourses:         query.NewSearchCoursesHandler(courseRepo),
		ListAuthorCourses:     query.NewListAuthorCoursesHandler(courseRepo),

		// Enrollments
		EnrollUser:            command.NewEnrollUserHandler(enrollmentRepo, courseRepo),
		CancelEnrollment:      command.NewCancelEnrollmentHandler(enrollmentRepo),
		CompleteEnrollment:    command.NewCompleteEnrollmentHandler(enrollmentRepo),
		ListUserEnrollments:   query.NewListUserEnrollmentsHandler(enrollmentRepo),
		ListCourseEnrollments: query.NewListCourseEnrollmentsHandler(enrollmentRepo, courseRepo),

		// Progress
		StartLearning:    command.NewStartLearningHandler(progressRepo, guideRepo, pageRepo, courseRepo),
		UpdateProgress:   command.NewUpdateProgressHandler(progressRepo),
		CompleteProgress: command.NewCompleteProgressHandler(progressRepo),
		GetProgress:      query.NewGetProgressHandler(progressRepo),
		ListUserProgress: query.NewListUserProgressHandler(progressRepo),

		Logger:   log,
		Database: dbConn,
	}
	if redisCache != nil {
		httpDeps.Cache = redisCache
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	if catalogCache != nil {
		contentChanged := eventhandler.NewOnContentChangedHandler(catalogCache, log)
		if err := dispatcher.Register(shared.EventGuideChanged, "invalidate-guide-cache", contentChanged.Handle); err != nil {
			return fmt.Errorf("failed to register guide cache handler: %w", err)
		}
		if err := dispatcher.Register(shared.EventCourseChanged, "invalidate-course-cache", contentChanged.Handle); err != nil {
			return fmt.Errorf("failed to register course cache handler: %w", err)
		}

		streamPublisher := messaging.NewStreamPublisher(redisCache, log)
		challengeAdded := eventhandler.NewOnChallengeAddedHandler(streamPublisher, log)
		if err := dispatcher.Register(shared.EventGuideChallengeAdded, "forward-challenge-added", challengeAdded.Handle); err != nil {
			return fmt.Errorf("failed to register challenge handler: %w", err)
		}
	} else {
		// Без Redis кеш-инвалидация не нужна, интеграционные события теряются.
		log.Warn("Redis unavailable, cache invalidation and stream publishing disabled")
	}

	dispatcher.Start()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.JWTSecret = cfg.Auth.JWTSecret

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", logger.String("address", httpServer.Address()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("LevelUp Learning Hub API is running",
		logger.String("http_address", httpServer.Address()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		shutdownErr = err
	}

	// Event bus и база данных закроются через defer.

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
