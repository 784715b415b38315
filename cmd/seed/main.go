// Package main - инструмент наполнения базы демонстрационным контентом.
//
// Создаёт темы, пару опубликованных гайдов со страницами и курс из этих
// гайдов, после чего сбрасывает каталожный кеш. Предназначен для
// development-окружений, запуск повторно безопасен: конфликты по именам
// тем разрешаются через поиск существующих.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/levelup-hub/learning-hub/config"
	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/infrastructure/persistence/postgres"
	"github.com/levelup-hub/learning-hub/internal/infrastructure/persistence/redis"
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

// seedActor обладает правами администратора, все проверки владения проходят.
var seedActor = shared.Actor{
	UserID: "00000000-0000-0000-0000-000000000001",
	Roles:  []shared.Role{shared.RoleAdmin},
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.IsProduction() {
		return fmt.Errorf("seeding is not allowed in production")
	}

	log := logger.Default().With(logger.String("tool", "seed"))

	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	topicRepo := postgres.NewTopicRepository(dbConn)
	guideRepo := postgres.NewGuideRepository(dbConn)
	pageRepo := postgres.NewPageRepository(dbConn)

	publisher := shared.NoopPublisher{}

	createTopic := command.NewCreateTopicHandler(topicRepo)
	createGuide := command.NewCreateGuideHandler(guideRepo, topicRepo, publisher, cfg.Learning.MaxAuthorsPerGuide)
	addPage := command.NewAddPageHandler(guideRepo, pageRepo, publisher)
	changeGuideStatus := command.NewChangeGuideStatusHandler(guideRepo, publisher)
	createCourse := command.NewCreateCourseHandler(postgres.NewCourseRepository(dbConn), topicRepo, publisher, cfg.Learning.MaxAuthorsPerCourse)
	changeCourseStatus := command.NewChangeCourseStatusHandler(postgres.NewCourseRepository(dbConn), publisher)
	addGuideToCourse := command.NewAddGuideToCourseHandler(postgres.NewCourseRepository(dbConn), guideRepo, dbConn, publisher)

	// ── Темы ────────────────────────────────────────────────────────────────
	topicIDs := make(map[string]string)
	for _, name := range []string{"Go", "Databases", "Web Development"} {
		t, err := createTopic.Handle(ctx, command.CreateTopicCommand{Actor: seedActor, Name: name})
		if err != nil {
			if !shared.IsConflict(err) {
				return fmt.Errorf("create topic %q: %w", name, err)
			}
			// Тема уже есть, ищем её идентификатор по имени.
			existing, getErr := topicRepo.GetByName(ctx, name)
			if getErr != nil {
				return fmt.Errorf("resolve topic %q: %w", name, getErr)
			}
			topicIDs[name] = existing.ID
			continue
		}
		topicIDs[name] = t.ID
		log.Info("topic created", logger.String("name", name), logger.String("id", t.ID))
	}

	// ── Гайды со страницами ─────────────────────────────────────────────────
	guides := []struct {
		title       string
		description string
		topics      []string
		pages       []string
	}{
		{
			title:       "Getting Started with Go",
			description: "Syntax, tooling and the standard library from zero.",
			topics:      []string{"Go"},
			pages: []string{
				"# Installing Go\n\nDownload the toolchain and set up your workspace.",
				"# Your First Program\n\nWrite, build and run hello world.",
				"# Packages and Modules\n\nHow Go code is organized and versioned.",
			},
		},
		{
			title:       "PostgreSQL for Application Developers",
			description: "Schema design, indexing and query tuning in practice.",
			topics:      []string{"Databases"},
			pages: []string{
				"# Relational Modeling\n\nTables, constraints and normal forms.",
				"# Indexes That Work\n\nWhen B-tree beats everything else.",
			},
		},
	}

	var guideIDs []string
	for _, g := range guides {
		var ids []string
		for _, name := range g.topics {
			if id, ok := topicIDs[name]; ok {
				ids = append(ids, id)
			}
		}

		created, err := createGuide.Handle(ctx, command.CreateGuideCommand{
			Actor:       seedActor,
			Title:       g.title,
			Description: g.description,
			TopicIDs:    ids,
		})
		if err != nil {
			return fmt.Errorf("create guide %q: %w", g.title, err)
		}

		for _, content := range g.pages {
			if _, err := addPage.Handle(ctx, command.AddPageCommand{
				Actor:   seedActor,
				GuideID: created.GuideID,
				Content: content,
			}); err != nil {
				return fmt.Errorf("add page to %q: %w", g.title, err)
			}
		}

		if _, err := changeGuideStatus.Handle(ctx, command.ChangeGuideStatusCommand{
			Actor:   seedActor,
			GuideID: created.GuideID,
			Status:  guide.StatusPublished,
		}); err != nil {
			return fmt.Errorf("publish guide %q: %w", g.title, err)
		}

		guideIDs = append(guideIDs, created.GuideID)
		log.Info("guide created",
			logger.String("title", g.title),
			logger.String("id", created.GuideID),
			logger.Int("pages", len(g.pages)),
		)
	}

	// ── Курс из созданных гайдов ────────────────────────────────────────────
	courseResult, err := createCourse.Handle(ctx, command.CreateCourseCommand{
		Actor:       seedActor,
		Title:       "Backend Engineering Track",
		Description: "From Go basics to production-grade persistence.",
		Difficulty:  course.DifficultyBeginner,
		AuthorIDs:   []string{seedActor.UserID},
		TopicIDs:    collectIDs(topicIDs, "Go", "Databases"),
	})
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	for _, guideID := range guideIDs {
		if err := addGuideToCourse.Handle(ctx, command.AddGuideToCourseCommand{
			Actor:    seedActor,
			CourseID: courseResult.CourseID,
			GuideID:  guideID,
		}); err != nil {
			return fmt.Errorf("add guide to course: %w", err)
		}
	}

	if _, err := changeCourseStatus.Handle(ctx, command.ChangeCourseStatusCommand{
		Actor:    seedActor,
		CourseID: courseResult.CourseID,
		Status:   course.StatusPublished,
	}); err != nil {
		return fmt.Errorf("publish course: %w", err)
	}
	log.Info("course created", logger.String("id", courseResult.CourseID))

	// ── Сброс каталожного кеша ──────────────────────────────────────────────
	if !cfg.Redis.Disabled {
		redisCache, err := redis.NewCache(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Warn("Redis unavailable, cache not invalidated", logger.Err(err))
		} else {
			defer redisCache.Close()
			if err := redis.NewCatalogCache(redisCache).InvalidateAll(ctx); err != nil {
				log.Warn("failed to invalidate catalog cache", logger.Err(err))
			} else {
				log.Info("catalog cache invalidated")
			}
		}
	}

	log.Info("seeding completed",
		logger.Int("topics", len(topicIDs)),
		logger.Int("guides", len(guideIDs)),
	)
	return nil
}

func collectIDs(byName map[string]string, names ...string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
