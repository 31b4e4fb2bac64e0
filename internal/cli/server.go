package cli

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"progression-service/internal/app"
	"progression-service/internal/cert"
	"progression-service/internal/config"
	"progression-service/internal/domain"
	"progression-service/internal/infra/memory"
	pgstore "progression-service/internal/infra/postgres"
	redisstore "progression-service/internal/infra/redis"
	"progression-service/internal/storage"
	transport "progression-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the progression service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	var db *bun.DB
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	var (
		catalog       app.CatalogRepository
		progressRepo  app.ProgressRepository
		pathRepo      app.PathRepository
		submissions   app.SubmissionRepository
		interventions app.InterventionRepository
		certRepo      cert.Repository
		loader        memory.QuizLoader
	)
	if db != nil {
		catalog = pgstore.NewCatalog(db)
		progressRepo = pgstore.NewProgressRepository(db)
		pathRepo = pgstore.NewPathRepository(db)
		submissions = pgstore.NewSubmissionRepository(db)
		interventions = pgstore.NewInterventionRepository(db)
		certRepo = pgstore.NewCertificateRepository(db)
		loader = pgstore.NewQuizLoader(pool)
	} else {
		logger.Warn("postgres not configured, using in-memory stores with sample data")
		memCatalog, memLoader := sampleContent()
		catalog = memCatalog
		progressRepo = memory.NewProgressStore()
		pathRepo = memory.NewPathStore()
		submissions = memory.NewSubmissionStore()
		interventions = memory.NewInterventionStore()
		certRepo = memory.NewCertificateStore()
		loader = memLoader
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	verifyBase := cfg.Certificate.VerifyBaseURL
	if verifyBase == "" {
		verifyBase = "http://localhost:" + finalPort
	}
	blobs, err := storage.NewFSStore(cfg.Blob.Dir, cfg.Blob.PublicBase)
	if err != nil {
		return err
	}
	issuer := cert.NewIssuer(certRepo, catalog, progressRepo, blobs, verifyBase, logger)

	service := app.NewProgressionService(
		quizRepo, catalog, progressRepo, pathRepo, submissions, interventions,
		issuer, cfg.Quiz.PassThreshold,
	)
	handler := transport.NewHandler(service, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting progression service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleContent provides a minimal catalog for local development without a
// database; swap in the Postgres-backed stores for production.
func sampleContent() (*memory.Catalog, memory.QuizLoader) {
	catalog := memory.NewCatalog()
	catalog.AddUser(domain.User{ID: "u1", DisplayName: "Alice Example"})
	catalog.AddCourse(domain.Course{ID: "course-1", Title: "Intro to Go"}, "mod-1")
	catalog.AddPath(domain.LearningPath{ID: "path-1", Title: "Backend Basics"},
		domain.PathCourse{CourseID: "course-1", Required: true, Position: 1})

	loader := memory.NewStaticQuizLoader(map[string]domain.QuizPayload{
		"mod-1": {
			ModuleID: "mod-1",
			Title:    "Checkpoint 1",
			Questions: []domain.Question{
				{
					ID:           "q1",
					Prompt:       "What is 2 + 2?",
					Options:      []domain.Option{{Text: "3"}, {Text: "4"}, {Text: "5"}},
					CorrectIndex: 1,
				},
			},
		},
	})
	return catalog, loader
}
