package main

import (
	"context"
	"strings"

	api "ghostinbox-backend/cmd/api"
	authdomain "ghostinbox-backend/internal/auth/domain"
	authrepo "ghostinbox-backend/internal/auth/repository"
	authusecase "ghostinbox-backend/internal/auth/usecase"
	emaildelivery "ghostinbox-backend/internal/email/delivery"
	emaildomain "ghostinbox-backend/internal/email/domain"
	emailrepo "ghostinbox-backend/internal/email/repository"
	emailusecase "ghostinbox-backend/internal/email/usecase"
	ingestdelivery "ghostinbox-backend/internal/ingest/delivery"
	ingestdomain "ghostinbox-backend/internal/ingest/domain"
	ingestrepo "ghostinbox-backend/internal/ingest/repository"
	ingestusecase "ghostinbox-backend/internal/ingest/usecase"
	"ghostinbox-backend/internal/notification"
	tokendomain "ghostinbox-backend/internal/token/domain"
	tokenrepo "ghostinbox-backend/internal/token/repository"
	tokenusecase "ghostinbox-backend/internal/token/usecase"
	"ghostinbox-backend/pkg/config"
	"ghostinbox-backend/pkg/database"
	"ghostinbox-backend/pkg/gmail"
	"ghostinbox-backend/pkg/llm"
	"ghostinbox-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&tokendomain.ProviderToken{},
		&emaildomain.Email{},
		&emaildomain.ToneProfile{},
		&ingestdomain.ProcessedNotification{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Repositories
	userRepo := authrepo.NewUserRepository(db)
	providerTokenRepo := tokenrepo.NewTokenRepository(db)
	emailRepository := emailrepo.NewEmailRepository(db)
	toneRepository := emailrepo.NewToneRepository(db)
	ledgerRepository := ingestrepo.NewLedgerRepository(db)

	// Provider and model clients
	gmailService := gmail.NewService(logger.For(log, "gmail"))
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// Use cases
	authUsecase := authusecase.NewAuthUsecase(userRepo, cfg)
	tokenManager := tokenusecase.NewManager(providerTokenRepo, cfg, logger.For(log, "token"))
	classifier := emailusecase.NewClassifier(emailRepository, llmClient, logger.For(log, "classifier"))
	draftGenerator := emailusecase.NewDraftGenerator(emailRepository, toneRepository, llmClient, logger.For(log, "drafts"))
	toneSettings := emailusecase.NewToneSettings(toneRepository)

	orchestrator := ingestusecase.NewOrchestrator(
		userRepo, ledgerRepository, emailRepository, tokenManager,
		gmailService, classifier, logger.For(log, "ingest"),
	)
	watchRegistrar := ingestusecase.NewWatchRegistrar(
		tokenManager, gmailService, watchTopic(cfg), logger.For(log, "watch"),
	)

	// Pull subscriber, only when a Pub/Sub project is configured. The push
	// webhook at /api/ingest works either way.
	if cfg.GoogleProjectID != "" {
		subscriber, err := notification.NewSubscriber(
			cfg.GoogleProjectID, shortTopicName(cfg.GooglePubSubTopic), cfg.GoogleCredentials,
			orchestrator, logger.For(log, "pubsub"),
		)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize pubsub subscriber")
		} else {
			go subscriber.Start(context.Background())
		}
	} else {
		log.Warn().Msg("GOOGLE_PROJECT_ID not configured, pubsub subscriber disabled")
	}

	emailHandler := emaildelivery.NewEmailHandler(classifier, draftGenerator, toneSettings, logger.For(log, "http"))
	ingestHandler := ingestdelivery.NewIngestHandler(orchestrator, watchRegistrar, logger.For(log, "http"))

	handler := api.NewHandler(authUsecase, emailHandler, ingestHandler)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// watchTopic returns the fully qualified topic resource name the provider
// watch call requires.
func watchTopic(cfg *config.Config) string {
	topic := cfg.GooglePubSubTopic
	if strings.HasPrefix(topic, "projects/") {
		return topic
	}
	return "projects/" + cfg.GoogleProjectID + "/topics/" + topic
}

// shortTopicName strips a full resource name down to the bare topic id the
// subscriber client expects.
func shortTopicName(topic string) string {
	if parts := strings.Split(topic, "/"); len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return topic
}
