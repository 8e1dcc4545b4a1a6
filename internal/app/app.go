package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app/server"
	"github.com/vikramkatyani/lmsBox-sub000/internal/config"
	"github.com/vikramkatyani/lmsBox-sub000/internal/delivery/http"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/auth"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/certificate"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/course"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/progress"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/quiz"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/survey"
	"github.com/vikramkatyani/lmsBox-sub000/internal/storage/elastic"
	"github.com/vikramkatyani/lmsBox-sub000/internal/storage/minio_storage"
	"github.com/vikramkatyani/lmsBox-sub000/internal/storage/postgres"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"
)

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	progressRepo := postgres.NewProgressPostgres(pg.Pool)
	attemptsRepo := postgres.NewQuizAttemptsPostgres(pg.Pool)
	certificateRepo := postgres.NewCertificatePostgres(pg.Pool)
	surveyRepo := postgres.NewSurveyPostgres(pg.Pool)
	catalogRepo := postgres.NewCatalogPostgres(pg.Pool)

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	artifacts, err := minio_storage.NewCertificateStorage(minioStorage, cfg.Minio.CertificatesBucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing certificate bucket", err)
	}
	renderer := certificate.NewArtifactRenderer(artifacts)

	var feed *elastic.SummaryFeedRepo
	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		// The feed is reporting-only, progress tracking works without it.
		log.ErrorErr("elasticsearch unavailable, summary feed disabled", err)
	} else {
		feed = elastic.NewSummaryFeedRepository(esClient, elastic.SummaryIndex)
		if err := feed.CreateIndexIfNotExist(context.Background()); err != nil {
			log.ErrorErr("summary index init failed, summary feed disabled", err)
			feed = nil
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer)

	issuer := certificate.NewCertificateService(log, certificateRepo, renderer, catalogRepo, progressRepo, surveyRepo)
	courseSvc := course.NewCourseService(log, catalogRepo, progressRepo, surveyRepo, feedOrNil(feed), issuer)
	surveySvc := survey.NewSurveyGateService(log, surveyRepo, catalogRepo, courseSvc)
	progressSvc := progress.NewProgressService(log, progressRepo, catalogRepo, surveySvc, courseSvc)
	quizSvc := quiz.NewQuizService(log, catalogRepo, attemptsRepo, progressSvc)

	u := service.Collection{
		ProgressService:    progressSvc,
		QuizService:        quizSvc,
		CourseService:      courseSvc,
		SurveyService:      surveySvc,
		CertificateService: issuer,
		TokenManager:       jwtManager,
	}

	r := http.InitRoutes(log, u, cfg.HTTPServer.AllowOrigins)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("HTTP server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	err = srv.Shutdown()
	if err != nil {
		log.ErrorErr("shutdown error", err)
	}
}

// feedOrNil keeps the aggregator's summaryFeed interface nil when elastic is
// down; a typed nil pointer would dodge the aggregator's nil check.
func feedOrNil(feed *elastic.SummaryFeedRepo) course.SummaryFeed {
	if feed == nil {
		return nil
	}
	return feed
}
