package app

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"starconnect-back/internal/api/http/handler"
	"starconnect-back/internal/api/http/route"
	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/config"
	"starconnect-back/internal/model"
	"starconnect-back/internal/msg/outbox"
	"starconnect-back/internal/repository"
	"starconnect-back/internal/service"
	"starconnect-back/internal/worker"
	"starconnect-back/pkg/geoip"
	"starconnect-back/pkg/jwt"
	"starconnect-back/pkg/kafka"
	"starconnect-back/pkg/mailer"
	"starconnect-back/pkg/postgres"
	"starconnect-back/pkg/redis"
	"starconnect-back/pkg/search"
	"starconnect-back/pkg/server"
	"starconnect-back/pkg/twitter"
	"starconnect-back/pkg/vault"
)

const defaultTimeout = 15 * time.Second

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Handler    *Handler
	Service    *Service
	Security   *Security
	DB         postgres.Postgres
	RDB        redis.Redis
	Mailer     mailer.Mailer
	HTTPServer server.HTTPServer
	Workers    *Workers
	GeoDB      geoip.GeoIP
}

type Repository struct {
	HealthRepository        *repository.HealthRepository
	UserRepository          *repository.UserRepository
	ContentRepository       *repository.ContentRepository
	CommentRepository       *repository.CommentRepository
	MediaRepository         *repository.MediaRepository
	NewsletterRepository    *repository.NewsletterRepository
	AnalyticsRepository     *repository.AnalyticsRepository
	CrisisRepository        *repository.CrisisRepository
	PublishQueueRepository  *repository.PublishQueueRepository
	SocialAccountRepository *repository.SocialAccountRepository
	SocialPostRepository    *repository.SocialPostRepository
	OutboxRepository        *repository.OutboxRepository
	SearchRepository        *repository.SearchRepository
}

type Service struct {
	HealthService     *service.HealthService
	AuthService       *service.AuthService
	UserService       *service.UserService
	ContentService    *service.ContentService
	CommentService    *service.CommentService
	MediaService      *service.MediaService
	NewsletterService *service.NewsletterService
	AnalyticsService  *service.AnalyticsService
	SocialService     *service.SocialService
	PublishService    *service.PublishService
	CrisisService     *service.CrisisService
}

type Handler struct {
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	ProfileHandler    *handler.ProfileHandler
	ContentHandler    *handler.ContentHandler
	CommentHandler    *handler.CommentHandler
	MediaHandler      *handler.MediaHandler
	NewsletterHandler *handler.NewsletterHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	SocialHandler     *handler.SocialHandler
	CrisisHandler     *handler.CrisisHandler
}

type Security struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
}

type Runner interface {
	Run(ctx context.Context)
}

// Workers are the background loops: the outbox drain into Kafka and the
// due-item scheduler of the publish queue.
type Workers struct {
	OutboxPublisher  Runner
	PublishScheduler Runner
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := initDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := initRedis(&cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize redis", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	sec, err := initSecurity(log, cfg.Key)
	if err != nil {
		log.Error("Failed to initialize security", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize security: %w", err)
	}

	mlr := initMailer(log, &cfg.Mailer)

	es, err := initElastic(log, &cfg.Elastic)
	if err != nil {
		log.Error("Failed to initialize elastic", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize elastic: %w", err)
	}

	vlt, err := vault.New(&vault.Config{Key: cfg.Vault.EncryptionKey})
	if err != nil {
		log.Error("Failed to initialize vault", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}

	repo := initRepository(log, db, es)

	if err := repo.SearchRepository.EnsureIndex(ctx); err != nil {
		log.Error("Failed to ensure search index", zap.Error(err))
		return nil, fmt.Errorf("failed to ensure search index: %w", err)
	}

	geo, err := initGeo(log, &cfg.Geo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize geo: %w", err)
	}

	twitterAPI := twitter.New(&twitter.Config{
		APIKey:    cfg.Twitter.APIKey,
		APISecret: cfg.Twitter.APISecret,
	})

	svc := initService(log, cfg, sec, repo, mlr, rdb, vlt, twitterAPI)

	hdl := initHandler(log, &cfg.HTTPServer.JWT, svc)

	httpServer := initHTTPServer(log, cfg, sec.PublicKey, geo, hdl)

	workers, err := initWorkers(log, cfg, repo, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workers: %w", err)
	}

	return &App{
		Cfg:        cfg,
		Log:        log,
		Handler:    hdl,
		Service:    svc,
		Security:   sec,
		DB:         db,
		RDB:        rdb,
		Mailer:     mlr,
		HTTPServer: httpServer,
		Workers:    workers,
		GeoDB:      geo,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}
	return app
}

func (a *App) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	defer close(errs)

	go func() {
		if err := a.HTTPServer.Run(); err != nil {
			errs <- err
		}
	}()

	go func() {
		a.Workers.OutboxPublisher.Run(ctx)
	}()

	go func() {
		a.Workers.PublishScheduler.Run(ctx)
	}()

	if err := <-errs; err != nil {
		return err
	}

	return nil
}

func (a *App) Shutdown() error {
	a.DB.Close()
	a.Log.Debug("Database closed")

	err := apperrors.ErrShutdown

	if rdbErr := a.RDB.Close(); rdbErr != nil {
		err = fmt.Errorf("%w, failed to close RDB: %w", err, rdbErr)
	}

	a.Log.Debug("Redis closed")

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		err = fmt.Errorf("%w, failed to shutdown http server: %w", err, srvErr)
	}

	a.Log.Debug("Http server shutdown")

	if geoErr := a.GeoDB.Close(); geoErr != nil {
		err = fmt.Errorf("%w, failed to close GeoDB: %w", err, geoErr)
	}

	a.Log.Debug("GeoDB closed")

	if !errors.Is(err, apperrors.ErrShutdown) {
		return err
	}

	return nil
}

func initDB(cfg *config.Database) (postgres.Postgres, error) {
	postgresCfg := &postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Migration.Path,
			AutoApply: cfg.Migration.AutoApply,
		},
	}

	db, err := postgres.New(postgresCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Redis) (redis.Redis, error) {
	redisCfg := &redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	rdb, err := redis.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func initMailer(log *zap.Logger, cfg *config.Mailer) mailer.Mailer {
	mailerCfg := &mailer.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		UseTLS:   cfg.UseTLS,
	}

	mlr := mailer.New(mailerCfg)
	log.Debug("Mailer initialized")
	return mlr
}

func initElastic(log *zap.Logger, cfg *config.Elastic) (search.Elasticsearch, error) {
	elasticCfg := &search.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		CloudID:   cfg.CloudID,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.Timeout,
	}

	client, err := search.New(elasticCfg)
	if err != nil {
		return nil, err
	}

	log.Debug("Elasticsearch initialized")
	return client, nil
}

func initSecurity(log *zap.Logger, cfg config.Key) (*Security, error) {
	privateKey, err := jwt.LoadECDSAPrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	log.Debug("Private key loaded")

	publicKey, err := jwt.LoadECDSAPublicKey(cfg.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}

	log.Debug("Public key loaded")

	return &Security{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}, nil
}

func initRepository(log *zap.Logger, db postgres.Postgres, es search.Elasticsearch) *Repository {
	healthRepo := repository.NewHealthRepository(db.Pool())
	log.Debug("Health repository initialized")

	userRepo := repository.NewUserRepository(db.Pool())
	log.Debug("User repository initialized")

	contentRepo := repository.NewContentRepository(db.Pool())
	log.Debug("Content repository initialized")

	commentRepo := repository.NewCommentRepository(db.Pool())
	log.Debug("Comment repository initialized")

	mediaRepo := repository.NewMediaRepository(db.Pool())
	log.Debug("Media repository initialized")

	newsletterRepo := repository.NewNewsletterRepository(db.Pool())
	log.Debug("Newsletter repository initialized")

	analyticsRepo := repository.NewAnalyticsRepository(db.Pool())
	log.Debug("Analytics repository initialized")

	crisisRepo := repository.NewCrisisRepository(db.Pool())
	log.Debug("Crisis repository initialized")

	queueRepo := repository.NewPublishQueueRepository(db.Pool())
	log.Debug("Publish queue repository initialized")

	accountRepo := repository.NewSocialAccountRepository(db.Pool())
	log.Debug("Social account repository initialized")

	postRepo := repository.NewSocialPostRepository(db.Pool())
	log.Debug("Social post repository initialized")

	outboxRepo := repository.NewOutboxRepository(db.Pool())
	log.Debug("Outbox repository initialized")

	searchRepo := repository.NewSearchRepository(es.Client())
	log.Debug("Search repository initialized")

	return &Repository{
		HealthRepository:        healthRepo,
		UserRepository:          userRepo,
		ContentRepository:       contentRepo,
		CommentRepository:       commentRepo,
		MediaRepository:         mediaRepo,
		NewsletterRepository:    newsletterRepo,
		AnalyticsRepository:     analyticsRepo,
		CrisisRepository:        crisisRepo,
		PublishQueueRepository:  queueRepo,
		SocialAccountRepository: accountRepo,
		SocialPostRepository:    postRepo,
		OutboxRepository:        outboxRepo,
		SearchRepository:        searchRepo,
	}
}

func initService(
	log *zap.Logger,
	cfg *config.Config,
	sec *Security,
	repo *Repository,
	mlr mailer.Mailer,
	rdb redis.Redis,
	vlt vault.Vault,
	twitterAPI twitter.Client,
) *Service {
	healthSvc := service.NewHealthService(repo.HealthRepository)
	log.Debug("Health service initialized")

	authSvc := service.NewAuthService(
		log,
		sec.PublicKey,
		sec.PrivateKey,
		repo.UserRepository,
		mlr,
		rdb,
		cfg.Site.FrontendBaseURL,
		cfg.HTTPServer.JWT.AccessTokenTTL,
		cfg.HTTPServer.JWT.RefreshTokenTTL,
	)
	log.Debug("Auth service initialized")

	userSvc := service.NewUserService(repo.UserRepository, repo.CrisisRepository)
	log.Debug("User service initialized")

	contentSvc := service.NewContentService(log, repo.ContentRepository, repo.SearchRepository, repo.OutboxRepository)
	log.Debug("Content service initialized")

	commentSvc := service.NewCommentService(repo.CommentRepository, repo.ContentRepository)
	log.Debug("Comment service initialized")

	mediaSvc := service.NewMediaService(log, repo.MediaRepository, cfg.Media.UploadDir, cfg.Media.PublicBase)
	log.Debug("Media service initialized")

	newsletterSvc := service.NewNewsletterService(repo.NewsletterRepository, repo.UserRepository, repo.OutboxRepository)
	log.Debug("Newsletter service initialized")

	analyticsSvc := service.NewAnalyticsService(repo.AnalyticsRepository, repo.UserRepository)
	log.Debug("Analytics service initialized")

	socialSvc := service.NewSocialService(
		log,
		repo.SocialAccountRepository,
		repo.SocialPostRepository,
		repo.ContentRepository,
		vlt,
		twitterAPI,
		cfg.Site.BaseURL,
	)
	log.Debug("Social service initialized")

	publishers := map[model.Platform]service.PlatformPublisher{
		model.PlatformTwitter: service.NewTwitterPublisher(twitterAPI),
	}

	publishSvc := service.NewPublishService(
		log,
		repo.PublishQueueRepository,
		repo.SocialAccountRepository,
		repo.SocialPostRepository,
		repo.ContentRepository,
		vlt,
		publishers,
		cfg.Scheduler.CallTimeout,
	)
	log.Debug("Publish service initialized")

	crisisSvc := service.NewCrisisService(repo.CrisisRepository)
	log.Debug("Crisis service initialized")

	return &Service{
		HealthService:     healthSvc,
		AuthService:       authSvc,
		UserService:       userSvc,
		ContentService:    contentSvc,
		CommentService:    commentSvc,
		MediaService:      mediaSvc,
		NewsletterService: newsletterSvc,
		AnalyticsService:  analyticsSvc,
		SocialService:     socialSvc,
		PublishService:    publishSvc,
		CrisisService:     crisisSvc,
	}
}

func initHandler(log *zap.Logger, jwtCfg *config.JWT, svc *Service) *Handler {
	healthHandler := handler.NewHealthHandler(svc.HealthService)
	log.Debug("Health handler initialized")

	authHandler := handler.NewAuthHandler(log, svc.AuthService, jwtCfg.AccessTokenTTL, jwtCfg.RefreshTokenTTL)
	log.Debug("Auth handler initialized")

	profileHandler := handler.NewProfileHandler(svc.UserService)
	log.Debug("Profile handler initialized")

	contentHandler := handler.NewContentHandler(svc.ContentService)
	log.Debug("Content handler initialized")

	commentHandler := handler.NewCommentHandler(svc.CommentService)
	log.Debug("Comment handler initialized")

	mediaHandler := handler.NewMediaHandler(svc.MediaService)
	log.Debug("Media handler initialized")

	newsletterHandler := handler.NewNewsletterHandler(svc.NewsletterService)
	log.Debug("Newsletter handler initialized")

	analyticsHandler := handler.NewAnalyticsHandler(svc.AnalyticsService)
	log.Debug("Analytics handler initialized")

	socialHandler := handler.NewSocialHandler(svc.SocialService, svc.PublishService)
	log.Debug("Social handler initialized")

	crisisHandler := handler.NewCrisisHandler(svc.CrisisService)
	log.Debug("Crisis handler initialized")

	return &Handler{
		HealthHandler:     healthHandler,
		AuthHandler:       authHandler,
		ProfileHandler:    profileHandler,
		ContentHandler:    contentHandler,
		CommentHandler:    commentHandler,
		MediaHandler:      mediaHandler,
		NewsletterHandler: newsletterHandler,
		AnalyticsHandler:  analyticsHandler,
		SocialHandler:     socialHandler,
		CrisisHandler:     crisisHandler,
	}
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, publicKey *ecdsa.PublicKey, geo geoip.GeoIP, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		publicKey,
		geo,
		hdl.HealthHandler,
		hdl.AuthHandler,
		hdl.ProfileHandler,
		hdl.ContentHandler,
		hdl.CommentHandler,
		hdl.MediaHandler,
		hdl.NewsletterHandler,
		hdl.AnalyticsHandler,
		hdl.SocialHandler,
		hdl.CrisisHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithHandler(router),
	)

	return httpServer
}

func initWorkers(log *zap.Logger, cfg *config.Config, repo *Repository, svc *Service) (*Workers, error) {
	producer, err := kafka.NewProducer(
		cfg.Kafka.Brokers,
		kafka.WithBalancer(kafka.RoundRobin),
		kafka.WithRequiredAcks(kafka.RequireAll),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka producer: %w", err)
	}

	log.Debug("Kafka producer initialized")

	outboxCfg := outbox.Config{
		Name:         cfg.Kafka.Producer.Name,
		WorkerCount:  cfg.Kafka.Producer.WorkerCount,
		PollInterval: cfg.Kafka.Producer.PollInterval,
		BatchSize:    cfg.Kafka.Producer.BatchSize,
	}

	publisher := outbox.NewPublisher(
		log,
		outboxCfg,
		producer,
		repo.OutboxRepository,
	)

	log.Debug("Outbox publisher initialized")

	schedulerCfg := worker.SchedulerConfig{
		PollInterval: cfg.Scheduler.PollInterval,
		BatchSize:    cfg.Scheduler.BatchSize,
	}

	scheduler := worker.NewScheduler(log, schedulerCfg, svc.PublishService)

	log.Debug("Publish scheduler initialized")

	return &Workers{
		OutboxPublisher:  publisher,
		PublishScheduler: scheduler,
	}, nil
}

func initGeo(log *zap.Logger, cfg *config.Geo) (geoip.GeoIP, error) {
	geo, err := geoip.NewGeo(cfg.GeoLiteCountryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init geoip: %w", err)
	}

	log.Debug("GeoIP initialized")

	return geo, nil
}
