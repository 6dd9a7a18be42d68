package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/techstore/internal/config"
	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/httpserver"
	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/notify"
	"github.com/Skotchmaster/techstore/internal/ordernum"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/search"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/social"
	"github.com/Skotchmaster/techstore/pkg/cache"
	pkgdb "github.com/Skotchmaster/techstore/pkg/db"
	"github.com/Skotchmaster/techstore/pkg/es"
	"github.com/Skotchmaster/techstore/pkg/kafka"
	"github.com/Skotchmaster/techstore/pkg/logging"
	authmw "github.com/Skotchmaster/techstore/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/techstore/pkg/middleware/logging"
	"github.com/Skotchmaster/techstore/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = pkgdb.Close(db) }()

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(db)

	var redisCache *cache.RedisAdapter
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = redisCache.Close() }()
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	var index *search.Index
	if cfg.ElasticURL != "" {
		client, err := es.NewClient(es.Config{URL: cfg.ElasticURL, User: cfg.ElasticUser, Password: cfg.ElasticPassword})
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			index = search.NewIndex(client, cfg.ElasticIndex)
		}
	}

	var geocoder location.Geocoder = location.DevGeocoder{}
	if cfg.GoogleMapsAPIKey != "" {
		geocoder = location.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
	}
	if redisCache != nil {
		geocoder = location.NewCachedGeocoder(geocoder, redisCache)
	}
	estimator := location.NewEstimator(geocoder, location.NewStaticLocator())

	issuer := &tokens.Issuer{AccessSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	numbers := ordernum.New()

	authSvc := &service.AuthService{
		Repo:       r,
		Tokens:     issuer,
		Events:     publisher,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	orderSvc := &service.OrderService{
		Repo:     r,
		Numbers:  numbers,
		Notifier: notify.NewMailer(cfg.SMTP),
		Events:   publisher,
		Shipping: estimator,
	}
	catalogSvc := &service.CatalogService{
		Repo:    r,
		Numbers: numbers,
		Events:  publisher,
		Cache:   redisCache,
	}
	if index != nil {
		orderSvc.Index = index
		catalogSvc.Index = index
		catalogSvc.Searcher = index
	}

	verifiers := map[string]social.Verifier{social.ProviderFacebook: social.NewFacebookVerifier()}
	if cfg.GoogleClientID != "" {
		verifiers[social.ProviderGoogle] = social.NewGoogleVerifier(cfg.GoogleClientID)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000,
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit("10M"))
	if redisCache != nil {
		e.Use(ratelimit.New(redisCache.Client(), cfg.RateLimit, cfg.RateLimitWindow).Middleware())
	}

	secure := cfg.IsProduction()
	authenticator := authmw.NewAuthenticator(cfg.JWTAccessSecret, r)
	authenticator.SecureCookies = secure

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: secure},
		SocialHandler:   &httpserver.SocialHTTP{Svc: &service.SocialService{Auth: authSvc, Verifiers: verifiers}, SecureCookies: secure},
		PhoneHandler:    &httpserver.PhoneHTTP{Svc: &service.PhoneService{Auth: authSvc, SMS: notify.LogSMS{}, OTPTTL: cfg.OTPTTL}, SecureCookies: secure},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogSvc},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderSvc},
		GuestHandler:    &httpserver.GuestHTTP{Svc: &service.GuestService{Orders: orderSvc, Auth: authSvc, TokenTTL: cfg.GuestTokenTTL}, SecureCookies: secure},
		LocationHandler: &httpserver.LocationHTTP{Estimator: estimator},
		Auth:            authenticator,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server_error", "error", err)
	}
	logger.Info("server_stopped")
}
