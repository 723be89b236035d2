package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"craftshare/config"
	"craftshare/database"
	adminapi "craftshare/internal/api/admin"
	authapi "craftshare/internal/api/auth"
	postsapi "craftshare/internal/api/posts"
	"craftshare/internal/api/uploads"
	usersapi "craftshare/internal/api/users"
	routes "craftshare/internal/app/http"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/infra/cache"
	"craftshare/internal/infra/logging"
	"craftshare/internal/infra/storage"
	"craftshare/internal/infra/tracing"
	"craftshare/internal/repository"
	"craftshare/internal/repository/gormrepo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Configure(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("tracing shutdown", "err", err)
		}
	}()

	db, err := database.Open(ctx, cfg.Database, cfg.Debug)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var (
		store     storage.Storage
		mediaRoot string
	)
	if cfg.Storage.UseMinIO() {
		if store, err = storage.NewMinIO(ctx, cfg.Storage); err != nil {
			return err
		}
	} else {
		local, err := storage.NewLocal(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
		if err != nil {
			return err
		}
		store, mediaRoot = local, local.Root()
	}

	userRepo := gormrepo.NewUserRepo(db)
	postRepo := gormrepo.NewPostRepo(db)
	var categoryRepo repository.CategoryRepository = gormrepo.NewCategoryRepo(db)
	if cfg.Redis.URL != "" {
		rdb, err := cache.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		categoryRepo = cache.NewCategories(categoryRepo, rdb, cfg.Redis.CategoryTTL)
	}
	images := uploads.New(store, gormrepo.NewImageRepo(db), cfg.Content)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return err
	}

	tokens := authapi.NewTokens(cfg.JWT)
	var google *authapi.Google
	if cfg.Google.Enabled() {
		google = authapi.NewGoogle(cfg.Google, userRepo, tokens)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: cfg.JWT.Secret,
		Users:     userRepo,
		Auth:      authapi.NewHandler(userRepo, postRepo, images, tokens, cfg.Content),
		Google:    google,
		Posts: postsapi.NewHandler(postsapi.Deps{
			Posts:      postRepo,
			Users:      userRepo,
			Categories: categoryRepo,
			Engagement: gormrepo.NewEngagementRepo(db),
			Images:     images,
			Content:    cfg.Content,
			Metrics:    metrics,
		}),
		People:    usersapi.NewHandler(userRepo, postRepo, gormrepo.NewFollowRepo(db), images, cfg.Content),
		Admin:     adminapi.NewHandler(userRepo, postRepo, categoryRepo, cfg.Content),
		Metrics:   metrics,
		Gatherer:  reg,
		MediaRoot: mediaRoot,
		MediaURL:  cfg.Storage.MediaURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, "craftshare"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
