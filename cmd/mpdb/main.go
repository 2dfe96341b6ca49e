package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/goldrror9999-sys/Mpdb/internal/application/project"
	"github.com/goldrror9999-sys/Mpdb/internal/application/query"
	"github.com/goldrror9999-sys/Mpdb/internal/config"
	httprouter "github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/handlers"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/middleware"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/mysql"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/persistence/postgres"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Meta.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to metadata store")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping metadata store")
	}

	projectRepo := postgres.NewProjectRepository(pool)
	if err := projectRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure metadata schema")
	}

	backendAdmin := mysql.NewAdmin(mysql.Config{
		Host:     cfg.Backend.Host,
		Port:     cfg.Backend.Port,
		User:     cfg.Backend.User,
		Password: cfg.Backend.Password,
	})
	if err := backendAdmin.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("backend server unreachable at startup; continuing")
	}
	executor := mysql.NewExecutor(backendAdmin)

	queryTimeout := time.Duration(cfg.Query.TimeoutSecs) * time.Second
	createProjectUC := project.NewCreateProject(projectRepo, backendAdmin)
	generateKeyUC := project.NewGenerateAPIKey(projectRepo)
	setPrivacyUC := project.NewSetPrivacy(projectRepo)
	operatorExecuteUC := query.NewOperatorExecute(projectRepo, executor, queryTimeout)
	publicQueryUC := query.NewPublicQuery(projectRepo, executor, cfg.Query.PublicRowCap, queryTimeout)

	operatorHandler := handlers.NewOperatorHandler(createProjectUC, generateKeyUC, setPrivacyUC, operatorExecuteUC, projectRepo, backendAdmin, log)
	publicHandler := handlers.NewPublicHandler(publicQueryUC, log)
	healthHandler := handlers.NewHealthHandler(pool, backendAdmin)

	requireOperator := middleware.RequireOperatorSecret(cfg.Operator.Secret)
	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	router := httprouter.NewRouter(httprouter.RouterConfig{
		OperatorHandler: operatorHandler,
		PublicHandler:   publicHandler,
		HealthHandler:   healthHandler,
		RequireOperator: requireOperator,
		CORS:            middleware.CORS(cfg.Secure.CORSOrigins),
		Log:             log,
		Secure:          secureMiddleware,
		IPRateLimit:     ipLimit,
		Metrics:         true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Duration(cfg.Query.TimeoutSecs+10) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
