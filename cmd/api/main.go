package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sopatech/wavedesk/internal/activity"
	"github.com/sopatech/wavedesk/internal/auth"
	"github.com/sopatech/wavedesk/internal/config"
	apphttp "github.com/sopatech/wavedesk/internal/http"
	"github.com/sopatech/wavedesk/internal/infra"
	"github.com/sopatech/wavedesk/internal/metrics"
	"github.com/sopatech/wavedesk/internal/search"
	"github.com/sopatech/wavedesk/internal/submissions"
	"github.com/sopatech/wavedesk/internal/users"
)

func main() {
	// --- Logger and config ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	config.LogConfigVars(logger, cfg)

	// --- DynamoDB ---
	db, err := infra.NewDynamo(context.Background(), cfg.AWSRegion, cfg.DynamoEndpoint)
	if err != nil {
		logger.Error("dynamo init", "err", err)
		os.Exit(1)
	}

	// --- Auth: store, JWT keys, service, handler ---
	authStore := auth.NewStore(db, cfg.DynamoTable)
	jwtPrivateKey, err := auth.LoadRSAPrivateKey(cfg.JWTPrivateKeyPath)
	if err != nil {
		logger.Error("load JWT private key", "err", err)
		os.Exit(1)
	}
	jwtPublicKey, err := auth.LoadRSAPublicKey(cfg.JWTPublicKeyPath)
	if err != nil {
		logger.Error("load JWT public key", "err", err)
		os.Exit(1)
	}
	authService := auth.NewService(authStore, jwtPrivateKey, cfg.SessionTTL, cfg.RefreshTTL)
	cookieCfg := auth.CookieConfig{Secure: cfg.CookieSecure}
	authHandler := auth.NewHandler(authService, cookieCfg)

	// --- Users: store, service, handler ---
	usersStore := users.NewStore(db, cfg.DynamoTable)
	usersService := users.NewService(usersStore, cfg.ManagerEmails)
	usersHandler := users.NewHandler(usersService, authService, cookieCfg)

	// --- Metrics: review decision counter and monthly-active artists ---
	decisionRecorder, err := metrics.NewDecisionRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("register decision counter", "err", err)
		os.Exit(1)
	}
	activeStore := metrics.NewActiveArtistStore(db, cfg.DynamoTable)
	activeRecorder, err := metrics.NewActiveArtistRecorder(activeStore, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("register active artists counter", "err", err)
		os.Exit(1)
	}

	// --- Activity log ---
	activityStore := activity.NewStore(db, cfg.DynamoTable)
	activityService := activity.NewService(activityStore)

	// --- Submissions: store, OpenSearch index, service, handler ---
	subStore := submissions.NewStore(db, cfg.DynamoTable)
	osClient := infra.NewOpenSearch(cfg.OpenSearchEndpoint, nil)
	subIndex := search.NewSubmissionIndex(osClient, cfg.OpenSearchIndex)
	if err := subIndex.EnsureIndex(context.Background()); err != nil {
		logger.Error("opensearch ensure submission index", "err", err)
		os.Exit(1)
	}
	subService := submissions.NewService(subStore, activityService, subIndex, decisionRecorder, activeRecorder)
	subHandler := submissions.NewHandler(subService, usersService)

	// --- Router and HTTP server ---
	r := apphttp.NewRouter(logger, usersHandler, authHandler, subHandler, metrics.Handler(), jwtPublicKey)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}
