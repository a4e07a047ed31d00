package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"walletbridge/internal/app/port"
	"walletbridge/internal/app/service"
	"walletbridge/internal/config"
	"walletbridge/internal/domain/entity"
	"walletbridge/internal/infrastructure/evmwallet"
	"walletbridge/internal/infrastructure/restapi"
	"walletbridge/internal/infrastructure/tronwallet"
	"walletbridge/internal/pkg/logger"
	"walletbridge/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	// Load configuration; missing required values abort before any surface
	// is usable.
	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	logger.InitSlog(cfg.Logging.Level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// EVM wallet session.
	evmSessions := evmwallet.NewSessionProvider(
		cfg.EVM.WalletRPCURL,
		time.Duration(cfg.EVM.RPCTimeoutMs)*time.Millisecond,
		logger.Info,
		logger.Error,
	)
	evmConnector := evmwallet.NewConnector(evmSessions, zapLogger)
	evmAccessor, err := evmwallet.NewContractAccessor(evmSessions, cfg.EVM.TokenAddress, zapLogger)
	if err != nil {
		zapLogger.Fatal("EVM token contract configuration invalid", zap.Error(err))
	}
	switcher := evmwallet.NewSwitcher(evmSessions, cfg.EVM.Chains, zapLogger)

	// Tron wallet session.
	limiterPeriod, err := time.ParseDuration(cfg.Tron.LimiterPeriod)
	if err != nil {
		zapLogger.Warn("Invalid tron limiter period, defaulting to 200ms", zap.String("value", cfg.Tron.LimiterPeriod))
		limiterPeriod = 200 * time.Millisecond
	}
	tronClient := tronwallet.NewClient(
		cfg.Tron.FullNodeURL,
		cfg.Tron.APIKey,
		time.Duration(cfg.Tron.RequestTimeoutMs)*time.Millisecond,
		limiterPeriod,
		cfg.Tron.LimiterBurst,
		zapLogger,
	)
	classifier := hostClassifier(cfg.Tron.Networks)
	tronConnector := tronwallet.NewConnector(tronClient, cfg.Tron.WalletAddress, classifier, zapLogger)
	tronAccessor, err := tronwallet.NewContractAccessor(
		tronClient, cfg.Tron.TokenAddress, cfg.Tron.WalletAddress, cfg.Tron.FeeLimit, zapLogger)
	if err != nil {
		zapLogger.Fatal("Tron token contract configuration invalid", zap.Error(err))
	}

	resolver := service.NewChainResolver(cfg.EVM.ChainID, cfg.Tron.MainNetwork, zapLogger)

	tokenSvc := service.NewTokenService(
		map[entity.SupportedChain]service.TokenChainConfig{
			entity.ChainBSC:  {Accessor: evmAccessor, Decimals: cfg.EVM.TokenDecimals, BurnMethod: "burnFrom"},
			entity.ChainTron: {Accessor: tronAccessor, Decimals: cfg.Tron.TokenDecimals, BurnMethod: "burn"},
		},
		time.Duration(cfg.Cache.BalanceTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		zapLogger,
	)

	callbacks := service.Callbacks{
		OnConnected: func(result entity.ConnectionResult) {
			zapLogger.Info("Host notified: connected",
				zap.String("sessionId", result.SessionID),
				zap.String("address", result.Address),
				zap.String("chain", string(result.Chain)),
				zap.Bool("wrongNetwork", result.WrongNetwork))
		},
		OnDisconnected: func() {
			zapLogger.Info("Host notified: disconnected")
		},
	}

	connSvc := service.NewConnectionService(
		map[entity.SupportedChain]port.WalletConnector{
			entity.ChainBSC:  evmConnector,
			entity.ChainTron: tronConnector,
		},
		resolver,
		switcher,
		callbacks,
		zapLogger,
	)

	// Informational: report both wallet session states at startup.
	go connSvc.HealthProbe(context.Background(), 15*time.Second)

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(restapi.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	handler := restapi.NewBridgeHandler(connSvc, tokenSvc)
	restapi.RegisterRoutes(router, handler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

// hostClassifier builds the swappable Tron host classifier from the
// configured table. Matching is by exact host or suffix, so port-qualified
// hosts still classify.
func hostClassifier(entries []config.TronNetworkEntry) tronwallet.HostClassifier {
	return func(host string) (string, bool) {
		for _, entry := range entries {
			if host == entry.Host || strings.HasSuffix(host, entry.Host) {
				return entry.Network, true
			}
		}
		return "", false
	}
}
