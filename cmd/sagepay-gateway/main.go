package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/sagepay-gateway/internal/adapters/audit"
	"github.com/kevin07696/sagepay-gateway/internal/adapters/postgres"
	"github.com/kevin07696/sagepay-gateway/internal/adapters/sagepay"
	"github.com/kevin07696/sagepay-gateway/internal/config"
	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
	paymentHandler "github.com/kevin07696/sagepay-gateway/internal/handlers/payment"
	"github.com/kevin07696/sagepay-gateway/pkg/logging"
	"github.com/kevin07696/sagepay-gateway/pkg/middleware"
	"github.com/kevin07696/sagepay-gateway/pkg/observability"
	"github.com/kevin07696/sagepay-gateway/pkg/resilience"
	"github.com/kevin07696/sagepay-gateway/pkg/shutdown"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Sage Pay gateway stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	logger.Info("Starting Sage Pay gateway",
		zap.String("vendor_name", cfg.SagePay.VendorName),
		zap.String("secret_manager", cfg.Secrets.Manager),
		zap.String("currency", cfg.SagePay.Currency),
	)

	if err := loadCredentials(ctx, cfg, logger); err != nil {
		return err
	}
	if err := cfg.SagePay.Validate(); err != nil {
		return fmt.Errorf("invalid Sage Pay settings: %w", err)
	}

	shutdownManager := shutdown.NewManager(logger, 30*time.Second)
	health := observability.NewHealthChecker()

	auditSink, err := initAuditSinks(ctx, cfg, logger, health, shutdownManager)
	if err != nil {
		return err
	}

	timeouts := resilience.DefaultTimeoutConfig().WithRemoteCall(time.Duration(cfg.SagePay.Timeout) * time.Second)
	gatewayLogger := logging.NewZapLogger(logger.Named("sagepay"))

	credentials := sagepay.Credentials{
		VendorName:          cfg.SagePay.VendorName,
		IntegrationKey:      cfg.SagePay.IntegrationKey,
		IntegrationPassword: cfg.SagePay.IntegrationPassword,
		DeveloperMode:       cfg.SagePay.DeveloperMode,
	}
	client := sagepay.NewClientWithDefaults(credentials, gatewayLogger, timeouts)
	gateway := sagepay.NewGateway(client, auditSink, gatewayLogger, cfg.SagePay.Currency)

	logger.Info("Sage Pay client ready",
		zap.String("environment", string(credentials.Environment())),
		zap.String("transactions_url", client.Endpoints().Process),
	)

	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), health, logger)
	shutdownManager.RegisterHTTPServer("metrics_server", metricsServer)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	shutdownManager.RegisterNoErr("rate_limiter", limiter.Shutdown)

	handler := paymentHandler.NewHandler(gateway, logger.Named("http"), timeouts)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           paymentHandler.NewRouter(handler, health, limiter, middleware.NewSecurityHeaders(cfg.Logger.Development)),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      timeouts.HTTPHandler + 5*time.Second,
	}
	shutdownManager.RegisterHTTPServer("http_server", httpServer)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := <-serveErr; err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	return shutdownManager.WaitForShutdown(waitCtx)
}

// initAuditSinks always logs audit entries and additionally stores them in
// PostgreSQL when AUDIT_DATABASE_URL is set
func initAuditSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger, health *observability.HealthChecker, sm *shutdown.Manager) (ports.AuditSink, error) {
	sinks := []ports.AuditSink{audit.NewZapSink(logger)}

	if cfg.Audit.DatabaseURL == "" {
		logger.Info("Audit database not configured, audit entries are logged only")
		return audit.NewMultiSink(sinks...), nil
	}

	pool, err := postgres.Connect(ctx, cfg.Audit.DatabaseURL, cfg.Audit.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("connect audit database: %w", err)
	}
	sm.RegisterNoErr("audit_database", pool.Close)

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}

	health.RegisterPinger("audit_database", pool)
	sinks = append(sinks, postgres.NewAuditRepository(pool))

	logger.Info("Audit database connected")
	return audit.NewMultiSink(sinks...), nil
}
