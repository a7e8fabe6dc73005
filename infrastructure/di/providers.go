package di

import (
	"context"
	"fmt"
	"net/http"

	"docstore-backend/application/ports"
	queryhandlers "docstore-backend/application/queries/handlers"
	"docstore-backend/infrastructure/config"
	"docstore-backend/infrastructure/messaging"
	"docstore-backend/infrastructure/persistence"
	"docstore-backend/infrastructure/persistence/dynamodb"
	"docstore-backend/infrastructure/persistence/memory"
	"docstore-backend/interfaces/http/rest"
	"docstore-backend/interfaces/http/rest/middleware"
	"docstore-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "docstore"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideNamespace creates the swappable namespace reference
func ProvideNamespace(cfg *config.Config) *persistence.NamespaceRef {
	return persistence.NewNamespaceRef(cfg.Namespace())
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(MetricsNamespace)
}

// ProvideClientOpener creates the document store for the configured driver
func ProvideClientOpener(
	awsCfg aws.Config,
	cfg *config.Config,
	namespace *persistence.NamespaceRef,
	metrics *observability.Collector,
	logger *zap.Logger,
) (ports.ClientOpener, error) {
	var opener ports.ClientOpener

	switch cfg.StoreDriver {
	case config.DriverMemory:
		opener = memory.NewStore(namespace)
	case config.DriverDynamoDB:
		settings, err := config.ParseConnectionString(cfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		opener = dynamodb.NewOpener(awsCfg, settings, namespace, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	logger.Info("Document store configured",
		zap.String("driver", cfg.StoreDriver),
		zap.String("table", namespace.Load().Table()),
	)
	return persistence.NewInstrumentedOpener(opener, namespace, metrics, logger), nil
}

// ProvideChangePublisher creates the change event publisher. Without an event
// bus, events are dropped.
func ProvideChangePublisher(awsCfg aws.Config, cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) ports.ChangePublisher {
	if cfg.EventBusName == "" {
		return messaging.NoopPublisher{}
	}
	return messaging.NewEventBridgePublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, metrics, logger)
}

// ProvideSearchDocumentsHandler creates the search handler scoped by configuration
func ProvideSearchDocumentsHandler(opener ports.ClientOpener, cfg *config.Config, logger *zap.Logger) *queryhandlers.SearchDocumentsHandler {
	return queryhandlers.NewSearchDocumentsHandler(opener, cfg.SearchPartitionKey, logger)
}

// ProvideRouterOptions maps configuration onto the router
func ProvideRouterOptions(cfg *config.Config) rest.RouterOptions {
	return rest.RouterOptions{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		EnableMetrics:  cfg.EnableMetrics,
		CircuitBreaker: middleware.DefaultCircuitBreakerConfig("document-store"),
	}
}

// ProvideHTTPHandler builds the routed handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
