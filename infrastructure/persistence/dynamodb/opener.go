package dynamodb

import (
	"context"
	"net/http"

	"docstore-backend/application/ports"
	"docstore-backend/infrastructure/config"
	"docstore-backend/infrastructure/persistence"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// APIFactory builds the API a new client talks to, together with a release
// function run when that client closes.
type APIFactory func(ctx context.Context) (API, func(), error)

// Opener creates a fresh DynamoDB client for every request.
type Opener struct {
	namespace *persistence.NamespaceRef
	factory   APIFactory
	logger    *zap.Logger
}

// NewOpener builds an opener from the base AWS config and the parsed
// connection string.
func NewOpener(base aws.Config, settings config.ConnectionSettings, namespace *persistence.NamespaceRef, logger *zap.Logger) *Opener {
	return NewOpenerWithFactory(sdkFactory(base, settings), namespace, logger)
}

// NewOpenerWithFactory builds an opener around a custom API factory.
func NewOpenerWithFactory(factory APIFactory, namespace *persistence.NamespaceRef, logger *zap.Logger) *Opener {
	return &Opener{namespace: namespace, factory: factory, logger: logger}
}

// Open implements ports.ClientOpener.
func (o *Opener) Open(ctx context.Context) (ports.DocumentClient, error) {
	api, release, err := o.factory(ctx)
	if err != nil {
		return nil, err
	}
	table := o.namespace.Load().Table()
	o.logger.Debug("Opened DynamoDB client", zap.String("table", table))
	return NewClient(api, table, release, o.logger), nil
}

// sdkFactory gives every client its own HTTP transport so that closing a
// client drops its connections. Retries are disabled: a failed call surfaces
// immediately as an error.
func sdkFactory(base aws.Config, settings config.ConnectionSettings) APIFactory {
	return func(ctx context.Context) (API, func(), error) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		transport := awshttp.NewBuildableClient().GetTransport()
		client := dynamodb.NewFromConfig(base, func(o *dynamodb.Options) {
			o.HTTPClient = &http.Client{Transport: transport}
			o.RetryMaxAttempts = 1
			if settings.Region != "" {
				o.Region = settings.Region
			}
			if settings.Endpoint != "" {
				o.BaseEndpoint = aws.String(settings.Endpoint)
			}
			if settings.HasStaticCredentials() {
				o.Credentials = credentials.NewStaticCredentialsProvider(
					settings.AccessKeyID, settings.SecretAccessKey, settings.SessionToken,
				)
			}
		})
		return client, transport.CloseIdleConnections, nil
	}
}
