//go:build wireinject
// +build wireinject

package di

import (
	"context"

	cmdhandlers "docstore-backend/application/commands/handlers"
	queryhandlers "docstore-backend/application/queries/handlers"
	"docstore-backend/infrastructure/config"
	"docstore-backend/interfaces/http/rest"
	"docstore-backend/interfaces/http/rest/handlers"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideNamespace,
	ProvideMetrics,
	ProvideClientOpener,
	ProvideChangePublisher,
	cmdhandlers.NewCreateDocumentHandler,
	cmdhandlers.NewUpsertDocumentHandler,
	cmdhandlers.NewDeleteDocumentHandler,
	queryhandlers.NewGetDocumentHandler,
	ProvideSearchDocumentsHandler,
	handlers.NewDocumentHandler,
	handlers.NewDiagnosticsHandler,
	ProvideRouterOptions,
	rest.NewRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
