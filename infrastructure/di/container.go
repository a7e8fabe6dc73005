// Package di assembles the application's dependency graph with Wire.
package di

import (
	"net/http"

	"docstore-backend/application/ports"
	"docstore-backend/infrastructure/config"
	"docstore-backend/infrastructure/persistence"
	"docstore-backend/interfaces/http/rest"
	"docstore-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Namespace *persistence.NamespaceRef
	Opener    ports.ClientOpener
	Publisher ports.ChangePublisher
	Metrics   *observability.Collector
	Router    *rest.Router
	Handler   http.Handler
}
