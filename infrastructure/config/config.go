// Package config loads the service configuration from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"

	"docstore-backend/application/ports"
	"docstore-backend/pkg/utils"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Store drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultDatabaseName  = "testDb2"
	DefaultContainerName = "itemsTest"
	DefaultServerAddress = ":8080"
	DefaultRegion        = "us-east-1"
)

// legacyConnectionEnv is the variable older deployments set the connection
// string in.
const legacyConnectionEnv = "connection"

type Config struct {
	Environment Environment `yaml:"environment" envconfig:"ENVIRONMENT" validate:"required,oneof=development staging production"`
	LogLevel    string      `yaml:"logLevel" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`

	ServerAddress string `yaml:"serverAddress" envconfig:"SERVER_ADDRESS" validate:"required,hostname_port"`

	AWSRegion        string `yaml:"awsRegion" envconfig:"AWS_REGION" validate:"required"`
	StoreDriver      string `yaml:"storeDriver" envconfig:"STORE_DRIVER" validate:"required,oneof=dynamodb memory"`
	DatabaseName     string `yaml:"databaseName" envconfig:"DATABASE_NAME" validate:"required,excludesall=./"`
	ContainerName    string `yaml:"containerName" envconfig:"CONTAINER_NAME" validate:"required,excludesall=./"`
	ConnectionString string `yaml:"connectionString" envconfig:"CONNECTION_STRING"`

	// SearchPartitionKey scopes message searches to one partition. Empty
	// searches across all partitions.
	SearchPartitionKey string `yaml:"searchPartitionKey" envconfig:"SEARCH_PARTITION_KEY"`

	// EventBusName enables change events when set.
	EventBusName string `yaml:"eventBusName" envconfig:"EVENT_BUS_NAME"`

	EnableMetrics      bool     `yaml:"enableMetrics" envconfig:"ENABLE_METRICS"`
	EnableTracing      bool     `yaml:"enableTracing" envconfig:"ENABLE_TRACING"`
	EnableCORS         bool     `yaml:"enableCors" envconfig:"ENABLE_CORS"`
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins" envconfig:"CORS_ALLOWED_ORIGINS"`
	OTELEndpoint       string   `yaml:"otelEndpoint" envconfig:"OTEL_ENDPOINT"`

	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string `yaml:"-" envconfig:"CONFIG_FILE"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Environment:        Development,
		LogLevel:           "info",
		ServerAddress:      DefaultServerAddress,
		AWSRegion:          DefaultRegion,
		StoreDriver:        DriverDynamoDB,
		DatabaseName:       DefaultDatabaseName,
		ContainerName:      DefaultContainerName,
		EnableMetrics:      true,
		CORSAllowedOrigins: []string{"*"},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file named by
// CONFIG_FILE and the environment, then validates it.
func LoadConfig() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = path
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.ConnectionString == "" {
		cfg.ConnectionString = os.Getenv(legacyConnectionEnv)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints and that the connection string parses.
func (c Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := ParseConnectionString(c.ConnectionString); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == Development
}

// Namespace returns the database/container pair documents are stored in.
func (c Config) Namespace() ports.Namespace {
	return ports.Namespace{Database: c.DatabaseName, Container: c.ContainerName}
}
