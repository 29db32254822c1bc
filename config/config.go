package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	CatalogServiceURL string        `envconfig:"CATALOG_SERVICE_URL" required:"true"`
	OrderServiceURL   string        `envconfig:"ORDER_SERVICE_URL"   required:"true"`
	ConsolePort       string        `envconfig:"CONSOLE_PORT"        default:":8080"`
	GrpcHealthPort    string        `envconfig:"GRPC_HEALTH_PORT"    default:":50052"` // gRPC health checks
	LogLevel          string        `envconfig:"LOG_LEVEL"           default:"info"`
	GatewayTimeout    time.Duration `envconfig:"GATEWAY_TIMEOUT"     default:"10s"`

	CatalogPageSize          int    `envconfig:"CATALOG_PAGE_SIZE"            default:"6"`
	CatalogReloadOnCancel    bool   `envconfig:"CATALOG_RELOAD_ON_CANCEL"     default:"true"`
	CatalogResetPageOnFilter bool   `envconfig:"CATALOG_RESET_PAGE_ON_FILTER" default:"true"`
	UploadConcurrency        int    `envconfig:"UPLOAD_CONCURRENCY"           default:"3"`
	ProductIDSeed            string `envconfig:"PRODUCT_ID_SEED"              default:"TBP10000"`
}

var (
	config Config
	once   sync.Once
)

// LoadConfig reads .env (if present) and the environment once per process.
func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process()
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: Console Port=%s, gRPC Health Port=%s, LogLevel=%s", config.ConsolePort, config.GrpcHealthPort, config.LogLevel)
		logger.Infof("Configuration loaded: Catalog=%s, Orders=%s, Timeout=%s", config.CatalogServiceURL, config.OrderServiceURL, config.GatewayTimeout)
	})
	return &config
}

// Process reads the configuration from the environment without touching .env.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
