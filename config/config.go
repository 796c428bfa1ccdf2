package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppName                       string   `envconfig:"APP_NAME" default:"fern"`
	Version                       string   `envconfig:"APP_VERSION" default:"dev"`
	APIPort                       int      `envconfig:"API_PORT" default:"3000"`
	WebPort                       int      `envconfig:"WEB_PORT" default:"3001"`
	LogLevel                      string   `envconfig:"LOG_LEVEL" default:"info"`
	PrettyLogs                    bool     `envconfig:"PRETTY_LOGS" default:"false"`
	HttpServerWriteTimeoutSeconds int      `envconfig:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" default:"10"`
	HttpServerReadTimeoutSeconds  int      `envconfig:"HTTP_SERVER_READ_TIMEOUT_SECONDS" default:"10"`
	HttpServerIdleTimeoutSeconds  int      `envconfig:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" default:"10"`
	MaxHeaderBytes                int      `envconfig:"HTTP_SERVER_MAX_HEADER_BYTES" default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `envconfig:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" default:"10"`
	AllowOrigins                  []string `envconfig:"HTTP_SERVER_ALLOW_ORIGINS" default:"*"`
	AllowMethods                  []string `envconfig:"HTTP_SERVER_ALLOW_METHODS" default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `envconfig:"STARTUP_MAX_ATTEMPTS" default:"5"`

	// Database driver
	DatabaseDriver string `envconfig:"DB_DRIVER" default:"postgres"`
	// Database host
	DatabaseHost string `envconfig:"DB_HOST" default:"localhost"`
	// Database port
	DatabasePort string `envconfig:"DB_PORT" default:"5432"`
	// Database user
	DatabaseUserName string `envconfig:"DB_USER_NAME" default:""`
	// Database user password
	DatabasePassword string `envconfig:"DB_PASSWORD" default:""`
	// Database name
	DatabaseName string `envconfig:"DB_NAME" default:"fern"`
	// Database SSL mode
	DatabaseSSLMode string `envconfig:"DB_SSL_MODE" default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `envconfig:"DB_MIGRATION_FOLDER_PATH" default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `envconfig:"DB_MIGRATION_VERSION" default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `envconfig:"DB_MIGRATION_FORCE" default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `envconfig:"DB_MIGRATION_AUTO_ROLLBACK" default:"true"`
	// Run migrations when fern-api starts
	DatabaseMigrateOnStartup bool `envconfig:"DB_MIGRATE_ON_STARTUP" default:"true"`

	// Auth Enabled - when false, X-User-ID is trusted for local testing
	AuthEnabled bool `envconfig:"AUTH_ENABLED" default:"false"`
	// Auth Issuer URL
	AuthIssuerURL string `envconfig:"AUTH_ISSUER_URL" default:""`
	// Auth Client ID
	AuthClientID string `envconfig:"AUTH_CLIENT_ID" default:""`

	// Redis overview cache
	RedisEnabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	OverviewTTL   time.Duration `envconfig:"OVERVIEW_CACHE_TTL" default:"5m"`

	// Kafka change events
	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"fern-changes"`

	// Tracing
	OTLPEnabled  bool   `envconfig:"OTLP_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT" default:"localhost:4317"`
	OTLPProtocol string `envconfig:"OTLP_PROTOCOL" default:"grpc"`
	OTLPInsecure bool   `envconfig:"OTLP_INSECURE" default:"true"`

	// Web client -> API
	APIBaseURL         string        `envconfig:"API_BASE_URL" default:"http://localhost:3000/api"`
	APIToken           string        `envconfig:"API_TOKEN" default:""`
	APITimeout         time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	DefaultSeeded      bool          `envconfig:"WEB_DEFAULT_SEEDED" default:"true"`
	FriendsPageSize    int           `envconfig:"WEB_FRIENDS_PAGE_SIZE" default:"10"`
	FilteredPageSize   int           `envconfig:"WEB_FILTERED_PAGE_SIZE" default:"200"`
	BroadScanPageSize  int           `envconfig:"WEB_BROAD_SCAN_PAGE_SIZE" default:"500"`
	FriendScanPageSize int           `envconfig:"WEB_FRIEND_SCAN_PAGE_SIZE" default:"100"`
	FriendScanMaxPages int           `envconfig:"WEB_FRIEND_SCAN_MAX_PAGES" default:"50"`
}

// Load reads an optional .env file and binds the environment onto Config.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// DatabaseDSN returns the lib/pq connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost, c.DatabasePort, c.DatabaseUserName, c.DatabasePassword, c.DatabaseName, c.DatabaseSSLMode)
}
