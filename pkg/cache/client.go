package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client wraps the Redis client with logging. It is also the "redis"
// startup dependency.
type Client struct {
	rdb    *redis.Client
	logger ectologger.Logger
	addr   string
}

func NewClient(cfg Config, logger ectologger.Logger) *Client {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		logger: logger,
		addr:   addr,
	}
}

func (c *Client) GetName() string {
	return "redis"
}

func (c *Client) DependsOn() []string {
	return nil
}

func (c *Client) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", c.addr, err)
	}

	c.logger.Infof("Connected to Redis at %s", c.addr)
	return nil
}

func (c *Client) Stop(ctx context.Context) error {
	return c.rdb.Close()
}

// Redis returns the underlying client, used by health checks.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
