package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/flowkit/logger"
)

// Client is a Redis connection that serves lists as flows and sinks.
type Client struct {
	rdb       *goredis.Client
	log       *logger.Logger
	cfg       Config
	closeOnce sync.Once
	closeErr  error
}

// New validates cfg and creates a client. The connection is established
// lazily on the first command.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  duration(cfg.DialTimeout),
		ReadTimeout:  duration(cfg.ReadTimeout),
		WriteTimeout: duration(cfg.WriteTimeout),
	}
	log = log.WithComponent("redis")
	log.Debug("redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB))
	return &Client{rdb: goredis.NewClient(opts), log: log, cfg: cfg}, nil
}

// duration parses a value already checked by Config.Validate.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.cfg.Addr, err)
	}
	return nil
}

// Close releases the connection pool. Later calls return the first result.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.log.Debug("closing redis connection")
		c.closeErr = c.rdb.Close()
	})
	return c.closeErr
}
