package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// list the API pushes to and the worker pops from; a nudge is just the job
// id, the job row in postgres stays the source of truth
const readyList = "bloghub:jobs:ready"

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// this closes the client

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Nudge tells any listening worker that a job just became runnable so it
// does not have to wait out its poll interval.
func (c *Client) Nudge(ctx context.Context, jobID string) error {
	return c.redisdb.LPush(ctx, readyList, jobID).Err()
}

// WaitForNudge blocks up to timeout for a nudge. Returns the job id, or ""
// when the wait timed out with nothing queued.
func (c *Client) WaitForNudge(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := c.redisdb.BRPop(ctx, timeout, readyList).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}

	// BRPop returns [key, value]
	if len(res) != 2 {
		return "", nil
	}

	return res[1], nil
}
