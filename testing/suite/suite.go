package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	redisImage = "redis"
	redisTag   = "7-alpine"
	redisPort  = "6379/tcp"

	// containerTTL is a hard-kill safety net in seconds, in case a
	// test run dies without reaching cleanup.
	containerTTL = 120

	maxWait = 120 * time.Second
)

// Suite carries everything a repository test needs: a logger and a
// client against a disposable Redis container.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
	Addr    string
}

// New boots a throwaway Redis container, waits for it to accept
// connections and hands back a flushed client. The container is purged
// via t.Cleanup.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}
	pool.MaxWait = maxWait

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	_ = resource.Expire(containerTTL) // never returns an error

	t.Cleanup(func() {
		if purgeErr := pool.Purge(resource); purgeErr != nil {
			t.Fatalf("could not purge redis container: %v", purgeErr)
		}
	})

	addr := resource.GetHostPort(redisPort)

	client, err := dialRedis(ctx, pool, addr)
	if err != nil {
		t.Fatalf("could not connect to redis at %s: %v", addr, err)
	}

	// every suite starts from an empty keyspace
	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Storage: client,
		Addr:    addr,
	}
}

// dialRedis retries with backoff until the container accepts
// connections.
func dialRedis(ctx context.Context, pool *dockertest.Pool, addr string) (*redis.Client, error) {
	var client *redis.Client

	err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: addr})
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}
