package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and waits for the server to answer a PING,
// retrying a few times while it comes up.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})

	var err error
	for i := 1; i <= 5; i++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}

		select {
		case <-ctx.Done():
			client.Close()
			return nil, fmt.Errorf("connect redis: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}

	client.Close()
	return nil, fmt.Errorf("could not connect to redis at %s after multiple attempts: %w", addr, err)
}
