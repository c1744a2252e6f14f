// Package redis connects the application to Redis.
//
// It wraps the go-redis client with env-driven configuration, a retrying
// Connect, and a healthcheck probe. The unread counter in pkg/unread is the
// main consumer.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
package redis
