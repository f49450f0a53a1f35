package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init opens the shared redis client used for the catalog cache and the
// order-event channel.
func Init(addr string) error {
	Conn = redis.NewClient(&redis.Options{
		Addr: addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Conn.Ping(ctx).Err()
}
