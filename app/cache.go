package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"alfredoramos.mx/site-builder/utils"
	"github.com/redis/rueidis"
)

var (
	rdb       rueidis.Client
	onceCache sync.Once
)

// Cache is shared by the public renderer, token revocation and the role
// and user lookups.
func Cache() rueidis.Client {
	onceCache.Do(func() {
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{utils.RedisAddress()},
			Password:    os.Getenv("REDIS_PASS"),
			SelectDB:    utils.RedisDB(),
		})
		if err != nil && !errors.Is(err, rueidis.Nil) {
			slog.Error(fmt.Sprintf("Could not connect to Redis: %v", err))
			os.Exit(1)
		}

		rdb = client
	})

	return rdb
}
