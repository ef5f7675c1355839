package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the catalog repository needs. Any
// redis.UniversalClient satisfies it.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by GET-style commands when the key does not exist
const Nil = redis.Nil
