package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories do not depend on a
// concrete topology. Single node, cluster and sentinel clients all satisfy it.
type Client interface {
	redis.UniversalClient
}
