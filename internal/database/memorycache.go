package database

import (
	"time"

	"service-request-form/internal/cache"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"
)

func ConnectInMemoryCache(ttl time.Duration) (*bigcache.BigCache, error) {
	cnf := bigcache.DefaultConfig(ttl)
	// sessions hold base64 photos, start shards with room for them
	cnf.MaxEntrySize = 1 << 20
	cnf.Verbose = false
	return bigcache.NewBigCache(cnf)
}

func InjectStore(key string, store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, store)
	}
}
