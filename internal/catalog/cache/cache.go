// Package cache holds a capacity-bounded, in-memory mirror of products
// keyed by id. It is best-effort only: the store stays the source of
// truth, and callers decide when entries are written or evicted.
package cache

import (
	"strconv"
	"time"

	"github.com/viccon/sturdyc"

	"product-catalog/internal/catalog"
)

type ProductCache struct {
	client *sturdyc.Client[catalog.Product]
}

func New(capacity, numShards int, ttl time.Duration, evictionPercentage int) *ProductCache {
	return &ProductCache{
		client: sturdyc.New[catalog.Product](capacity, numShards, ttl, evictionPercentage),
	}
}

func (c *ProductCache) Get(id int64) (catalog.Product, bool) {
	return c.client.Get(key(id))
}

func (c *ProductCache) Put(p catalog.Product) {
	c.client.Set(key(p.ID), p)
}

func (c *ProductCache) Evict(id int64) {
	c.client.Delete(key(id))
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
