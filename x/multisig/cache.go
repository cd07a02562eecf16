package multisig

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// DefaultCacheSize is the number of derived addresses kept by a
// CachingDeriver when no size is given.
const DefaultCacheSize = 128

// CachingDeriver memoizes the addresses computed by the wrapped deriver.
// Derivation is a pure function of the descriptor, so cached entries never
// need to be invalidated.
type CachingDeriver struct {
	next  Deriver
	cache *lru.Cache
}

var _ Deriver = (*CachingDeriver)(nil)

// NewCachingDeriver wraps given deriver with a cache holding up to size
// entries.
func NewCachingDeriver(next Deriver, size int) (*CachingDeriver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return &CachingDeriver{next: next, cache: cache}, nil
}

// DeriveAddress returns the cached address or computes and caches it.
// Failures are not cached.
func (c *CachingDeriver) DeriveAddress(d Descriptor) (cosign.Address, error) {
	key := d.Key()
	if v, ok := c.cache.Get(key); ok {
		return v.(cosign.Address), nil
	}
	addr, err := c.next.DeriveAddress(d)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, addr)
	return addr, nil
}

// Len returns the number of cached addresses.
func (c *CachingDeriver) Len() int {
	return c.cache.Len()
}
