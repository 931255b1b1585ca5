// Package cache provides a generic, lazily populated, append-only cache for
// values that are expensive to build and read far more often than written.
//
//	c := cache.New[key, *image.ImageBuf]()
//	v, err := c.GetOrCreate(k, func() (*image.ImageBuf, error) {
//	    return src.ResizeBox(k.w, k.h)
//	})
//
// # Locking
//
// Lookups take a read lock only. A miss releases it, takes the write lock and
// checks again before building, so a value is created at most once per key
// for the lifetime of the cache. Entries are never evicted or replaced.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation
// (it contains a mutex).
package cache
