package mosaic

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/mosaic/internal/cache"
)

// leafSize keys the resized-leaf cache.
type leafSize struct {
	w, h int
}

// leafCache holds the native leaf and every resized copy requested so far.
// Entries are never evicted; a frame sequence asks for a small set of sizes.
//
// Concurrent requests for the same size resize once; the returned images
// are shared and must be treated as read-only.
type leafCache struct {
	leaf    *Image
	resize  ResizeFunc
	resized *cache.Cache[leafSize, *Image]
}

func newLeafCache(leaf *Image, resize ResizeFunc) *leafCache {
	return &leafCache{
		leaf:    leaf,
		resize:  resize,
		resized: cache.New[leafSize, *Image](),
	}
}

// get returns the leaf scaled to exactly (w, h).
func (lc *leafCache) get(w, h int) (*Image, error) {
	return lc.resized.GetOrCreate(leafSize{w, h}, func() (*Image, error) {
		img, err := lc.resize(lc.leaf, w, h)
		if err != nil {
			return nil, fmt.Errorf("mosaic: resize leaf to %dx%d: %w", w, h, err)
		}
		if gw, gh := img.Bounds(); gw != w || gh != h {
			return nil, fmt.Errorf("mosaic: resizer returned %dx%d, want %dx%d", gw, gh, w, h)
		}
		return img, nil
	})
}

func (lc *leafCache) stats() CacheStats {
	return lc.resized.Stats()
}

// sizes lists the cached sizes as "WxH", smallest area first.
func (lc *leafCache) sizes() []string {
	keys := lc.resized.Keys()
	slices.SortFunc(keys, func(a, b leafSize) int {
		if c := cmp.Compare(a.w*a.h, b.w*b.h); c != 0 {
			return c
		}
		return cmp.Compare(a.w, b.w)
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%dx%d", k.w, k.h)
	}
	return out
}
