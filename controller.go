package mosaic

import (
	"fmt"
	"sync"
)

// Controller shares one lazily built Engine among every output frame that
// uses the same animation frame, and drops the engine once the last of them
// has finished.
//
// The batch driver calls AddUse once per scheduled frame before submitting
// it, then AllowRelease once enumeration is complete. Each frame task calls
// Engine and, when done, Release. The engine is torn down exactly once, after
// AllowRelease and the final expected Release, in whatever order those
// arrive. A later Engine call builds a fresh one.
//
// All methods are safe for concurrent use. The lock guards bookkeeping only;
// decomposition with the returned engine runs outside it.
type Controller struct {
	mu sync.Mutex

	leafPath string
	params   EngineParams
	opts     controllerOptions

	useCount     int
	uses         int
	allowRelease bool
	engine       *Engine

	builds    int
	teardowns int
}

// ControllerStats is a snapshot of a Controller's bookkeeping.
type ControllerStats struct {
	UseCount     int
	Uses         int
	AllowRelease bool
	Live         bool
	Builds       int
	Teardowns    int
}

// NewController creates a controller for the leaf at leafPath. Nothing is
// loaded until the first Engine call.
func NewController(leafPath string, params EngineParams, opts ...ControllerOption) *Controller {
	o := controllerOptions{load: LoadLeaf}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		leafPath: leafPath,
		params:   params,
		opts:     o,
	}
}

// LeafPath returns the path of the controller's leaf sprite.
func (c *Controller) LeafPath() string {
	return c.leafPath
}

// AddUse registers one more expected consumer.
func (c *Controller) AddUse() {
	c.mu.Lock()
	c.useCount++
	c.mu.Unlock()
}

// Engine returns the shared engine, building it on first use. The engine
// stays valid until the caller's matching Release.
//
// A load or construction error is returned and nothing is cached; the next
// call tries again. Engine panics if AddUse was never called.
func (c *Controller) Engine() (*Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.useCount == 0 {
		panic("mosaic: Controller.Engine called without AddUse")
	}
	if c.engine != nil {
		return c.engine, nil
	}

	leaf, err := c.opts.load(c.leafPath)
	if err != nil {
		return nil, fmt.Errorf("mosaic: load leaf %s: %w", c.leafPath, err)
	}
	e, err := NewEngine(leaf, c.params, c.opts.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("mosaic: leaf %s: %w", c.leafPath, err)
	}

	// uses stays cumulative like useCount, so releases from tasks whose
	// Engine call failed still count toward teardown.
	c.engine = e
	c.builds++

	w, h := leaf.Bounds()
	Logger().Debug("mosaic: engine built", "leaf", c.leafPath, "width", w, "height", h, "uses", c.useCount)
	return e, nil
}

// Release marks one consumer as finished. It panics if called more times
// than AddUse.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uses >= c.useCount {
		panic("mosaic: Controller.Release called more often than AddUse")
	}
	c.uses++
	c.maybeTeardown()
}

// AllowRelease declares that no further AddUse calls will follow, so the
// engine may be dropped once every expected consumer has released it.
func (c *Controller) AllowRelease() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.allowRelease = true
	c.maybeTeardown()
}

// maybeTeardown drops the engine when the expected count is final and met.
// Callers hold c.mu.
func (c *Controller) maybeTeardown() {
	if !c.allowRelease || c.uses < c.useCount || c.engine == nil {
		return
	}

	stats := c.engine.CacheStats()
	sizes := c.engine.leaves.sizes()
	c.engine = nil
	c.teardowns++

	Logger().Debug("mosaic: engine released", "leaf", c.leafPath,
		"uses", c.uses, "cachedSizes", stats.Len, "sizes", sizes, "cacheHitRate", stats.HitRate)
}

// Stats returns a snapshot of the controller's counters.
func (c *Controller) Stats() ControllerStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ControllerStats{
		UseCount:     c.useCount,
		Uses:         c.uses,
		AllowRelease: c.allowRelease,
		Live:         c.engine != nil,
		Builds:       c.builds,
		Teardowns:    c.teardowns,
	}
}
