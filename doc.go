// Package mosaic turns raster frames into mosaics of a small tinted sprite.
//
// # Overview
//
// Each frame is cut into strips matching the sprite's aspect ratio, and each
// strip is subdivided as a quadtree. Regions are split top-down until they
// reach a minimum size, then merged bottom-up while sibling colors stay
// within a similarity threshold. Every surviving region is filled with a
// background color and covered by a copy of the sprite, resized to the
// region and tinted with the region's color.
//
// # Quick Start
//
//	import "github.com/gogpu/mosaic"
//
//	leaf, err := mosaic.LoadLeaf("res/0.png")
//	if err != nil {
//	    return err
//	}
//	engine, err := mosaic.NewEngine(leaf, mosaic.EngineParams{
//	    MinSize: 8,
//	    Policy:  mosaic.Policy{Mode: mosaic.ModeChrominance, Threshold: 16},
//	})
//	if err != nil {
//	    return err
//	}
//	frame, _ := mosaic.LoadImage("in/img_1.png")
//	out, _ := engine.Decompose(frame)
//	_ = out.SavePNG("out/img_1.png")
//
// # Batches
//
// RunBatch processes a numbered frame sequence on a worker pool. Animation
// frames (sprites) are assigned to input frames round-robin, each one used
// for BatchConfig.Repeat consecutive inputs. A Controller per sprite builds
// its Engine on first use and drops it once every frame using it is done.
//
// # Concurrency
//
// An Engine may decompose many frames at once. Its resized-sprite cache is
// the only state shared between those calls.
//
// # Policies
//
// ModeLuminance compares channel 0 and yields gray tints. ModeChrominance
// compares squared RGB distance against 3·threshold² and yields colored
// tints. The same bound decides both splitting and merging.
package mosaic

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
