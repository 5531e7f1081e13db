// Package renderer drives integrators over an image: tiles are rendered in
// parallel by workers that each own an integrator, and the image is refined
// over successive passes.
package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/integrator"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes; every pass traces a light path batch per worker
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed for tiles and workers
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 32,
		MaxPasses:          32, // one sample per pixel and one light batch per pass
		NumWorkers:         0,  // Auto-detect CPU count
		Seed:               0,
	}
}

// Validate reports settings the renderer cannot run with
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize < 1:
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	case c.MaxPasses < 1:
		return fmt.Errorf("passes must be positive, got %d", c.MaxPasses)
	case c.InitialSamples < 0 || c.MaxSamplesPerPixel < c.InitialSamples:
		return fmt.Errorf("samples must satisfy 0 <= initial <= max, got %d and %d", c.InitialSamples, c.MaxSamplesPerPixel)
	}
	return nil
}

// ProgressiveRenderer manages progressive rendering with multiple passes
type ProgressiveRenderer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile     // Tile management
	samplesTaken  int         // Samples per pixel taken so far
	film          *Film       // Shared film (global image coordinates)
	splats        *SplatQueue // Light path contributions of the current pass
	workerPool    *WorkerPool // Worker pool for parallel processing
	logger        core.Logger // Logger for rendering output
}

// NewProgressiveRenderer creates a renderer for the scene's camera resolution
func NewProgressiveRenderer(scene integrator.Scene, factory integrator.Factory, config ProgressiveConfig, logger core.Logger) (*ProgressiveRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	camera := scene.Camera()
	width, height := camera.Resolution()
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)

	workerPool, err := NewWorkerPool(factory, camera, len(tiles), config.NumWorkers, config.Seed)
	if err != nil {
		return nil, err
	}

	return &ProgressiveRenderer{
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		film:       NewFilm(width, height),
		splats:     NewSplatQueue(),
		workerPool: workerPool,
		logger:     logger,
	}, nil
}

// Film returns the accumulated image
func (pr *ProgressiveRenderer) Film() *Film {
	return pr.film
}

// Close stops the workers; the renderer cannot render afterwards
func (pr *ProgressiveRenderer) Close() {
	pr.workerPool.Stop()
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRenderer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	targetSamples := pr.config.InitialSamples + (passNumber-1)*remainingSamples/remainingPasses

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRenderer) RenderPass(passNumber int) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()
	targetSamples := pr.getSamplesForPass(passNumber)
	samples := max(0, targetSamples-pr.samplesTaken)

	pr.logger.Printf("Pass %d: %d samples per pixel (using %d workers)...\n",
		passNumber, samples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:        tile,
			PassNumber:  passNumber,
			Samples:     samples,
			FirstSample: pr.samplesTaken,
			TaskID:      taskID,
			Film:        pr.film,
			Splats:      pr.splats,
		})
	}

	// Wait for every tile so no worker still writes to the film
	var firstErr error
	batches := 0
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		pr.tiles[result.TaskID].PassesCompleted++
		batches += result.Batches
	}
	if firstErr != nil {
		pr.splats.Clear()
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, firstErr)
	}
	pr.samplesTaken += samples

	splatCount := pr.splats.Count()
	pr.splats.Drain(pr.film.AddSplat)
	pr.film.AddBatches(batches)

	stats := pr.film.Stats()
	stats.Splats = splatCount
	stats.Duration = time.Since(startTime)
	return pr.film.Image(), stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders every pass in the background. Passes are
// delivered on the first channel; a failure or cancellation on the second.
// Both channels are closed when rendering stops.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check for cancellation before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			img, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%.1f samples/pixel, %d light batches)\n",
				pass, stats.Duration, stats.AverageSamples, stats.Batches)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
