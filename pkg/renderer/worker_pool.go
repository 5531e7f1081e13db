package renderer

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/integrator"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile        *Tile
	PassNumber  int         // 1-based
	Samples     int         // Samples per pixel to take in this pass
	FirstSample int         // Samples per pixel taken in earlier passes
	TaskID      int         // For deterministic ordering
	Film        *Film       // Shared film; tiles own disjoint pixels
	Splats      *SplatQueue // Shared queue for light path contributions
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID  int
	Samples int // Eye samples taken
	Batches int // Light path batches started by this task
	Error   error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// Worker renders tiles with its own integrator. The integrator's light paths,
// vertex arena and freelists are never shared.
type Worker struct {
	ID          int
	integrator  integrator.Integrator
	camera      core.Camera
	sampler     core.Sampler // Wavelengths and light paths
	pass        int          // Last pass this worker began, 0 before the first
	wl          core.WavelengthSample
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool with one integrator per worker
func NewWorkerPool(factory integrator.Factory, camera core.Camera, maxTasks, numWorkers int, seed int64) (*WorkerPool, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),   // Buffer for every tile of a pass
		resultQueue: make(chan TileResult, maxTasks), // Buffer for every result of a pass
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		integ, err := factory()
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			integrator:  integ,
			camera:      camera,
			sampler:     core.NewRandomSampler(rand.New(rand.NewSource(seed + int64(i)*7919 + 1))),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp, nil
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		result := TileResult{TaskID: task.TaskID}

		// the first tile of a pass starts this worker's light path batch
		if w.pass != task.PassNumber {
			if err := w.beginPass(task); err != nil {
				result.Error = fmt.Errorf("worker %d: %w", w.ID, err)
				w.resultQueue <- result
				continue
			}
			result.Batches = 1
		}

		result.Samples = w.renderTile(task)
		w.resultQueue <- result
	}
}

// beginPass draws the pass's wavelengths and queues the integrator's light path splats
func (w *Worker) beginPass(task TileTask) error {
	w.pass = task.PassNumber
	w.wl = core.SampleWavelengths(w.sampler.Get1D())

	splats, err := w.integrator.BeginPass(task.PassNumber-1, w.wl, w.sampler)
	if err != nil {
		return err
	}
	for r := splats; r != nil; r = r.Next {
		if r.Kind == pathspace.LightPath {
			task.Splats.AddSplat(r.Raster, core.ToXYZ(r.Radiance, r.Wavelength))
		}
	}
	w.integrator.Release(splats)
	return nil
}

// renderTile takes the task's samples for every pixel of the tile
func (w *Worker) renderTile(task TileTask) int {
	width, height := task.Film.Size()
	bounds := task.Tile.Bounds
	sampler := core.NewRandomSampler(task.Tile.Random)

	taken := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			for s := 0; s < task.Samples; s++ {
				// consecutive samples of a pixel pair with different light paths
				sampleIndex := (task.FirstSample+s)*width*height + y*width + x
				raster := core.NewVec2(float64(x)+sampler.Get1D(), float64(y)+sampler.Get1D())
				ray := w.camera.GenerateRay(raster)

				results := w.integrator.TracePath(ray, raster, sampleIndex, w.wl, sampler)
				task.Film.Accumulate(x, y, results, task.Splats)
				w.integrator.Release(results)
				taken++
			}
		}
	}
	return taken
}
