package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/integrator"
	"github.com/df07/go-pathspace-renderer/pkg/log"
	"github.com/df07/go-pathspace-renderer/pkg/renderer"
	"github.com/df07/go-pathspace-renderer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

var (
	defaultIntegrator  = integrator.DefaultConfig()
	defaultProgressive = renderer.DefaultProgressiveConfig()
)

// RenderFlags are the options of the render command.
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "cornell",
		Usage: "built-in scene to render (see the scenes command)",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width, 0 for the scene default",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height, 0 for the scene default",
	},
	cli.StringFlag{
		Name:  "integrator, i",
		Value: string(integrator.KindVCM),
		Usage: "light transport algorithm: pt, lt or vcm",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: defaultIntegrator.Mode.String(),
		Usage: "vcm estimators: lt, vc, vm or vcm",
	},
	cli.StringFlag{
		Name:  "strategy",
		Value: defaultIntegrator.Strategy.String(),
		Usage: "path tracer light sampling: direction, light or mis",
	},
	cli.IntFlag{
		Name:  "depth",
		Value: defaultIntegrator.MaxPathLength,
		Usage: "maximum number of segments in a path",
	},
	cli.IntFlag{
		Name:  "rr",
		Value: defaultIntegrator.RussianRouletteMinBounces,
		Usage: "bounces before russian roulette starts",
	},
	cli.Float64Flag{
		Name:  "min-contribution",
		Value: defaultIntegrator.MinimalContribution,
		Usage: "drop paths whose throughput falls below this value (biased, 0 disables)",
	},
	cli.IntFlag{
		Name:  "light-paths",
		Value: defaultIntegrator.LightPathCount,
		Usage: "light paths per pass and worker, 0 for one per pixel",
	},
	cli.Float64Flag{
		Name:  "radius",
		Value: defaultIntegrator.MergeRadius,
		Usage: "initial merge radius relative to the scene bounding sphere",
	},
	cli.Float64Flag{
		Name:  "alpha",
		Value: defaultIntegrator.RadiusAlpha,
		Usage: "merge radius reduction, 1 keeps the radius fixed",
	},
	cli.IntFlag{
		Name:  "max-light-vertices",
		Value: defaultIntegrator.MaxLightVertices,
		Usage: "light vertex capacity per worker, 0 for unbounded",
	},
	cli.StringFlag{
		Name:  "tracking",
		Value: defaultIntegrator.DistanceTracking.String(),
		Usage: "medium distance sampling: exponential, maximal-exponential or scattering-aware",
	},
	cli.IntFlag{
		Name:  "passes",
		Value: defaultProgressive.MaxPasses,
		Usage: "number of progressive passes",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: defaultProgressive.MaxSamplesPerPixel,
		Usage: "samples per pixel over all passes",
	},
	cli.IntFlag{
		Name:  "tile-size",
		Value: defaultProgressive.TileSize,
		Usage: "edge length of a render tile",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: defaultProgressive.NumWorkers,
		Usage: "render workers, 0 for one per cpu",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: defaultProgressive.Seed,
		Usage: "base random seed",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "render.png",
		Usage: "output image, .png or .tif",
	},
	cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on this address while rendering",
	},
}

type renderOptions struct {
	scene       scene.Info
	width       int
	height      int
	kind        integrator.Kind
	integrator  integrator.Config
	progressive renderer.ProgressiveConfig
	out         string
	metricsAddr string
}

// parseRenderOptions validates the render flags
func parseRenderOptions(ctx *cli.Context) (renderOptions, error) {
	var opts renderOptions
	var err error

	if opts.scene, err = scene.Lookup(ctx.String("scene")); err != nil {
		return opts, err
	}
	opts.width, opts.height = ctx.Int("width"), ctx.Int("height")
	if opts.width < 0 || opts.height < 0 {
		return opts, fmt.Errorf("frame size must not be negative, got %dx%d", opts.width, opts.height)
	}
	if opts.width == 0 {
		opts.width = opts.scene.DefaultWidth
	}
	if opts.height == 0 {
		opts.height = opts.scene.DefaultHeight
	}

	if opts.kind, err = integrator.ParseKind(ctx.String("integrator")); err != nil {
		return opts, err
	}

	config := integrator.Config{
		MaxPathLength:             ctx.Int("depth"),
		MinimalContribution:       ctx.Float64("min-contribution"),
		RussianRouletteMinBounces: ctx.Int("rr"),
		LightPathCount:            ctx.Int("light-paths"),
		MergeRadius:               ctx.Float64("radius"),
		RadiusAlpha:               ctx.Float64("alpha"),
		MaxLightVertices:          ctx.Int("max-light-vertices"),
	}
	if config.Mode, err = integrator.ParseMode(ctx.String("mode")); err != nil {
		return opts, err
	}
	if config.Strategy, err = integrator.ParseStrategy(ctx.String("strategy")); err != nil {
		return opts, err
	}
	if config.DistanceTracking, err = core.ParseDistanceTracking(ctx.String("tracking")); err != nil {
		return opts, err
	}
	if err = config.Validate(); err != nil {
		return opts, err
	}
	opts.integrator = config

	opts.progressive = defaultProgressive
	opts.progressive.MaxPasses = ctx.Int("passes")
	opts.progressive.MaxSamplesPerPixel = ctx.Int("spp")
	opts.progressive.TileSize = ctx.Int("tile-size")
	opts.progressive.NumWorkers = ctx.Int("workers")
	opts.progressive.Seed = ctx.Int64("seed")
	if err = opts.progressive.Validate(); err != nil {
		return opts, err
	}

	opts.out = ctx.String("out")
	if _, err = encoderFor(opts.out); err != nil {
		return opts, err
	}
	opts.metricsAddr = ctx.String("metrics-addr")

	return opts, nil
}

// Render a built-in scene progressively and save the result.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := parseRenderOptions(ctx)
	if err != nil {
		return err
	}

	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr)
		defer srv.Close()
	}

	sc := opts.scene.Build(opts.width, opts.height)
	logger.Infof("loaded %v", sc)

	factory, err := integrator.NewFactory(opts.kind, sc, opts.integrator)
	if err != nil {
		return err
	}

	r, err := renderer.NewProgressiveRenderer(sc, factory, opts.progressive, log.NewPrinter(log.New("renderer")))
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering %q at %dx%d with %s", opts.scene.Name, opts.width, opts.height, opts.kind)
	passes, errs := r.RenderProgressive(renderCtx)
	var history []renderer.RenderStats
	for result := range passes {
		history = append(history, result.Stats)
	}
	if err := <-errs; err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warningf("render interrupted after %d passes", len(history))
	}
	if len(history) == 0 {
		return errors.New("no pass completed, nothing to save")
	}

	if err := writeFilm(opts.out, r.Film()); err != nil {
		return err
	}
	logger.Noticef("saved %s", opts.out)

	displayPassStats(history)
	return nil
}

// serveMetrics exposes the integrator counters in the background
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server: %v", err)
		}
	}()
	logger.Infof("serving metrics on http://%s/metrics", addr)
	return srv
}

func displayPassStats(history []renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Samples/pixel", "Light batches", "Splats", "Render time"})

	var total time.Duration
	for i, stats := range history {
		total += stats.Duration
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1f", stats.AverageSamples),
			fmt.Sprintf("%d", stats.Batches),
			fmt.Sprintf("%d", stats.Splats),
			stats.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", total.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
