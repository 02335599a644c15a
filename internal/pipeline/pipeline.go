package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/encoder"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/manifest"
	"github.com/EgehanU/image-reconstruction-with-dct/internal/profile"
)

// Config holds all parameters for a reconstruction run.
type Config struct {
	InputDir     string
	OutputDir    string
	Profile      profile.Profile
	Workers      int // images processed concurrently, 0 = NumCPU
	BlockWorkers int // goroutines per image for the block pass, 0 = NumCPU
	Quality      int // jpeg output quality
	MaxDim       int // downscale inputs larger than this, 0 = never
	Crop         bool
	Verbose      bool
}

// Pipeline orchestrates batch reconstruction.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	formats  []string
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	registry := encoder.NewRegistry()
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		formats:  registry.ResolveFormats(cfg.Profile.Formats),
	}
}

// Run executes the full pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if err := p.cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	if p.cfg.Verbose {
		logf("%s", p.registry.String())
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		logf("found %d images", len(sources))
	}

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				logf("processing: %s", s.Key)
			}

			sink := &FileSink{
				Registry:  p.registry,
				OutputDir: p.cfg.OutputDir,
				Key:       s.Key,
				Formats:   p.formats,
				Quality:   p.cfg.Quality,
			}
			results[idx] = processImage(s, p.cfg, sink)

			if p.cfg.Verbose && results[idx].err == nil {
				img := results[idx].image
				logf("done: %s (%d blocks, mse %.2f)", s.Key, img.Blocks, img.MSE)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Images[r.key] = r.image
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			logf("error: %v", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		logf("warning: %d of %d images had errors", len(errs), len(sources))
	}

	m.BuildInfo = p.buildInfo()
	m.ComputeStats()
	return m, nil
}

func (p *Pipeline) buildInfo() *manifest.BuildInfo {
	prof := p.cfg.Profile
	table := prof.EffectiveTable()
	rows := make([][]int, len(table))
	for x := range table {
		rows[x] = append([]int(nil), table[x][:]...)
	}
	return &manifest.BuildInfo{
		Workers:           p.cfg.Workers,
		BlockWorkers:      p.cfg.BlockWorkers,
		Table:             rows,
		Fill:              prof.Fill.String(),
		Rounding:          prof.Round.String(),
		IndexOrder:        prof.Order.String(),
		Dequant:           prof.Dequant.String(),
		RoundCoefficients: prof.RoundCoefficients,
	}
}

func logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[dctrecon] "+format+"\n", args...)
}
