package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/resolver"
	"github.com/desertthunder/songle/internal/services"
	"github.com/desertthunder/songle/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 5
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// WarmOpts configures a warm run.
type WarmOpts struct {
	Kind       models.Kind // Kind every input is resolved as
	NumWorkers int         // Concurrent fetches (default: 5, max: 10)
	RateLimit  float64     // Fetches per second (default: 5)
}

// WarmItemResult is the outcome for a single input.
type WarmItemResult struct {
	Input  string                  `json:"input"`
	Ref    models.CatalogReference `json:"-"`
	Source string                  `json:"source,omitempty"`
	Tracks int                     `json:"tracks"`
	Error  error                   `json:"-"`
}

// Success reports whether the pool was fetched.
func (r WarmItemResult) Success() bool {
	return r.Error == nil
}

// MarshalJSON renders Error as its message.
func (r WarmItemResult) MarshalJSON() ([]byte, error) {
	type alias WarmItemResult
	var msg string
	if r.Error != nil {
		msg = r.Error.Error()
	}
	return json.Marshal(struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias(r), msg})
}

// WarmResult summarizes a warm run. Results are in completion order.
type WarmResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []WarmItemResult `json:"results"`
}

type warmJob struct {
	step  int
	input string
	ref   models.CatalogReference
}

// Warmer pre-fetches candidate pools so later games start from the cache.
type Warmer struct {
	fetcher services.TrackFetcher
	logger  *log.Logger
}

// NewWarmer creates a [Warmer]. A nil logger writes to stderr.
func NewWarmer(fetcher services.TrackFetcher, logger *log.Logger) *Warmer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Warmer{fetcher: fetcher, logger: shared.WithLogger(logger, "component", "warmer")}
}

// sendProgress sends a progress update through the channel without blocking.
func (w *Warmer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Warm resolves every input as opts.Kind and fetches its pool on a rate limited worker pool.
//
// Inputs that fail to resolve or fetch are reported in the result; the returned error is
// non-nil only when the run could not start or ctx ended before every input was handled.
func (w *Warmer) Warm(ctx context.Context, prog chan<- ProgressUpdate, inputs []string, opts WarmOpts) (*WarmResult, error) {
	if w.fetcher == nil {
		return nil, fmt.Errorf("%w: catalog fetcher not initialized", shared.ErrUpstreamService)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no sources to warm", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	total := len(inputs)
	result := &WarmResult{Total: total, Results: make([]WarmItemResult, 0, total)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan warmJob, total)
	results := make(chan WarmItemResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go w.worker(ctx, &wg, jobs, results, limiter, prog, total)
	}

	w.sendProgress(prog, resolvingUpdate(total))
	for i, input := range inputs {
		ref, err := resolver.Resolve(input, opts.Kind)
		if err != nil {
			results <- WarmItemResult{Input: input, Error: err}
			continue
		}
		jobs <- warmJob{step: i + 1, input: input, ref: ref}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success() {
			result.Succeeded++
			w.sendProgress(prog, cachedUpdate(completed, total, res))
		} else {
			result.Failed++
			w.sendProgress(prog, failedUpdate(completed, total, res))
			w.logger.Debug("warm failed", "input", res.Input, "err", res.Error)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("warm interrupted: %w", err)
	}
	return result, nil
}

// worker drains jobs until the channel closes. Once ctx ends every remaining job fails fast.
func (w *Warmer) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan warmJob,
	results chan<- WarmItemResult,
	limiter *rate.Limiter,
	prog chan<- ProgressUpdate,
	total int,
) {
	defer wg.Done()

	for job := range jobs {
		res := WarmItemResult{Input: job.input, Ref: job.ref, Source: job.ref.String()}
		if err := limiter.Wait(ctx); err != nil {
			res.Error = err
			results <- res
			continue
		}

		w.sendProgress(prog, fetchingUpdate(job.step, total, job.ref))
		tracks, err := w.fetcher.Fetch(ctx, job.ref)
		if err != nil {
			res.Error = err
		} else {
			res.Tracks = len(tracks)
		}
		results <- res
	}
}
