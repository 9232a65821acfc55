package track

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/star/sunpos/internal/spa"
)

// sampleJob is a unit of work for the worker pool.
type sampleJob struct {
	index int
	at    time.Time
}

// sampleResult is the output of a single position calculation.
type sampleResult struct {
	index  int
	sample Sample
	err    error
}

// WorkerPool manages a fixed number of goroutines computing track samples.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		logger:  logger.With("component", "track"),
	}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Run computes every sample of req. Samples are returned in time order;
// a sample whose calculation failed carries Error. The returned error is
// non-nil only when req itself is invalid or ctx is cancelled.
func (wp *WorkerPool) Run(ctx context.Context, req Request) ([]Sample, int, int, error) {
	times, err := req.Times()
	if err != nil {
		return nil, 0, 0, err
	}

	jobs := make(chan sampleJob, wp.workers*2)
	results := make(chan sampleResult, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result := computeSample(req, job)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, at := range times {
			select {
			case jobs <- sampleJob{index: i, at: at}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	samples := make([]Sample, len(times))
	var successCount, errorCount int

	for result := range results {
		samples[result.index] = result.sample
		if result.err != nil {
			errorCount++
			wp.logger.Debug("track sample failed",
				"time", result.sample.Time,
				"error", result.err,
			)
			continue
		}
		successCount++
	}

	if err := ctx.Err(); err != nil {
		return nil, successCount, errorCount, err
	}
	return samples, successCount, errorCount, nil
}

// computeSample runs the engine for one instant.
func computeSample(req Request, job sampleJob) sampleResult {
	in := req.Site.Input(job.at, req.Offsets.At(job.at), spa.Request{Incidence: req.Incidence})
	res, err := spa.Calculate(in)
	if err != nil {
		return sampleResult{
			index:  job.index,
			sample: Sample{Time: job.at, Error: err.Error()},
			err:    err,
		}
	}

	s := Sample{
		Time:         job.at,
		Zenith:       res.Zenith,
		Elevation:    res.Elevation(),
		Azimuth:      res.Azimuth,
		AzimuthAstro: res.AzimuthAstro,
	}
	if req.Incidence {
		inc := res.Incidence
		s.Incidence = &inc
	}
	return sampleResult{index: job.index, sample: s}
}
