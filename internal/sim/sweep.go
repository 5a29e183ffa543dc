package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Sweep runs each engine with its own Simulator. Engines are split into
// contiguous chunks and every chunk runs on its own goroutine, so no engine
// is ever touched by two goroutines. Results keep the input order.
func Sweep(ctx context.Context, engines []dynamo.Engine, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(engines))
	errs := make([]error, len(engines))

	ParallelFor(len(engines), 1, func(start, end int) {
		for i := start; i < end; i++ {
			results[i], errs[i] = New(engines[i]).Run(ctx, cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ParallelFor executes fn over [0, n) split across up to GOMAXPROCS workers.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	numWorkers := runtime.GOMAXPROCS(0)
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
