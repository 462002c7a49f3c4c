// Package resource bounds the shared resources of a build or a serving process.
//
// A Controller manages three budgets:
//
//   - Memory: tracked bytes with an optional hard limit (fail-fast), used by
//     the query embedding cache.
//   - Workers: a weighted semaphore limiting concurrent embedding calls.
//   - IO: a token bucket pacing artifact uploads and downloads.
//
// A nil *Controller is valid and imposes no limits:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:         8,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
package resource
