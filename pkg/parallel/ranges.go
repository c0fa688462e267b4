package parallel

import "runtime"

// ForEachRange runs fn over [0, n) split into contiguous index ranges, one
// range per worker. Workers write only to their own output slots, so no
// synchronization beyond the final join is needed. Results are independent
// of the worker count as long as fn(i) depends only on i. A panic in fn
// propagates to the caller.
func ForEachRange(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	pool := NewPool(workers)

	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}

		lo, hi := start, end
		pool.Submit(func() {
			for i := lo; i < hi; i++ {
				fn(i)
			}
		})
	}
	pool.Wait()
}
