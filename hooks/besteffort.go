// Package hooks runs post-commit side effects whose failure must never fail
// the operation that triggered them.
package hooks

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Result records the outcome of one best-effort hook.
type Result struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunBestEffort runs fn, converting an error or a panic into a failed Result.
// The error is logged and returned only inside the Result.
func RunBestEffort(ctx context.Context, name string, fn func(ctx context.Context) error) (res Result) {
	start := time.Now()
	res.Name = name

	defer func() {
		if r := recover(); r != nil {
			res.OK = false
			res.Error = fmt.Sprintf("panic: %v", r)
			log.Printf("[hooks] Warning: best-effort %s panicked: %v", name, r)
		}
		res.Duration = time.Since(start)
	}()

	if err := fn(ctx); err != nil {
		res.Error = err.Error()
		log.Printf("[hooks] Warning: best-effort %s failed: %v", name, err)
		return res
	}
	res.OK = true
	return res
}

// Recorder collects hook results for one primary operation.
type Recorder struct {
	results []Result
}

// Run executes a hook through RunBestEffort and records its result.
func (r *Recorder) Run(ctx context.Context, name string, fn func(ctx context.Context) error) Result {
	res := RunBestEffort(ctx, name, fn)
	r.results = append(r.results, res)
	return res
}

// Results returns the recorded results in execution order.
func (r *Recorder) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Failed returns how many recorded hooks did not succeed.
func (r *Recorder) Failed() int {
	n := 0
	for _, res := range r.results {
		if !res.OK {
			n++
		}
	}
	return n
}
