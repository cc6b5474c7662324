// backend/shared/go-storage/resolver.go
package storage

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

type resolverInputs struct {
	raw  string
	opts Options
}

// Resolver keeps the resolution of one changing input, for long-lived consumers
// (viewers, watch loops). Each Update that changes the inputs starts a new
// resolution; results of superseded resolutions and of resolutions finishing
// after Close are discarded. In-flight signing calls are not cancelled.
type Resolver struct {
	signer   Signer
	onChange func(Result)

	generation atomic.Uint64
	closed     atomic.Bool
	inflight   sync.WaitGroup

	// notifyMu orders commit+callback pairs; mu guards state and inputs.
	notifyMu sync.Mutex
	mu       sync.Mutex
	state    Result
	inputs   *resolverInputs
}

// NewResolver builds an idle Resolver. onChange, if non-nil, receives every
// committed state in commit order; it may call State but must not call Update.
func NewResolver(signer Signer, onChange func(Result)) *Resolver {
	return &Resolver{signer: signer, onChange: onChange}
}

// Update feeds new inputs. Identical inputs are a no-op. References that need no
// signing (or disabled resolution) are committed synchronously.
func (r *Resolver) Update(ctx context.Context, raw string, opts Options) {
	if r.closed.Load() {
		return
	}
	in := resolverInputs{raw: raw, opts: opts.normalized()}

	r.notifyMu.Lock()
	r.mu.Lock()
	if r.inputs != nil && *r.inputs == in {
		r.mu.Unlock()
		r.notifyMu.Unlock()
		return
	}
	r.inputs = &in
	gen := r.generation.Inc()

	ref := Classify(raw)
	needsSigning := !in.opts.Disabled && ref.Kind == KindSignable
	if needsSigning {
		r.state = Result{URL: raw, IsResolving: true}
	} else {
		r.state = Result{URL: raw}
	}
	snapshot := r.state
	r.mu.Unlock()
	r.notify(snapshot)
	r.notifyMu.Unlock()

	if !needsSigning {
		return
	}

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		res := sign(ctx, r.signer, ref, in.opts)
		r.commit(gen, res)
	}()
}

func (r *Resolver) commit(gen uint64, res Result) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if r.closed.Load() || r.generation.Load() != gen {
		r.mu.Unlock()
		return
	}
	r.state = res
	r.mu.Unlock()
	r.notify(res)
}

func (r *Resolver) notify(res Result) {
	if r.onChange != nil && !r.closed.Load() {
		r.onChange(res)
	}
}

// State returns the latest committed state.
func (r *Resolver) State() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Wait blocks until every started resolution has returned from the signer.
func (r *Resolver) Wait() {
	r.inflight.Wait()
}

// Close marks the consumer as gone: later results are dropped and Update is ignored.
func (r *Resolver) Close() {
	r.closed.Store(true)
}
