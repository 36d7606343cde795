package syncer

import (
	"context"
	"sync"
)

type Status string

const (
	StatusIdle    = Status("idle")
	StatusLoading = Status("loading")
	StatusReady   = Status("ready")
	StatusError   = Status("error")
)

// tracker drives the idle, loading, ready or error cycle of one hook.
// Every fetch gets a generation; starting a new one cancels the previous
// fetch and makes its result stale.
type tracker struct {
	mu     sync.Mutex
	status Status
	gen    uint64
	cancel context.CancelFunc
}

func (v *tracker) begin(parent context.Context) (context.Context, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	v.gen++
	v.cancel = cancel
	v.status = StatusLoading
	return ctx, v.gen
}

// finish settles the fetch and reports whether it is still the latest one.
func (v *tracker) finish(gen uint64, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if err != nil {
		v.status = StatusError
	} else {
		v.status = StatusReady
	}
	return true
}

func (v *tracker) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.status) == 0 {
		return StatusIdle
	}
	return v.status
}

// stop cancels the pending fetch and returns the hook to idle.
func (v *tracker) stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
	v.status = StatusIdle
}
