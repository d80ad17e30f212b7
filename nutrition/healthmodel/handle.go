package healthmodel

import "sync"

// Handle lazily loads a model once and shares it across callers. A
// failed load does not stick: the next Get retries, so an artifact that
// becomes readable after startup is picked up without a restart.
type Handle struct {
	mu     sync.Mutex
	cond   *sync.Cond
	loader func() (*Model, error)
	model  *Model
	inFly  bool
}

// NewHandle wraps a loader, usually Load or LoadEmbedded, without
// invoking it.
func NewHandle(loader func() (*Model, error)) *Handle {
	h := &Handle{loader: loader}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Get returns the shared model, loading it on first use. Callers that
// arrive while a load is in flight wait for its outcome instead of
// racing loads of their own.
func (h *Handle) Get() (*Model, error) {
	h.mu.Lock()
	for {
		if h.model != nil {
			h.mu.Unlock()
			return h.model, nil
		}
		if !h.inFly {
			break
		}
		h.cond.Wait()
	}
	h.inFly = true
	h.mu.Unlock()

	model, err := h.loader()

	h.mu.Lock()
	h.inFly = false
	if err == nil {
		h.model = model
	}
	h.cond.Broadcast()
	h.mu.Unlock()
	return model, err
}

// Ready reports whether a model has been loaded. It never triggers a
// load, which keeps health probes cheap.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model != nil
}
