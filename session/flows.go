package session

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

// Flow is a pending authorization-code flow, keyed by its state parameter.
type Flow struct {
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

// FlowStore is a thread-safe in-memory store of pending flows. Flows older
// than the timeout are rejected and swept on access.
type FlowStore struct {
	mu      sync.Mutex
	flows   map[string]Flow
	timeout time.Duration
	nowFunc func() time.Time
}

func NewFlowStore(timeout time.Duration, nowFunc func() time.Time) *FlowStore {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &FlowStore{
		flows:   make(map[string]Flow),
		timeout: timeout,
		nowFunc: nowFunc,
	}
}

func (f *FlowStore) Put(state string, flow Flow) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweep()
	f.flows[state] = flow
	return nil
}

// Take removes and returns the flow for state. Each state is usable once.
func (f *FlowStore) Take(state string) (Flow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	flow, ok := f.flows[state]
	if !ok {
		return Flow{}, errors.ErrInvalidState
	}
	delete(f.flows, state)

	if f.expired(flow) {
		return Flow{}, errors.Wrapf(errors.ErrInvalidState, "flow expired")
	}
	return flow, nil
}

func (f *FlowStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flows)
}

func (f *FlowStore) sweep() {
	for state, flow := range f.flows {
		if f.expired(flow) {
			delete(f.flows, state)
		}
	}
}

func (f *FlowStore) expired(flow Flow) bool {
	return f.timeout > 0 && f.nowFunc().Sub(flow.CreatedAt) > f.timeout
}
