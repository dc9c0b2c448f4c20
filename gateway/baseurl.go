package gateway

import (
	"strings"
	"sync/atomic"
)

// BaseURL is a backend's base URL: a compiled-in fallback that a runtime
// override can replace at any time. Requests read it when they are issued.
type BaseURL struct {
	fallback string
	override atomic.Pointer[string]
}

func NewBaseURL(fallback string) *BaseURL {
	return &BaseURL{fallback: strings.TrimRight(fallback, "/")}
}

func (b *BaseURL) String() string {
	if u := b.override.Load(); u != nil {
		return *u
	}
	return b.fallback
}

// Override replaces the fallback. An empty value restores it.
func (b *BaseURL) Override(u string) {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		b.override.Store(nil)
		return
	}
	b.override.Store(&u)
}

func (b *BaseURL) Overridden() bool {
	return b.override.Load() != nil
}
