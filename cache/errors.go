package cache

import "github.com/jrsteele09/go-storefront/internal/errors"

// ErrNoFetcher is returned when a key is loaded before any fetch was registered for it.
var ErrNoFetcher = errors.New("no fetch function registered for key")
