package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Keys of the runtime configuration document.
const (
	ProductAPIKey   = "productApiUrl"
	OrderAPIKey     = "orderApiUrl"
	InventoryAPIKey = "inventoryApiUrl"
)

const runtimeConfigTimeout = 5 * time.Second

// RuntimeConfig is a background fetch of base-URL overrides. Construction
// never waits for it; requests issued before it finishes use the fallbacks.
type RuntimeConfig struct {
	done chan struct{}
	err  error
}

// LoadRuntimeConfig starts fetching configURL and applies any recognised
// keys to targets. Failure is logged and leaves the fallbacks in place. An
// empty configURL disables the fetch.
func LoadRuntimeConfig(ctx context.Context, httpClient *http.Client, configURL string, targets map[string]*BaseURL) *RuntimeConfig {
	rc := &RuntimeConfig{done: make(chan struct{})}
	if configURL == "" {
		close(rc.done)
		return rc
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	go func() {
		defer close(rc.done)
		rc.err = fetchRuntimeConfig(ctx, httpClient, configURL, targets)
		if rc.err != nil {
			log.Warn().Err(rc.err).Str("url", configURL).Msg("Runtime config unavailable, using defaults")
		}
	}()
	return rc
}

// Done is closed once the fetch has finished, successfully or not.
func (rc *RuntimeConfig) Done() <-chan struct{} {
	return rc.done
}

// Err reports why the fetch failed. Only meaningful after Done is closed.
func (rc *RuntimeConfig) Err() error {
	select {
	case <-rc.done:
		return rc.err
	default:
		return nil
	}
}

func fetchRuntimeConfig(ctx context.Context, httpClient *http.Client, configURL string, targets map[string]*BaseURL) error {
	ctx, cancel := context.WithTimeout(ctx, runtimeConfigTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch runtime config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch runtime config: unexpected status %d", resp.StatusCode)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode runtime config: %w", err)
	}

	for key, target := range targets {
		value, ok := doc[key].(string)
		if !ok || value == "" || target == nil {
			continue
		}
		target.Override(value)
		log.Info().Str("key", key).Str("url", value).Msg("Base URL overridden")
	}
	return nil
}
