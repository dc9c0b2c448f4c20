package cmd

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// lazyProvider defers OIDC discovery until the identity provider is first
// needed, so commands that never touch it work offline. A failed discovery
// is retried on the next use.
type lazyProvider struct {
	cfg config.OIDCConfig

	mu       sync.Mutex
	provider *session.OIDCProvider
}

var _ session.IdentityProvider = (*lazyProvider)(nil)

func newLazyProvider(cfg config.OIDCConfig) *lazyProvider {
	return &lazyProvider{cfg: cfg}
}

func (l *lazyProvider) get(ctx context.Context) (*session.OIDCProvider, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.provider != nil {
		return l.provider, nil
	}
	// go-oidc keeps the context for later key fetches
	p, err := session.NewOIDCProvider(context.WithoutCancel(ctx), l.cfg.GetIssuer(), l.cfg.GetClientID(), l.cfg.GetRedirectURL(), l.cfg.GetScopes())
	if err != nil {
		return nil, err
	}
	l.provider = p
	return p, nil
}

func (l *lazyProvider) AuthCodeURL(state, nonce, verifier string) string {
	p, err := l.get(context.Background())
	if err != nil {
		log.Err(err).Msg("Identity provider unavailable")
		return ""
	}
	return p.AuthCodeURL(state, nonce, verifier)
}

func (l *lazyProvider) Exchange(ctx context.Context, code, verifier, nonce string) (*session.Tokens, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.Exchange(ctx, code, verifier, nonce)
}

func (l *lazyProvider) Refresh(ctx context.Context, refreshToken string) (*session.Tokens, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.Refresh(ctx, refreshToken)
}

func (l *lazyProvider) EndSessionURL(idTokenHint, postLogoutURL string) string {
	p, err := l.get(context.Background())
	if err != nil {
		log.Err(err).Msg("Identity provider unavailable")
		return ""
	}
	return p.EndSessionURL(idTokenHint, postLogoutURL)
}
