package providerfake

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-storefront/session"
)

var _ session.IdentityProvider = (*FakeProvider)(nil)

var signingKey = []byte("fake-provider-key")

// FakeProvider is an in-process identity provider. Refresh and Exchange
// delegate to the configurable funcs; by default they mint fresh tokens.
type FakeProvider struct {
	AuthURL    string
	EndSession string

	RefreshFunc  func(ctx context.Context, refreshToken string) (*session.Tokens, error)
	ExchangeFunc func(ctx context.Context, code, verifier, nonce string) (*session.Tokens, error)

	refreshCalls  atomic.Int32
	exchangeCalls atomic.Int32

	mu        sync.Mutex
	lastNonce string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{AuthURL: "https://idp.test/auth"}
}

func (p *FakeProvider) AuthCodeURL(state, nonce, verifier string) string {
	p.mu.Lock()
	p.lastNonce = nonce
	p.mu.Unlock()

	q := url.Values{}
	q.Set("state", state)
	q.Set("nonce", nonce)
	return p.AuthURL + "?" + q.Encode()
}

func (p *FakeProvider) Exchange(ctx context.Context, code, verifier, nonce string) (*session.Tokens, error) {
	p.exchangeCalls.Add(1)
	if p.ExchangeFunc != nil {
		return p.ExchangeFunc(ctx, code, verifier, nonce)
	}
	if code == "" || verifier == "" {
		return nil, errors.New("invalid grant")
	}
	return IssueTokens("user-1", time.Hour, "user"), nil
}

func (p *FakeProvider) Refresh(ctx context.Context, refreshToken string) (*session.Tokens, error) {
	p.refreshCalls.Add(1)
	if p.RefreshFunc != nil {
		return p.RefreshFunc(ctx, refreshToken)
	}
	return IssueTokens("user-1", time.Hour, "user"), nil
}

func (p *FakeProvider) EndSessionURL(idTokenHint, postLogoutURL string) string {
	if p.EndSession == "" {
		return ""
	}
	return p.EndSession + "?post_logout_redirect_uri=" + url.QueryEscape(postLogoutURL)
}

func (p *FakeProvider) RefreshCalls() int {
	return int(p.refreshCalls.Load())
}

func (p *FakeProvider) ExchangeCalls() int {
	return int(p.exchangeCalls.Load())
}

func (p *FakeProvider) LastNonce() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastNonce
}

// IssueTokens mints a token set whose access token is a signed JWT carrying
// sub, exp and roles.
func IssueTokens(subject string, ttl time.Duration, roles ...string) *session.Tokens {
	expiry := time.Now().Add(ttl)
	return &session.Tokens{
		AccessToken:  MintToken(subject, expiry, roles...),
		RefreshToken: "refresh-" + subject + "-" + expiry.Format(time.RFC3339Nano),
		IDToken:      "id-" + subject,
		Expiry:       expiry,
		Subject:      subject,
		Roles:        roles,
	}
}

// MintToken signs a JWT with the given subject, expiry and top-level roles claim.
func MintToken(subject string, expiry time.Time, roles ...string) string {
	return MintTokenWithClaims(jwt.MapClaims{
		"sub":   subject,
		"exp":   expiry.Unix(),
		"email": subject + "@example.com",
		"roles": roles,
	})
}

func MintTokenWithClaims(claims jwt.MapClaims) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}
