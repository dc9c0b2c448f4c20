package session

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Tokens is the result of a code exchange or refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
	Subject      string
	Email        string
	Roles        []string
}

// IdentityProvider is the redirect-based identity provider the session
// client talks to.
type IdentityProvider interface {
	AuthCodeURL(state, nonce, verifier string) string
	Exchange(ctx context.Context, code, verifier, nonce string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	// EndSessionURL returns "" when the provider has no end-session endpoint.
	EndSessionURL(idTokenHint, postLogoutURL string) string
}

// OIDCProvider implements IdentityProvider with discovery, authorization
// code + PKCE and ID token verification.
type OIDCProvider struct {
	oauth2Config       *oauth2.Config
	verifier           *oidc.IDTokenVerifier
	endSessionEndpoint string
}

var _ IdentityProvider = (*OIDCProvider)(nil)

// NewOIDCProvider performs discovery against issuer.
func NewOIDCProvider(ctx context.Context, issuer, clientID, redirectURL string, scopes []string) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	var metadata struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&metadata); err != nil {
		log.Err(err).Str("issuer", issuer).Msg("Failed to read provider metadata")
	}

	return &OIDCProvider{
		oauth2Config: &oauth2.Config{
			ClientID:    clientID,
			Endpoint:    provider.Endpoint(),
			RedirectURL: redirectURL,
			Scopes:      scopes,
		},
		verifier:           provider.Verifier(&oidc.Config{ClientID: clientID}),
		endSessionEndpoint: metadata.EndSessionEndpoint,
	}, nil
}

func (p *OIDCProvider) AuthCodeURL(state, nonce, verifier string) string {
	return p.oauth2Config.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.S256ChallengeOption(verifier))
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, verifier, nonce string) (*Tokens, error) {
	oauth2Token, err := p.oauth2Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("no ID token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("ID token verification failed: %w", err)
	}

	// Validate nonce to prevent replay attacks
	if idToken.Nonce != nonce {
		return nil, fmt.Errorf("invalid nonce")
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}

	tokens := p.tokens(oauth2Token)
	tokens.IDToken = rawIDToken
	tokens.Subject = idToken.Subject
	tokens.Email = claims.Email
	return tokens, nil
}

func (p *OIDCProvider) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	tokenSource := p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	tokens := p.tokens(newToken)
	if rawIDToken, ok := newToken.Extra("id_token").(string); ok {
		tokens.IDToken = rawIDToken
	}
	return tokens, nil
}

func (p *OIDCProvider) EndSessionURL(idTokenHint, postLogoutURL string) string {
	if p.endSessionEndpoint == "" {
		return ""
	}
	u, err := url.Parse(p.endSessionEndpoint)
	if err != nil {
		log.Err(err).Msg("Invalid end_session_endpoint")
		return ""
	}
	q := u.Query()
	q.Set("client_id", p.oauth2Config.ClientID)
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	if postLogoutURL != "" {
		q.Set("post_logout_redirect_uri", postLogoutURL)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// tokens copies the oauth2 token and reads roles and subject from the access token when it is a JWT.
func (p *OIDCProvider) tokens(t *oauth2.Token) *Tokens {
	tokens := &Tokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
	claims, err := ReadClaims(t.AccessToken, p.oauth2Config.ClientID)
	if err != nil {
		log.Debug().Err(err).Msg("access token is opaque, no roles available")
		return tokens
	}
	tokens.Subject = claims.Subject
	tokens.Email = claims.Email
	tokens.Roles = claims.Roles
	if claims.Roles == nil {
		tokens.Roles = []string{}
	}
	return tokens
}
