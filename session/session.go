package session

import (
	"slices"
	"time"
)

// Session is the client's record of the current authenticated identity.
// Exactly one is live per process; only Client mutates it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Subject      string    `json:"subject,omitempty"`
	Email        string    `json:"email,omitempty"`
	Roles        []string  `json:"roles,omitempty"`
}

// IsExpired reports whether the access token is past its expiry. A zero
// ExpiresAt means the token carried no expiry claim and never expires client-side.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresWithin(now, 0)
}

// ExpiresWithin reports whether the access token expires before now+leeway.
func (s *Session) ExpiresWithin(now time.Time, leeway time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(s.ExpiresAt)
}

func (s *Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func (s *Session) clone() *Session {
	c := *s
	c.Roles = slices.Clone(s.Roles)
	return &c
}

// withTokens applies a refresh result. Fields the provider did not return are kept.
func (s *Session) withTokens(t *Tokens) *Session {
	updated := s.clone()
	updated.AccessToken = t.AccessToken
	updated.ExpiresAt = t.Expiry
	if t.RefreshToken != "" {
		updated.RefreshToken = t.RefreshToken
	}
	if t.IDToken != "" {
		updated.IDToken = t.IDToken
	}
	if t.Subject != "" {
		updated.Subject = t.Subject
	}
	if t.Email != "" {
		updated.Email = t.Email
	}
	if t.Roles != nil {
		updated.Roles = slices.Clone(t.Roles)
	}
	return updated
}

func sessionFromTokens(t *Tokens) *Session {
	return (&Session{}).withTokens(t)
}
