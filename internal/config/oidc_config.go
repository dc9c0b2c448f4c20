package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	issuerVar        = "OIDC_ISSUER"
	clientIDVar      = "OIDC_CLIENT_ID"
	callbackAddrVar  = "OIDC_CALLBACK_ADDR"
	scopesVar        = "OIDC_SCOPES"
	adminRoleVar     = "ADMIN_ROLE"
	refreshLeewayVar = "TOKEN_REFRESH_LEEWAY"
)

type OIDC struct {
	file *File
}

var _ OIDCConfig = OIDC{}

func (o OIDC) GetIssuer() string {
	return lookup(issuerVar, o.file.OIDC.Issuer, "http://localhost:8088/realms/cloud-native-ecommerce")
}

func (o OIDC) GetClientID() string {
	return lookup(clientIDVar, o.file.OIDC.ClientID, "storefront-cli")
}

// GetCallbackAddr is the loopback address the login redirect lands on.
func (o OIDC) GetCallbackAddr() string {
	return lookup(callbackAddrVar, o.file.OIDC.CallbackAddr, "127.0.0.1:8765")
}

func (o OIDC) GetRedirectURL() string {
	return "http://" + o.GetCallbackAddr() + "/callback"
}

func (o OIDC) GetScopes() []string {
	raw := lookup(scopesVar, strings.Join(o.file.OIDC.Scopes, " "), "openid profile email offline_access")
	return strings.Fields(raw)
}

func (o OIDC) GetAdminRole() string {
	return lookup(adminRoleVar, o.file.OIDC.AdminRole, "admin")
}

// GetRefreshLeeway is how far ahead of expiry the access token is refreshed.
func (o OIDC) GetRefreshLeeway() time.Duration {
	raw := lookup(refreshLeewayVar, o.file.OIDC.RefreshLeeway, "30s")
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warn().Str("value", raw).Msg("invalid refresh leeway, using 30s")
		return 30 * time.Second
	}
	return d
}

func (OIDC) GetAuthCodeTimeout() time.Duration {
	return 15 * time.Minute
}
