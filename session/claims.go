package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/utils"
)

// Claims are the parts of a bearer token the client cares about.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
	Roles     []string
}

// ReadClaims extracts identity claims from a JWT without verifying its
// signature. The backend verifies; the client only needs exp and roles to
// decide when to refresh and what to render.
//
// Roles are collected from "roles", "role", "realm_access.roles" and
// "resource_access.<clientID>.roles".
func ReadClaims(rawToken, clientID string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "parse token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "error extracting claims")
	}

	c := &Claims{}
	c.Subject, _ = claims.GetSubject()
	c.Email, _ = claims["email"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	c.Roles = utils.AppendUnique(c.Roles, utils.ToStringSlice(claims["roles"])...)
	if role, ok := claims["role"].(string); ok {
		c.Roles = utils.AppendUnique(c.Roles, role)
	}
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		c.Roles = utils.AppendUnique(c.Roles, utils.ToStringSlice(realm["roles"])...)
	}
	if resources, ok := claims["resource_access"].(map[string]any); ok && clientID != "" {
		if client, ok := resources[clientID].(map[string]any); ok {
			c.Roles = utils.AppendUnique(c.Roles, utils.ToStringSlice(client["roles"])...)
		}
	}
	return c, nil
}
