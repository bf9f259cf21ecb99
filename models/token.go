package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair holds the credentials returned by the auth endpoints. The access
// token is an opaque bearer string attached to every authenticated request;
// the refresh token is exchanged for a new pair when the access token
// expires. The pair is always replaced wholesale, never field by field.
type TokenPair struct {
	// AccessToken is the compact JWS attached as "Authorization: Bearer".
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived credential used by the refresh flow.
	RefreshToken string `json:"refresh_token"`
}

// Empty reports whether no credentials are held.
func (t TokenPair) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// TokenExpiry parses signed without verifying its signature and returns the
// "exp" claim. The client only needs the expiry to decide whether a refresh
// is worth attempting before a request; validation is the server's job.
//
// Returns an error if the token cannot be parsed or carries no expiry claim.
func TokenExpiry(signed string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid token claims")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}

	return exp.Time, nil
}

// TokenSubject extracts the "sub" claim from signed without verifying the
// signature. Used to label the local session with the account it belongs to.
func TokenSubject(signed string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(signed, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("token subject: %w", err)
	}

	return sub, nil
}
