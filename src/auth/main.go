// Package auth verifies the bearer tokens of the media service and
// decides which trust class may use which surface.
//
// Two HS256 secrets exist. Tokens signed with the gateway secret are
// issued to edge gateways and authorize uploads, tokens signed with the
// client secret authorize reads. Which secret verifies the signature is
// the only thing that distinguishes the two.
package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingToken          = errors.New("auth: missing token")
	ErrInvalidToken          = errors.New("auth: invalid token")
	ErrPermissionDenied      = errors.New("auth: permission denied")
	ErrMissingIdentityClaims = errors.New("auth: missing cameraId or buildingId")
	ErrSecrets               = errors.New("auth: client and gateway secrets must be set and differ")
)

type TrustClass int

const (
	Client TrustClass = iota + 1
	Gateway
)

func (t TrustClass) String() string {
	switch t {
	case Client:
		return "client"
	case Gateway:
		return "gateway"
	}
	return "unknown"
}

// Verified is the outcome of a successful verification. It carries no
// authorization decision.
type Verified struct {
	Class  TrustClass
	Claims jwt.MapClaims
}

// Authority holds the two signing secrets. It is safe for concurrent use.
type Authority struct {
	gatewaySecret []byte
	clientSecret  []byte
	parser        *jwt.Parser
}

func NewAuthority(clientSecret string, gatewaySecret string) (*Authority, error) {
	if clientSecret == "" || gatewaySecret == "" || clientSecret == gatewaySecret {
		return nil, ErrSecrets
	}
	return &Authority{
		gatewaySecret: []byte(gatewaySecret),
		clientSecret:  []byte(clientSecret),
		parser:        jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Verify checks the signature against the gateway secret, then the client
// secret. A token that is empty returns ErrMissingToken, anything else that
// does not verify returns ErrInvalidToken.
func (a *Authority) Verify(raw string) (Verified, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Verified{}, ErrMissingToken
	}
	if claims, ok := a.parse(raw, a.gatewaySecret); ok {
		return Verified{Class: Gateway, Claims: claims}, nil
	}
	if claims, ok := a.parse(raw, a.clientSecret); ok {
		return Verified{Class: Client, Claims: claims}, nil
	}
	return Verified{}, ErrInvalidToken
}

func (a *Authority) parse(raw string, secret []byte) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}
