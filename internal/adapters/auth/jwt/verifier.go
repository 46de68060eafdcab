package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldendogfarm-admin/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrUnauthorized  = errors.New("token unauthorized")
)

// DefaultTTL de los tokens emitidos por la API de desarrollo.
const DefaultTTL = 8 * time.Hour

// Verifier implementa auth.AuthVerifier y auth.TokenIssuer con HS256.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewVerifier(secret string, ttl time.Duration) *Verifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Verifier{
		secret: []byte(strings.TrimSpace(secret)),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (v *Verifier) IsConfigured() bool {
	return v != nil && len(v.secret) > 0
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if !v.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
	)
	mc := gojwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, mc, func(*gojwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, err := claimsFromMap(mc)
	if err != nil {
		return auth.Claims{}, err
	}
	if claims.UserID <= 0 {
		return auth.Claims{}, errors.New("jwt claims missing user id")
	}
	return claims, nil
}

// Issue firma un token con id, username, role, iat y exp.
func (v *Verifier) Issue(c auth.Claims) (string, error) {
	if !v.IsConfigured() {
		return "", ErrNotConfigured
	}
	now := v.now()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"id":       c.UserID,
		"username": c.Username,
		"role":     c.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(v.ttl).Unix(),
	})
	return tok.SignedString(v.secret)
}

// DecodeUnverified lee los claims sin validar firma ni expiración.
// El cliente confía en el token tal como lo entregó el login.
func DecodeUnverified(token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}
	mc := gojwt.MapClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, mc); err != nil {
		return auth.Claims{}, fmt.Errorf("decode token: %w", err)
	}
	return claimsFromMap(mc)
}

func claimsFromMap(mc gojwt.MapClaims) (auth.Claims, error) {
	var out auth.Claims
	switch id := mc["id"].(type) {
	case float64:
		out.UserID = int(id)
	case string:
		var n int
		if _, err := fmt.Sscanf(id, "%d", &n); err != nil {
			return auth.Claims{}, fmt.Errorf("invalid id claim %q", id)
		}
		out.UserID = n
	case nil:
	default:
		return auth.Claims{}, fmt.Errorf("invalid id claim type %T", id)
	}
	out.Username, _ = mc["username"].(string)
	out.Role, _ = mc["role"].(string)
	return out, nil
}
