package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token para claims ya autenticados.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
}
