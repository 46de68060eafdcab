package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jwtauth "goldendogfarm-admin/internal/adapters/auth/jwt"
	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/ports/auth"

	"github.com/go-playground/validator/v10"
)

const LoginPath = "/api/v1/auth/login"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoSession    = errors.New("no active session")
)

// Credentials del formulario de ingreso.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Info es lo que la UI muestra del usuario logueado.
type Info struct {
	ID   int
	Name string
	Role string
}

// Manager maneja login/logout y entrega el token vigente.
type Manager struct {
	store    Store
	client   *httpclient.Client
	log      logger.Logger
	validate *validator.Validate
}

func New(store Store, client *httpclient.Client, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store:    store,
		client:   client,
		log:      log.With(map[string]any{"component": "session"}),
		validate: validator.New(),
	}
}

// Login autentica contra la API y guarda token, id, name y role juntos.
func (m *Manager) Login(ctx context.Context, email, password string) (Info, error) {
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := m.validate.Struct(creds); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var out struct {
		Token string `json:"token"`
	}
	err := m.client.Do(ctx, httpclient.Request{
		Method:    http.MethodPost,
		Path:      LoginPath,
		Body:      creds,
		Anonymous: true,
	}, &out)
	if err != nil {
		m.log.Warn("login failed", map[string]any{"email": creds.Email, "err": err})
		return Info{}, err
	}

	claims, err := jwtauth.DecodeUnverified(out.Token)
	if err != nil {
		return Info{}, err
	}

	if err := m.store.SetAll(ctx, map[string]string{
		KeyToken: out.Token,
		KeyID:    strconv.Itoa(claims.UserID),
		KeyName:  claims.Username,
		KeyRole:  claims.Role,
	}); err != nil {
		return Info{}, fmt.Errorf("save session: %w", err)
	}

	m.log.Info("signed in", map[string]any{"user_id": claims.UserID, "role": claims.Role})
	return infoFromClaims(claims), nil
}

// Logout borra las cuatro claves.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token lee el token del almacenamiento en cada llamada.
func (m *Manager) Token(ctx context.Context) (string, error) {
	tok, ok, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if !ok || strings.TrimSpace(tok) == "" {
		return "", ErrNoSession
	}
	return tok, nil
}

// TokenSource adapta Token para el httpclient.
func (m *Manager) TokenSource() httpclient.TokenSource {
	return m.Token
}

// Current devuelve id, name y role guardados.
func (m *Manager) Current(ctx context.Context) (Info, error) {
	if _, err := m.Token(ctx); err != nil {
		return Info{}, err
	}
	var info Info
	id, _, err := m.store.Get(ctx, KeyID)
	if err != nil {
		return Info{}, err
	}
	info.ID, _ = strconv.Atoi(id)
	if info.Name, _, err = m.store.Get(ctx, KeyName); err != nil {
		return Info{}, err
	}
	if info.Role, _, err = m.store.Get(ctx, KeyRole); err != nil {
		return Info{}, err
	}
	return info, nil
}

func infoFromClaims(c auth.Claims) Info {
	return Info{ID: c.UserID, Name: c.Username, Role: c.Role}
}

// IsAdmin indica si el rol guardado es administrador.
func (i Info) IsAdmin() bool {
	return auth.Claims{Role: i.Role}.IsAdmin()
}
