package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBody = 1 << 20 // 1MB para respuestas JSON
	maxBlob = 32 << 20
)

var (
	// ErrTransport marca fallas sin respuesta HTTP (red, DNS, timeout).
	ErrTransport = errors.New("httpclient: no response")
)

// TokenSource devuelve el bearer token a usar en cada request.
// Se consulta en cada llamada: un token rotado aplica en el siguiente request.
type TokenSource func(ctx context.Context) (string, error)

// Client envuelve *http.Client con helpers para la convención REST de la API.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, los paths relativos se resuelven contra él
	Token   TokenSource
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	return NewWithTransport(timeout, nil)
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	_, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// WithToken devuelve una copia del cliente que firma requests con ts.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.Token = ts
	return &cp
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// ServerMessage extrae el mensaje del body ({"error": ...} o {"message": ...}).
// Vacío si el body no es JSON o no trae mensaje.
func (e *HTTPError) ServerMessage() string {
	if e == nil || e.Body == "" {
		return ""
	}
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err != nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(payload.Message)
}

// Request describe una llamada. Body puede ser nil, un valor JSON-serializable o *Multipart.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
	// Anonymous omite el Authorization (login).
	Anonymous bool
}

// Do ejecuta req y decodifica la respuesta JSON en out (si out != nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	raw, _, err := c.send(ctx, req, maxBody)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

// Download trae un cuerpo binario (p.ej. PDF) y su Content-Type.
func (c *Client) Download(ctx context.Context, req Request) ([]byte, string, error) {
	return c.send(ctx, req, maxBlob)
}

func (c *Client) send(ctx context.Context, in Request, limit int64) ([]byte, string, error) {
	if c == nil || c.HTTP == nil {
		return nil, "", errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(in.Path)
	if err != nil {
		return nil, "", err
	}
	if len(in.Query) > 0 {
		fullURL += "?" + in.Query.Encode()
	}

	body, contentType, err := encodeBody(in.Body)
	if err != nil {
		return nil, "", err
	}

	method := in.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, "", fmt.Errorf("httpclient: new request: %w", err)
	}

	// Defaults
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if !in.Anonymous && c.Token != nil {
		token, err := c.Token(ctx)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Extra headers
	for k, v := range in.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		return nil, "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	// Leer body (limitado) para errores / decode
	raw, _ := readAtMost(resp.Body, limit)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return raw, resp.Header.Get("Content-Type"), nil
}

func encodeBody(in any) (io.Reader, string, error) {
	switch b := in.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		buf, ct, err := b.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: encode multipart: %w", err)
		}
		return buf, ct, nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: marshal json: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxBody
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}
