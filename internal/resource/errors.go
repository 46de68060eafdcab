package resource

import (
	"context"
	"errors"
	"net/http"

	"goldendogfarm-admin/internal/platform/httpclient"
)

// ErrSuperseded lo devuelve un List cuya respuesta se descartó porque hubo otro más nuevo.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
	ErrBusy         = errors.New("another request is in flight")
	ErrClosed       = errors.New("screen closed")
	ErrNotListable  = errors.New("resource has no list endpoint")
	ErrDeclined     = errors.New("cancelled by user")
	ErrFormClosed   = errors.New("form is not open")
	ErrSuperseded   = errors.New("list superseded by a newer request")
)

// StatusLocal marca fallas previas al envío (sin sesión, validación, etc.).
const StatusLocal = -1

// Failure es el resultado de clasificar un error para mostrarlo al usuario.
type Failure struct {
	Status  int
	Message string
}

const (
	msgBadRequest  = "invalid input"
	msgExpired     = "session expired, please sign in again"
	msgNotFound    = "record not found"
	msgServer      = "server error"
	msgUnreachable = "cannot reach the server"
	msgGeneric     = "request failed"
)

// Classify traduce err a uno de los mensajes fijos por código HTTP.
// 400/404/500 prefieren el mensaje del server.
func Classify(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return ClassifyStatus(he.StatusCode, he.ServerMessage())
	}
	if errors.Is(err, httpclient.ErrTransport) || errors.Is(err, context.DeadlineExceeded) {
		return ClassifyStatus(0, "")
	}
	return Failure{Status: StatusLocal, Message: msgGeneric + ": " + err.Error()}
}

// ClassifyStatus es total: cualquier status produce un mensaje no vacío.
func ClassifyStatus(status int, serverMsg string) Failure {
	f := Failure{Status: status}
	switch status {
	case http.StatusBadRequest:
		f.Message = orDefault(serverMsg, msgBadRequest)
	case http.StatusUnauthorized:
		f.Message = msgExpired
	case http.StatusNotFound:
		f.Message = orDefault(serverMsg, msgNotFound)
	case http.StatusInternalServerError:
		f.Message = orDefault(serverMsg, msgServer)
	case 0:
		f.Message = msgUnreachable
	default:
		f.Message = msgGeneric
	}
	return f
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
