package records

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Record es una fila guardada tal como llegó del cliente.
// Data no incluye el id: se agrega al serializar.
type Record struct {
	ID        int
	Resource  string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone copia el primer nivel de Data.
func (r Record) Clone() Record {
	out := r
	out.Data = make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		out.Data[k] = v
	}
	return out
}

// ListQuery son page/limit y filtros por clave. Limit 0 => sin paginar.
type ListQuery struct {
	Filters map[string]string
	Page    int
	Limit   int
}

// Page es la respuesta de los listados.
type Page struct {
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
	Data  []map[string]any `json:"data"`
}

// asInt acepta los números tal como llegan de json (float64) o de multipart (string).
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
