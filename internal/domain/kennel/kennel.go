package kennel

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Estados genéricos de los catálogos.
const (
	StatusActive   = "1"
	StatusDisabled = "2"
)

// ActiveLabels aplica a los catálogos simples (activo / deshabilitado).
var ActiveLabels = map[string]string{
	StatusActive:   "active",
	StatusDisabled: "disabled",
}

// Ref es una referencia anidada {id, name} que el API devuelve en los listados.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IDOf tolera referencias ausentes.
func IDOf(r *Ref) int {
	if r == nil {
		return 0
	}
	return r.ID
}

// NullIfEmpty manda null en vez de "" (fechas opcionales, notas).
func NullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// NullIfZero manda null para ids opcionales.
func NullIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// Deref devuelve "" para punteros nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FlexString acepta string, número o null en el JSON y lo guarda como texto.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Int devuelve el valor como entero (0 si no es numérico).
func (f FlexString) Int() int {
	n, _ := strconv.Atoi(strings.TrimSpace(string(f)))
	return n
}
