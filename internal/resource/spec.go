package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// APIPrefix de todas las rutas REST.
const APIPrefix = "/api/v1"

// Endpoints describe las acciones de un recurso: /api/v1/<Resource>/<Action>[/<id>].
type Endpoints struct {
	Resource string
	List     string // vacío => sin listado propio (sub-recurso)
	Add      string
	Edit     string
	// EditMethod es PUT o PATCH según el endpoint.
	EditMethod string
	Disable    string
	// Scope, si está, es el filtro que va en el path del listado (byDog/{dogId}).
	Scope string
}

func (e Endpoints) Listable() bool { return strings.TrimSpace(e.List) != "" }

func (e Endpoints) action(name string) string {
	return APIPrefix + "/" + e.Resource + "/" + name
}

func (e Endpoints) ListPath(f Filters) (string, error) {
	if !e.Listable() {
		return "", ErrNotListable
	}
	p := e.action(e.List)
	if e.Scope != "" {
		v := strings.TrimSpace(f[e.Scope])
		if v == "" {
			return "", fmt.Errorf("%w: filter %q is required", ErrInvalidInput, e.Scope)
		}
		p += "/" + url.PathEscape(v)
	}
	return p, nil
}

func (e Endpoints) AddPath() string { return e.action(e.Add) }

func (e Endpoints) EditPath(id int) string {
	return e.action(e.Edit) + "/" + strconv.Itoa(id)
}

func (e Endpoints) DisablePath(id int) string {
	return e.action(e.Disable) + "/" + strconv.Itoa(id)
}

func (e Endpoints) editMethod() string {
	if strings.EqualFold(e.EditMethod, http.MethodPatch) {
		return http.MethodPatch
	}
	return http.MethodPut
}

// Filters son los filtros nombrados de un listado. Los vacíos no se envían.
type Filters map[string]string

func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Query arma page/limit + filtros no vacíos. skip excluye la clave de scope.
func (f Filters) Query(page, limit int, skip string) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	for k, v := range f {
		if k == skip {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Keys ordenadas (salida estable en la CLI).
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Page es la respuesta de un listado.
type Page[R any] struct {
	Page  int  `json:"page"`
	Limit int  `json:"limit"`
	Total *int `json:"total"`
	Data  []R  `json:"data"`
}

// TotalOr devuelve total o len(data) si el server no lo envió.
func (p Page[R]) TotalOr() int {
	if p.Total != nil {
		return *p.Total
	}
	return len(p.Data)
}

// Lookup es una lista de referencia para los desplegables del formulario.
type Lookup struct {
	Name     string
	Resource string
	Action   string
	Filters  Filters
	// IDField/LabelField por defecto "id" y "name".
	IDField    string
	LabelField string
}

// Option es un valor elegible de un Lookup.
type Option struct {
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Spec es la configuración declarativa de una pantalla.
type Spec[R any, F any] struct {
	Name      string // clave de la pantalla en la CLI ("dogs")
	Label     string // singular legible ("dog")
	Endpoints Endpoints
	PageSize  int

	// NewForm devuelve el literal por defecto del formulario.
	NewForm func() F
	// FormFromRecord copia los campos editables (aplanando referencias anidadas).
	FormFromRecord func(R) F
	FormID         func(F) int
	RecordID       func(R) int
	// Payload construye el cuerpo permitido; puede devolver *httpclient.Multipart.
	Payload func(F) (any, error)
	// Locate busca un registro por id cuando no hay listado propio.
	Locate func(ctx context.Context, id int) (R, error)

	Filters  []string
	Columns  []string
	Statuses map[string]string
	Lookups  []Lookup
}

func (s Spec[R, F]) validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: spec name required", ErrInvalidInput)
	case strings.TrimSpace(s.Endpoints.Resource) == "":
		return fmt.Errorf("%w: %s: resource required", ErrInvalidInput, s.Name)
	case s.NewForm == nil || s.FormFromRecord == nil || s.FormID == nil || s.RecordID == nil || s.Payload == nil:
		return fmt.Errorf("%w: %s: form hooks required", ErrInvalidInput, s.Name)
	}
	return nil
}

// StatusLabel traduce un código de estado a su etiqueta (o el código si no hay).
func (s Spec[R, F]) StatusLabel(code string) string {
	if l, ok := s.Statuses[code]; ok {
		return l
	}
	return code
}
