package resource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"goldendogfarm-admin/internal/platform/httpclient"

	"golang.org/x/sync/errgroup"
)

// Lookups carga en paralelo las listas de referencia del formulario.
// Si una falla, se cancelan las demás y se devuelve el primer error.
func (m *Manager[R, F]) Lookups(ctx context.Context) (map[string][]Option, error) {
	if len(m.spec.Lookups) == 0 {
		return map[string][]Option{}, nil
	}
	ctx, done := m.opCtx(ctx)
	defer done()

	var (
		mu  sync.Mutex
		out = make(map[string][]Option, len(m.spec.Lookups))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, lk := range m.spec.Lookups {
		g.Go(func() error {
			opts, err := FetchLookup(gctx, m.client, lk)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", lk.Name, err)
			}
			mu.Lock()
			out[lk.Name] = opts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.log.Warn("lookups failed", map[string]any{"err": err})
		return nil, err
	}
	return out, nil
}

// FetchLookup pide la lista sin paginar y la reduce a id/label.
func FetchLookup(ctx context.Context, c *httpclient.Client, lk Lookup) ([]Option, error) {
	ep := Endpoints{Resource: lk.Resource, List: lk.Action}
	path, err := ep.ListPath(nil)
	if err != nil {
		return nil, err
	}

	var q map[string][]string
	if len(lk.Filters) > 0 {
		q = map[string][]string{}
		for k, v := range lk.Filters {
			if v = strings.TrimSpace(v); v != "" {
				q[k] = []string{v}
			}
		}
	}

	var resp Page[map[string]any]
	if err := c.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: path, Query: q}, &resp); err != nil {
		return nil, err
	}

	idField, labelField := lk.IDField, lk.LabelField
	if idField == "" {
		idField = "id"
	}
	if labelField == "" {
		labelField = "name"
	}

	out := make([]Option, 0, len(resp.Data))
	for _, row := range resp.Data {
		id, ok := asInt(row[idField])
		if !ok {
			continue
		}
		label := ""
		if v := row[labelField]; v != nil {
			label = fmt.Sprint(v)
		}
		out = append(out, Option{ID: id, Label: label})
	}
	return out, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
