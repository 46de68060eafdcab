package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"goldendogfarm-admin/internal/resource"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	currentStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// generic pasa un valor tipado a mapas/slices por su forma JSON,
// así yaml y la tabla usan las mismas claves que el API.
func generic(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encode(w io.Writer, format string, v any) error {
	g, err := generic(v)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// writeValue muestra un objeto suelto (tabla clave/valor por defecto).
func writeValue(app *App, v any) error {
	if app.output != "table" {
		return encode(app.Out, app.output, v)
	}
	g, err := generic(v)
	if err != nil {
		return err
	}
	obj, ok := g.(map[string]any)
	if !ok {
		_, err := fmt.Fprintln(app.Out, cell(g))
		return err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	for _, k := range keys {
		t.Row(k, cell(obj[k]))
	}
	_, err = fmt.Fprintln(app.Out, t.Render())
	return err
}

// listView es la página actual tal como se serializa en json/yaml.
type listView struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int   `json:"total"`
	TotalPages int   `json:"totalPages"`
	Window     []int `json:"window"`
	Data       []any `json:"data"`
}

func writeList(app *App, s resource.Screen) error {
	if app.output != "table" {
		return encode(app.Out, app.output, listView{
			Page:       s.Page(),
			PageSize:   s.PageSize(),
			Total:      s.Total(),
			TotalPages: s.TotalPages(),
			Window:     s.Window(),
			Data:       s.Rows(),
		})
	}
	out, err := renderTable(s.Columns(), s.StatusLabels(), s.Rows())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(app.Out, out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.Out, pagerLine(s.Page(), s.TotalPages(), s.Total(), s.Window()))
	return err
}

func renderTable(cols []string, statuses map[string]string, rows []any) (string, error) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(cols...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		g, err := generic(r)
		if err != nil {
			return "", err
		}
		obj, _ := g.(map[string]any)
		line := make([]string, len(cols))
		for i, c := range cols {
			v := cell(obj[c])
			if isStatusColumn(c) {
				if l, ok := statuses[v]; ok {
					v = l
				}
			}
			line[i] = v
		}
		t.Row(line...)
	}
	return t.Render(), nil
}

func isStatusColumn(c string) bool {
	return c == "status" || strings.HasSuffix(c, "_Status")
}

// cell aplana una celda: referencias {id, name} muestran el nombre.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any:
		for _, k := range []string{"name", "dueDate", "id"} {
			if s := cell(x[k]); s != "" {
				return s
			}
		}
		return ""
	case []any:
		return strconv.Itoa(len(x)) + " items"
	default:
		return fmt.Sprint(x)
	}
}

// pagerLine dibuja « 3 4 [5] 6 7 » más el resumen.
func pagerLine(page, totalPages, total int, window []int) string {
	if totalPages == 0 {
		return mutedStyle.Render("no records")
	}
	parts := make([]string, 0, len(window)+2)
	parts = append(parts, "«")
	for _, p := range window {
		if p == page {
			parts = append(parts, currentStyle.Render("["+strconv.Itoa(p)+"]"))
			continue
		}
		parts = append(parts, strconv.Itoa(p))
	}
	parts = append(parts, "»")
	summary := mutedStyle.Render(fmt.Sprintf("page %d of %d, %d records", page, totalPages, total))
	return strings.Join(parts, " ") + "  " + summary
}

func writeOptions(app *App, lookups map[string][]resource.Option) error {
	if app.output != "table" {
		return encode(app.Out, app.output, lookups)
	}
	names := make([]string, 0, len(lookups))
	for n := range lookups {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("id", n).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
		for _, o := range lookups[n] {
			t.Row(strconv.Itoa(o.ID), o.Label)
		}
		if _, err := fmt.Fprintln(app.Out, t.Render()); err != nil {
			return err
		}
	}
	return nil
}
