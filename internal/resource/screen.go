package resource

import "context"

// Screen es la vista no genérica de un Manager, para recorrer todas las pantallas igual.
type Screen interface {
	Reloader

	Name() string
	Label() string
	Listable() bool
	Columns() []string
	FilterKeys() []string
	StatusLabels() map[string]string

	List(ctx context.Context, filters Filters, page, pageSize int) error
	Search(ctx context.Context, filters Filters) error
	GoToPage(ctx context.Context, p int) error
	SetPageSize(ctx context.Context, n int) error
	Rows() []any
	Total() int
	TotalPages() int
	Page() int
	PageSize() int
	Window() []int

	ResetForm()
	EditByID(ctx context.Context, id int) error
	Patch(values map[string]any) error
	FormValue() any
	FormState() FormState
	CloseForm()
	Submit(ctx context.Context) error
	Save(ctx context.Context) error
	Disable(ctx context.Context, id int) error

	Lookups(ctx context.Context) (map[string][]Option, error)
	Close()
}

var _ Screen = (*Manager[struct{}, struct{}])(nil)
