package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/platform/logger"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

// DefaultPageSize si ni Options ni Spec definen uno.
const DefaultPageSize = 5

// IdempotencyHeader viaja en cada POST/PUT/PATCH.
const IdempotencyHeader = "Idempotency-Key"

// FormState del formulario de una pantalla.
type FormState int

const (
	FormEmpty FormState = iota
	FormCreate
	FormUpdate
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormCreate:
		return "editing(create)"
	case FormUpdate:
		return "editing(update)"
	case FormSubmitting:
		return "submitting"
	default:
		return "empty"
	}
}

// Notifier muestra el resultado de una acción al usuario.
type Notifier interface {
	Success(action, message string)
	Failure(action, message string)
}

// Confirmer pide confirmación explícita. false => no se envía nada.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Reloader vuelve a pedir la página actual.
type Reloader interface {
	Reload(ctx context.Context) error
}

type Options struct {
	Client    *httpclient.Client
	Logger    logger.Logger
	Notifier  Notifier
	Confirmer Confirmer
	PageSize  int
	// Parent se recarga tras mutar un sub-recurso sin listado propio.
	Parent Reloader
}

// Manager liga una colección remota a un listado paginado y un formulario.
type Manager[R any, F any] struct {
	spec     Spec[R, F]
	client   *httpclient.Client
	log      logger.Logger
	notify   Notifier
	confirm  Confirmer
	parent   Reloader
	validate *validator.Validate
	newKey   func() string

	life   context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	items      []R
	total      int
	totalPages int
	page       int
	pageSize   int
	filters    Filters
	loading    bool
	listGen    uint64
	form       F
	formState  FormState
	inFlight   bool
}

func NewManager[R any, F any](spec Spec[R, F], opts Options) (*Manager[R, F], error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("%w: http client required", ErrInvalidInput)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	notify := opts.Notifier
	if notify == nil {
		notify = nopNotifier{}
	}
	confirm := opts.Confirmer
	if confirm == nil {
		confirm = NeverConfirm{}
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = spec.PageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	life, cancel := context.WithCancel(context.Background())
	return &Manager[R, F]{
		spec:     spec,
		client:   opts.Client,
		log:      log.With(map[string]any{"screen": spec.Name}),
		notify:   notify,
		confirm:  confirm,
		parent:   opts.Parent,
		validate: validator.New(),
		newKey:   uuid.NewString,
		life:     life,
		cancel:   cancel,
		page:     1,
		pageSize: pageSize,
		filters:  Filters{},
		form:     spec.NewForm(),
	}, nil
}

func (m *Manager[R, F]) Name() string      { return m.spec.Name }
func (m *Manager[R, F]) Label() string     { return m.spec.Label }
func (m *Manager[R, F]) Listable() bool    { return m.spec.Endpoints.Listable() }
func (m *Manager[R, F]) Columns() []string { return m.spec.Columns }
func (m *Manager[R, F]) FilterKeys() []string {
	return m.spec.Filters
}
func (m *Manager[R, F]) StatusLabels() map[string]string { return m.spec.Statuses }
func (m *Manager[R, F]) Spec() Spec[R, F]                 { return m.spec }

// opCtx deriva ctx y lo corta también cuando la pantalla se cierra.
func (m *Manager[R, F]) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(m.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (m *Manager[R, F]) closed() bool { return m.life.Err() != nil }

// -------------------------
// Listado
// -------------------------

// List pide una página. Gana la última llamada emitida: respuestas viejas se descartan.
func (m *Manager[R, F]) List(ctx context.Context, filters Filters, page, pageSize int) error {
	if page < 1 || pageSize < 1 {
		return fmt.Errorf("%w: page and page size must be >= 1", ErrInvalidInput)
	}
	path, err := m.spec.Endpoints.ListPath(filters)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed() {
		m.mu.Unlock()
		return ErrClosed
	}
	m.listGen++
	gen := m.listGen
	m.loading = true
	m.filters = filters.Clone()
	m.page = page
	m.pageSize = pageSize
	m.mu.Unlock()

	ctx, done := m.opCtx(ctx)
	defer done()

	var resp Page[R]
	err = m.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  filters.Query(page, pageSize, m.spec.Endpoints.Scope),
	}, &resp)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed() {
		return ErrClosed
	}
	if gen != m.listGen {
		m.log.Debug("stale list response dropped", map[string]any{"page": page, "gen": gen, "err": err})
		return ErrSuperseded
	}
	m.loading = false

	if err != nil {
		m.items = nil
		m.total = 0
		m.totalPages = 0
		m.log.Error("list failed", map[string]any{"page": page, "err": err})
		return err
	}

	m.items = resp.Data
	m.total = resp.TotalOr()
	m.totalPages = TotalPages(m.total, pageSize)
	return nil
}

// Reload repite el último listado (filtros, página y tamaño actuales).
func (m *Manager[R, F]) Reload(ctx context.Context) error {
	m.mu.Lock()
	filters, page, size := m.filters, m.page, m.pageSize
	m.mu.Unlock()
	return m.List(ctx, filters, page, size)
}

// Search aplica filtros nuevos desde la página 1.
func (m *Manager[R, F]) Search(ctx context.Context, filters Filters) error {
	m.mu.Lock()
	size := m.pageSize
	m.mu.Unlock()
	return m.List(ctx, filters, 1, size)
}

// SetPageSize cambia el tamaño y vuelve a la página 1.
func (m *Manager[R, F]) SetPageSize(ctx context.Context, n int) error {
	m.mu.Lock()
	filters := m.filters
	m.mu.Unlock()
	return m.List(ctx, filters, 1, n)
}

// GoToPage navega sólo si 1 <= p <= totalPages; fuera de rango no hace nada.
func (m *Manager[R, F]) GoToPage(ctx context.Context, p int) error {
	m.mu.Lock()
	filters, size, total := m.filters, m.pageSize, m.totalPages
	m.mu.Unlock()
	if p < 1 || p > total {
		return nil
	}
	return m.List(ctx, filters, p, size)
}

func (m *Manager[R, F]) Items() []R {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]R, len(m.items))
	copy(out, m.items)
	return out
}

// Rows devuelve los items como []any (vista no genérica).
func (m *Manager[R, F]) Rows() []any {
	items := m.Items()
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Manager[R, F]) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

func (m *Manager[R, F]) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPages
}

func (m *Manager[R, F]) Page() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

func (m *Manager[R, F]) PageSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageSize
}

func (m *Manager[R, F]) Filters() Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.Clone()
}

func (m *Manager[R, F]) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Window son las páginas del paginador para la página actual.
func (m *Manager[R, F]) Window() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PageWindow(m.page, m.totalPages, WindowSize)
}

// fetch pide una página sin tocar el estado de la pantalla.
func (m *Manager[R, F]) fetch(ctx context.Context, filters Filters, page, size int) (Page[R], error) {
	path, err := m.spec.Endpoints.ListPath(filters)
	if err != nil {
		return Page[R]{}, err
	}
	var resp Page[R]
	err = m.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  filters.Query(page, size, m.spec.Endpoints.Scope),
	}, &resp)
	return resp, err
}

// Each recorre todas las páginas con los filtros actuales hasta que fn devuelva false.
func (m *Manager[R, F]) Each(ctx context.Context, fn func(R) bool) error {
	if !m.Listable() {
		return ErrNotListable
	}
	ctx, done := m.opCtx(ctx)
	defer done()

	filters, size := m.Filters(), m.PageSize()
	for page := 1; ; page++ {
		resp, err := m.fetch(ctx, filters, page, size)
		if err != nil {
			return err
		}
		for _, r := range resp.Data {
			if !fn(r) {
				return nil
			}
		}
		if len(resp.Data) == 0 || page >= TotalPages(resp.TotalOr(), size) {
			return nil
		}
	}
}

// Find ubica un registro por id.
func (m *Manager[R, F]) Find(ctx context.Context, id int) (R, error) {
	var zero R
	if id <= 0 {
		return zero, fmt.Errorf("%w: id must be > 0", ErrInvalidInput)
	}
	if m.spec.Locate != nil {
		return m.spec.Locate(ctx, id)
	}
	if !m.Listable() {
		return zero, ErrNotListable
	}

	var (
		found R
		ok    bool
	)
	err := m.Each(ctx, func(r R) bool {
		if m.spec.RecordID(r) == id {
			found, ok = r, true
			return false
		}
		return true
	})
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%w: %s #%d", ErrNotFound, m.spec.Label, id)
	}
	return found, nil
}

// -------------------------
// Formulario
// -------------------------

// ResetForm restaura el literal por defecto y abre el form en modo alta.
func (m *Manager[R, F]) ResetForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = m.spec.NewForm()
	m.formState = FormCreate
}

// EditRecord copia el registro al form y lo abre en modo edición.
func (m *Manager[R, F]) EditRecord(r R) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = m.spec.FormFromRecord(r)
	m.formState = FormUpdate
}

// EditByID busca el registro y lo carga en el form.
func (m *Manager[R, F]) EditByID(ctx context.Context, id int) error {
	r, err := m.Find(ctx, id)
	if err != nil {
		return err
	}
	m.EditRecord(r)
	return nil
}

// CloseForm descarta el borrador.
func (m *Manager[R, F]) CloseForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = m.spec.NewForm()
	m.formState = FormEmpty
}

func (m *Manager[R, F]) Form() F {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// FormValue es Form() para la vista no genérica.
func (m *Manager[R, F]) FormValue() any { return m.Form() }

func (m *Manager[R, F]) FormState() FormState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formState
}

// UpdateForm modifica el borrador abierto.
func (m *Manager[R, F]) UpdateForm(fn func(*F)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.formState != FormCreate && m.formState != FormUpdate {
		return ErrFormClosed
	}
	fn(&m.form)
	return nil
}

// Patch aplica valores sueltos (por tag json) sobre el borrador abierto.
func (m *Manager[R, F]) Patch(values map[string]any) error {
	var decodeErr error
	err := m.UpdateForm(func(f *F) {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           f,
			TagName:          "json",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			decodeErr = err
			return
		}
		decodeErr = dec.Decode(values)
	})
	if err != nil {
		return err
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, decodeErr)
	}
	return nil
}

// -------------------------
// Mutaciones
// -------------------------

// begin toma el guard de request en vuelo.
func (m *Manager[R, F]) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed() {
		return ErrClosed
	}
	if m.inFlight {
		return ErrBusy
	}
	m.inFlight = true
	return nil
}

func (m *Manager[R, F]) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

// Submit confirma, valida y guarda.
func (m *Manager[R, F]) Submit(ctx context.Context) error {
	state := m.FormState()
	if state != FormCreate && state != FormUpdate {
		return ErrFormClosed
	}
	action := m.saveAction(state == FormUpdate)

	ok, err := m.confirm.Confirm(ctx, fmt.Sprintf("Save %s?", m.spec.Label))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	if err := m.validate.Struct(m.Form()); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			m.notify.Failure(action, err.Error())
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return m.Save(ctx)
}

// Save crea (id == 0) o actualiza (id > 0) con el payload permitido.
// Nunca es optimista: el listado sólo cambia al recargar.
func (m *Manager[R, F]) Save(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	m.mu.Lock()
	prev := m.formState
	if prev != FormCreate && prev != FormUpdate {
		m.mu.Unlock()
		return ErrFormClosed
	}
	form := m.form
	m.formState = FormSubmitting
	m.mu.Unlock()

	id := m.spec.FormID(form)
	update := id > 0
	action := m.saveAction(update)

	fail := func(err error) error {
		m.mu.Lock()
		if m.formState == FormSubmitting {
			m.formState = prev
		}
		m.mu.Unlock()
		f := Classify(err)
		m.log.Warn("save failed", map[string]any{"action": action, "status": f.Status, "err": err})
		m.notify.Failure(action, f.Message)
		return err
	}

	body, err := m.spec.Payload(form)
	if err != nil {
		return fail(fmt.Errorf("build payload: %w", err))
	}

	req := httpclient.Request{
		Method:  http.MethodPost,
		Path:    m.spec.Endpoints.AddPath(),
		Body:    body,
		Headers: map[string]string{IdempotencyHeader: m.newKey()},
	}
	if update {
		req.Method = m.spec.Endpoints.editMethod()
		req.Path = m.spec.Endpoints.EditPath(id)
	}

	opCtx, done := m.opCtx(ctx)
	defer done()

	if err := m.client.Do(opCtx, req, nil); err != nil {
		if m.closed() {
			return ErrClosed
		}
		return fail(err)
	}
	if m.closed() {
		return ErrClosed
	}

	m.mu.Lock()
	m.form = m.spec.NewForm()
	m.formState = FormEmpty
	m.mu.Unlock()

	m.log.Info("saved", map[string]any{"action": action, "id": id})
	m.notify.Success(action, fmt.Sprintf("%s saved", m.spec.Label))
	m.refresh(ctx)
	return nil
}

// Disable pide confirmación y sólo con un sí envía el PATCH de baja lógica.
func (m *Manager[R, F]) Disable(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be > 0", ErrInvalidInput)
	}
	if m.closed() {
		return ErrClosed
	}
	action := "disable " + m.spec.Label

	ok, err := m.confirm.Confirm(ctx, fmt.Sprintf("Disable %s #%d?", m.spec.Label, id))
	if err != nil {
		return err
	}
	if !ok {
		m.log.Debug("disable declined", map[string]any{"id": id})
		return ErrDeclined
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	opCtx, done := m.opCtx(ctx)
	defer done()

	err = m.client.Do(opCtx, httpclient.Request{
		Method:  http.MethodPatch,
		Path:    m.spec.Endpoints.DisablePath(id),
		Body:    struct{}{},
		Headers: map[string]string{IdempotencyHeader: m.newKey()},
	}, nil)
	if m.closed() {
		return ErrClosed
	}
	if err != nil {
		f := Classify(err)
		m.log.Warn("disable failed", map[string]any{"id": id, "status": f.Status, "err": err})
		m.notify.Failure(action, f.Message)
		return err
	}

	m.mu.Lock()
	m.form = m.spec.NewForm()
	m.formState = FormEmpty
	m.mu.Unlock()

	m.log.Info("disabled", map[string]any{"id": id})
	m.notify.Success(action, fmt.Sprintf("%s #%d disabled", m.spec.Label, id))
	m.refresh(ctx)
	m.clampPage(ctx)
	return nil
}

// refresh recarga la página actual, o la pantalla padre si no hay listado.
func (m *Manager[R, F]) refresh(ctx context.Context) {
	var err error
	switch {
	case m.Listable():
		err = m.Reload(ctx)
	case m.parent != nil:
		err = m.parent.Reload(ctx)
	}
	if err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrSuperseded) {
		m.log.Warn("reload after mutation failed", map[string]any{"err": err})
	}
}

// clampPage vuelve a la última página existente si la actual quedó fuera de rango.
func (m *Manager[R, F]) clampPage(ctx context.Context) {
	if !m.Listable() {
		return
	}
	m.mu.Lock()
	page, total, filters, size := m.page, m.totalPages, m.filters, m.pageSize
	m.mu.Unlock()
	if total == 0 || page <= total {
		return
	}
	if err := m.List(ctx, filters, total, size); err != nil && !errors.Is(err, ErrSuperseded) {
		m.log.Warn("reload of last page failed", map[string]any{"err": err})
	}
}

func (m *Manager[R, F]) saveAction(update bool) string {
	if update {
		return "update " + m.spec.Label
	}
	return "create " + m.spec.Label
}

// Close termina la vida de la pantalla: corta requests en vuelo e ignora respuestas tardías.
func (m *Manager[R, F]) Close() {
	m.cancel()
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Failure(string, string) {}

// AlwaysConfirm responde sí (flag --yes).
type AlwaysConfirm struct{}

func (AlwaysConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

// NeverConfirm es el default: sin diálogo no hay mutación.
type NeverConfirm struct{}

func (NeverConfirm) Confirm(context.Context, string) (bool, error) { return false, nil }
