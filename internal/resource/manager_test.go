package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"goldendogfarm-admin/internal/platform/httpclient"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// -------------------------
// Fake API (in-memory)
// -------------------------

type color struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type colorForm struct {
	ID     int    `json:"id"`
	Name   string `json:"name" validate:"required"`
	Status string `json:"status"`
}

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
	Key    string
	Auth   string
}

type fakeAPI struct {
	mu        sync.Mutex
	colors    []color
	requests  []recorded
	failWith  int
	omitTotal bool
	// gate corre antes de atender (fuera del lock).
	gate func(r *http.Request)
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{}
	for i := 1; i <= n; i++ {
		f.colors = append(f.colors, color{ID: i, Name: fmt.Sprintf("color-%02d", i), Status: "1"})
	}
	return f
}

func (f *fakeAPI) set(fn func(*fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		gate(r)
	}

	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   body,
		Key:    r.Header.Get(IdempotencyHeader),
		Auth:   r.Header.Get("Authorization"),
	})

	if r.Method != http.MethodGet && f.failWith != 0 {
		w.WriteHeader(f.failWith)
		_, _ = w.Write([]byte(`{"error":"color name already exists"}`))
		return
	}

	const base = "/api/v1/colors/"
	action := strings.TrimPrefix(r.URL.Path, base)
	name, idStr, _ := strings.Cut(action, "/")
	id, _ := strconv.Atoi(idStr)

	switch {
	case r.Method == http.MethodGet && name == "getColor":
		f.list(w, r)
	case r.Method == http.MethodPost && name == "addColor":
		f.colors = append(f.colors, color{ID: len(f.colors) + 1, Name: fmt.Sprint(body["name"]), Status: fmt.Sprint(body["status"])})
		w.WriteHeader(http.StatusCreated)
	case (r.Method == http.MethodPut || r.Method == http.MethodPatch) && name == "editColor":
		for i := range f.colors {
			if f.colors[i].ID == id {
				f.colors[i].Name = fmt.Sprint(body["name"])
				return
			}
		}
		http.Error(w, `{"error":"color not found"}`, http.StatusNotFound)
	case r.Method == http.MethodPatch && name == "disableColor":
		for i := range f.colors {
			if f.colors[i].ID == id {
				f.colors[i].Status = "2"
				return
			}
		}
		http.Error(w, `{"error":"color not found"}`, http.StatusNotFound)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	visible := make([]color, 0)
	for _, c := range f.colors {
		if st := q.Get("status"); st != "" && c.Status != st {
			continue
		}
		if q.Get("status") == "" && c.Status == "2" {
			continue
		}
		if n := q.Get("name"); n != "" && !strings.Contains(c.Name, n) {
			continue
		}
		visible = append(visible, c)
	}

	start := (page - 1) * limit
	end := min(start+limit, len(visible))
	data := []color{}
	if start < len(visible) {
		data = visible[start:end]
	}

	out := map[string]any{"page": page, "limit": limit, "data": data}
	if !f.omitTotal {
		out["total"] = len(visible)
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeAPI) reqs() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

func (f *fakeAPI) mutations() []recorded {
	var out []recorded
	for _, r := range f.reqs() {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

// -------------------------
// Doubles
// -------------------------

type recNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recNotifier) Success(action, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, action+": "+msg)
}

func (n *recNotifier) Failure(action, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, action+": "+msg)
}

type confirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f confirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

func colorSpec() Spec[color, colorForm] {
	return Spec[color, colorForm]{
		Name:  "colors",
		Label: "color",
		Endpoints: Endpoints{
			Resource: "colors", List: "getColor", Add: "addColor",
			Edit: "editColor", EditMethod: http.MethodPut, Disable: "disableColor",
		},
		NewForm:        func() colorForm { return colorForm{Status: "1"} },
		FormFromRecord: func(c color) colorForm { return colorForm{ID: c.ID, Name: c.Name, Status: c.Status} },
		FormID:         func(f colorForm) int { return f.ID },
		RecordID:       func(c color) int { return c.ID },
		Payload: func(f colorForm) (any, error) {
			return map[string]any{"name": f.Name, "status": f.Status}, nil
		},
		Filters: []string{"name", "status"},
		Columns: []string{"id", "name", "status"},
	}
}

type harness struct {
	api    *fakeAPI
	ts     *httptest.Server
	mgr    *Manager[color, colorForm]
	notify *recNotifier
}

func newHarness(t *testing.T, n int, spec Spec[color, colorForm], confirm Confirmer) *harness {
	t.Helper()
	api := newFakeAPI(n)
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	c, err := httpclient.NewWithBaseURL(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	c = c.WithToken(func(context.Context) (string, error) { return "tok", nil })
	t.Cleanup(c.HTTP.CloseIdleConnections)

	if confirm == nil {
		confirm = AlwaysConfirm{}
	}
	notify := &recNotifier{}
	mgr, err := NewManager(spec, Options{Client: c, Notifier: notify, Confirmer: confirm, PageSize: 5})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(mgr.Close)
	return &harness{api: api, ts: ts, mgr: mgr, notify: notify}
}

// -------------------------
// Paginación
// -------------------------

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 3, []int{1, 2, 3}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{5, 20, []int{3, 4, 5, 6, 7}},
		{1, 20, []int{1, 2, 3, 4, 5}},
		{19, 20, []int{16, 17, 18, 19, 20}},
		{2, 4, []int{1, 2, 3, 4}},
		{1, 0, []int{}},
	}
	for _, tc := range cases {
		got := PageWindow(tc.current, tc.total, WindowSize)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("PageWindow(%d,%d) mismatch (-want +got):\n%s", tc.current, tc.total, diff)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[[2]int]int{
		{0, 5}: 0, {1, 5}: 1, {5, 5}: 1, {6, 5}: 2, {23, 10}: 3,
	}
	for in, want := range cases {
		if got := TotalPages(in[0], in[1]); got != want {
			t.Fatalf("TotalPages(%d,%d)=%d want %d", in[0], in[1], got, want)
		}
	}
}

func TestList_OmitsEmptyFilters(t *testing.T) {
	h := newHarness(t, 3, colorSpec(), nil)

	err := h.mgr.List(context.Background(), Filters{"name": "", "status": "   "}, 1, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	reqs := h.api.reqs()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Query != "limit=5&page=1" {
		t.Fatalf("expected only page/limit, got %q", reqs[0].Query)
	}
	if reqs[0].Auth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", reqs[0].Auth)
	}

	_ = h.mgr.Search(context.Background(), Filters{"name": "color-0"})
	if q := h.api.reqs()[1].Query; q != "limit=5&name=color-0&page=1" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestList_RecomputesTotalPages(t *testing.T) {
	h := newHarness(t, 12, colorSpec(), nil)
	ctx := context.Background()

	if err := h.mgr.List(ctx, nil, 3, 5); err != nil {
		t.Fatalf("List: %v", err)
	}
	if h.mgr.Total() != 12 || h.mgr.TotalPages() != 3 || len(h.mgr.Items()) != 2 {
		t.Fatalf("unexpected state total=%d pages=%d items=%d", h.mgr.Total(), h.mgr.TotalPages(), len(h.mgr.Items()))
	}
	if diff := cmp.Diff([]int{1, 2, 3}, h.mgr.Window()); diff != "" {
		t.Fatalf("window mismatch:\n%s", diff)
	}

	if err := h.mgr.Search(ctx, Filters{"name": "nope"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if h.mgr.Total() != 0 || h.mgr.TotalPages() != 0 {
		t.Fatalf("expected empty result to give 0 pages, got %d/%d", h.mgr.Total(), h.mgr.TotalPages())
	}
}

func TestList_MissingTotalFallsBackToDataLength(t *testing.T) {
	h := newHarness(t, 4, colorSpec(), nil)
	h.api.set(func(f *fakeAPI) { f.omitTotal = true })

	if err := h.mgr.List(context.Background(), nil, 1, 10); err != nil {
		t.Fatalf("List: %v", err)
	}
	if h.mgr.Total() != 4 || h.mgr.TotalPages() != 1 {
		t.Fatalf("expected total from data length, got %d/%d", h.mgr.Total(), h.mgr.TotalPages())
	}
}

func TestList_FailureClearsState(t *testing.T) {
	h := newHarness(t, 7, colorSpec(), nil)
	ctx := context.Background()
	if err := h.mgr.List(ctx, nil, 1, 5); err != nil {
		t.Fatalf("List: %v", err)
	}

	h.api.set(func(f *fakeAPI) {
		f.gate = func(*http.Request) { panic(http.ErrAbortHandler) }
	})
	err := h.mgr.Reload(ctx)
	if !errors.Is(err, httpclient.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(h.mgr.Items()) != 0 || h.mgr.Total() != 0 || h.mgr.TotalPages() != 0 {
		t.Fatalf("expected cleared state after failure")
	}
	if h.mgr.Loading() {
		t.Fatalf("loading flag must be cleared")
	}
}

func TestGoToPage_OutOfRangeIsNoop(t *testing.T) {
	h := newHarness(t, 7, colorSpec(), nil)
	ctx := context.Background()
	_ = h.mgr.List(ctx, nil, 1, 5)

	if err := h.mgr.GoToPage(ctx, 3); err != nil {
		t.Fatalf("GoToPage: %v", err)
	}
	if err := h.mgr.GoToPage(ctx, 0); err != nil {
		t.Fatalf("GoToPage: %v", err)
	}
	if len(h.api.reqs()) != 1 || h.mgr.Page() != 1 {
		t.Fatalf("out of range navigation must not hit the API")
	}

	if err := h.mgr.GoToPage(ctx, 2); err != nil || h.mgr.Page() != 2 {
		t.Fatalf("expected page 2, got %d err=%v", h.mgr.Page(), err)
	}
	if err := h.mgr.SetPageSize(ctx, 10); err != nil || h.mgr.Page() != 1 || h.mgr.TotalPages() != 1 {
		t.Fatalf("SetPageSize must reset to page 1")
	}
}

func TestList_LatestRequestWins(t *testing.T) {
	h := newHarness(t, 12, colorSpec(), nil)

	release := make(chan struct{})
	started := make(chan struct{})
	h.api.set(func(f *fakeAPI) {
		f.gate = func(r *http.Request) {
			if r.URL.Query().Get("page") == "1" {
				close(started)
				<-release
			}
		}
	})

	errc := make(chan error, 1)
	go func() { errc <- h.mgr.List(context.Background(), nil, 1, 5) }()
	<-started

	if err := h.mgr.List(context.Background(), nil, 2, 5); err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	close(release)
	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the older call, got %v", err)
	}

	if h.mgr.Page() != 2 {
		t.Fatalf("expected page 2 to win, got %d", h.mgr.Page())
	}
	if items := h.mgr.Items(); len(items) == 0 || items[0].ID != 6 {
		t.Fatalf("stale page 1 overwrote newer state: %+v", items)
	}
}

func TestClose_CancelsInFlightList(t *testing.T) {
	h := newHarness(t, 3, colorSpec(), nil)

	started := make(chan struct{})
	h.api.set(func(f *fakeAPI) {
		f.gate = func(r *http.Request) {
			close(started)
			<-r.Context().Done()
		}
	})

	errc := make(chan error, 1)
	go func() { errc <- h.mgr.List(context.Background(), nil, 1, 5) }()
	<-started
	h.mgr.Close()

	if err := <-errc; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := h.mgr.Reload(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("closed screen must reject new work, got %v", err)
	}
}

// -------------------------
// Formulario y mutaciones
// -------------------------

func TestSave_CreateThenUpdate(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			spec := colorSpec()
			spec.Endpoints.EditMethod = method
			h := newHarness(t, 2, spec, nil)
			ctx := context.Background()

			h.mgr.ResetForm()
			if err := h.mgr.Patch(map[string]any{"name": "Golden"}); err != nil {
				t.Fatalf("Patch: %v", err)
			}
			if err := h.mgr.Save(ctx); err != nil {
				t.Fatalf("Save create: %v", err)
			}

			h.mgr.EditRecord(color{ID: 2, Name: "Cream", Status: "1"})
			if err := h.mgr.Save(ctx); err != nil {
				t.Fatalf("Save update: %v", err)
			}

			muts := h.api.mutations()
			if len(muts) != 2 {
				t.Fatalf("expected 2 mutations, got %+v", muts)
			}
			if muts[0].Method != http.MethodPost || muts[0].Path != "/api/v1/colors/addColor" {
				t.Fatalf("unexpected create request %+v", muts[0])
			}
			if muts[1].Method != method || muts[1].Path != "/api/v1/colors/editColor/2" {
				t.Fatalf("unexpected update request %+v", muts[1])
			}
			want := map[string]any{"name": "Golden", "status": "1"}
			if diff := cmp.Diff(want, muts[0].Body); diff != "" {
				t.Fatalf("payload must be allow-listed (-want +got):\n%s", diff)
			}
			if muts[0].Key == "" || muts[0].Key == muts[1].Key {
				t.Fatalf("each mutation needs its own idempotency key")
			}
		})
	}
}

func TestSave_SuccessResetsFormAndReloads(t *testing.T) {
	h := newHarness(t, 6, colorSpec(), nil)
	ctx := context.Background()
	_ = h.mgr.List(ctx, Filters{"name": "color"}, 2, 5)

	h.mgr.EditRecord(color{ID: 6, Name: "Sable", Status: "1"})
	if err := h.mgr.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if h.mgr.FormState() != FormEmpty {
		t.Fatalf("expected empty form, got %s", h.mgr.FormState())
	}
	if diff := cmp.Diff(colorForm{Status: "1"}, h.mgr.Form()); diff != "" {
		t.Fatalf("form must be reset to defaults:\n%s", diff)
	}

	reqs := h.api.reqs()
	last := reqs[len(reqs)-1]
	if last.Method != http.MethodGet || last.Query != "limit=5&name=color&page=2" {
		t.Fatalf("expected reload of current page, got %+v", last)
	}
	if len(h.notify.successes) != 1 {
		t.Fatalf("expected one success notice, got %v", h.notify.successes)
	}
}

func TestSave_FailureKeepsState(t *testing.T) {
	h := newHarness(t, 3, colorSpec(), nil)
	ctx := context.Background()
	_ = h.mgr.List(ctx, nil, 1, 5)
	before := h.mgr.Items()

	h.api.set(func(f *fakeAPI) { f.failWith = http.StatusBadRequest })
	h.mgr.ResetForm()
	_ = h.mgr.Patch(map[string]any{"name": "color-01"})

	err := h.mgr.Save(ctx)
	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if h.mgr.FormState() != FormCreate {
		t.Fatalf("failed save must return to editing, got %s", h.mgr.FormState())
	}
	if h.mgr.Form().Name != "color-01" {
		t.Fatalf("draft must survive a failed save")
	}
	if diff := cmp.Diff(before, h.mgr.Items()); diff != "" {
		t.Fatalf("list must not change on failure:\n%s", diff)
	}
	if got := h.notify.failures; len(got) != 1 || got[0] != "create color: color name already exists" {
		t.Fatalf("unexpected failure notices %v", got)
	}
	if len(h.api.reqs()) != 2 {
		t.Fatalf("failure must not trigger a reload")
	}
}

func TestSave_RequiresOpenForm(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)
	if err := h.mgr.Save(context.Background()); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
	if len(h.api.reqs()) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestSave_InFlightGuard(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	h.api.set(func(f *fakeAPI) {
		f.gate = func(r *http.Request) {
			if r.Method == http.MethodPost {
				close(started)
				<-release
			}
		}
	})

	h.mgr.ResetForm()
	_ = h.mgr.Patch(map[string]any{"name": "Black"})

	errc := make(chan error, 1)
	go func() { errc <- h.mgr.Save(context.Background()) }()
	<-started

	if err := h.mgr.Save(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := h.mgr.Disable(context.Background(), 1); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on disable, got %v", err)
	}
	close(release)
	if err := <-errc; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if n := len(h.api.mutations()); n != 1 {
		t.Fatalf("expected exactly one mutation, got %d", n)
	}
}

func TestSubmit_ConfirmsAndValidates(t *testing.T) {
	answer := false
	confirm := confirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
	h := newHarness(t, 1, colorSpec(), confirm)
	ctx := context.Background()

	h.mgr.ResetForm()
	if err := h.mgr.Submit(ctx); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}

	answer = true
	if err := h.mgr.Submit(ctx); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if len(h.api.reqs()) != 0 {
		t.Fatalf("nothing must be sent before validation passes")
	}

	_ = h.mgr.Patch(map[string]any{"name": "Red"})
	if err := h.mgr.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := len(h.api.mutations()); n != 1 {
		t.Fatalf("expected one create, got %d", n)
	}
}

func TestPatch_WeakTypingAndUnknownKeys(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)

	if err := h.mgr.Patch(map[string]any{"name": "x"}); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}

	h.mgr.ResetForm()
	if err := h.mgr.Patch(map[string]any{"id": "4", "name": "Blue"}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got := h.mgr.Form(); got.ID != 4 || got.Name != "Blue" || got.Status != "1" {
		t.Fatalf("unexpected form %+v", got)
	}
	if err := h.mgr.Patch(map[string]any{"colour": "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown key to be rejected, got %v", err)
	}
}

func TestEditRecord_RoundTrip(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)
	rec := color{ID: 9, Name: "Liver", Status: "2"}

	h.mgr.EditRecord(rec)
	if h.mgr.FormState() != FormUpdate {
		t.Fatalf("expected editing(update), got %s", h.mgr.FormState())
	}
	got := h.mgr.Form()
	back := color{ID: got.ID, Name: got.Name, Status: got.Status}
	if diff := cmp.Diff(rec, back); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
}

func TestEditByID_WalksPages(t *testing.T) {
	h := newHarness(t, 12, colorSpec(), nil)
	ctx := context.Background()

	if err := h.mgr.EditByID(ctx, 11); err != nil {
		t.Fatalf("EditByID: %v", err)
	}
	if h.mgr.Form().Name != "color-11" {
		t.Fatalf("unexpected form %+v", h.mgr.Form())
	}
	if _, err := h.mgr.Find(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDisable_OnlyAfterConfirmation(t *testing.T) {
	var prompts []string
	answer := false
	confirm := confirmFunc(func(_ context.Context, p string) (bool, error) {
		prompts = append(prompts, p)
		return answer, nil
	})
	h := newHarness(t, 3, colorSpec(), confirm)
	ctx := context.Background()

	if err := h.mgr.Disable(ctx, 2); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if len(h.api.reqs()) != 0 {
		t.Fatalf("declined confirmation must not hit the API")
	}

	confirm2 := errors.New("dialog dismissed")
	h.mgr.confirm = confirmFunc(func(context.Context, string) (bool, error) { return false, confirm2 })
	if err := h.mgr.Disable(ctx, 2); !errors.Is(err, confirm2) {
		t.Fatalf("expected dismissal error, got %v", err)
	}
	if len(h.api.reqs()) != 0 {
		t.Fatalf("dismissed confirmation must not hit the API")
	}

	h.mgr.confirm = confirm
	answer = true
	if err := h.mgr.Disable(ctx, 2); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	muts := h.api.mutations()
	if len(muts) != 1 || muts[0].Method != http.MethodPatch || muts[0].Path != "/api/v1/colors/disableColor/2" {
		t.Fatalf("unexpected disable request %+v", muts)
	}
	if len(muts[0].Body) != 0 {
		t.Fatalf("disable must send an empty body, got %v", muts[0].Body)
	}
	if len(prompts) != 2 || !strings.Contains(prompts[0], "#2") {
		t.Fatalf("unexpected prompts %v", prompts)
	}
	if h.mgr.Total() != 2 {
		t.Fatalf("expected reload after disable, total=%d", h.mgr.Total())
	}
}

func TestDisable_LastItemOnLastPageStepsBack(t *testing.T) {
	h := newHarness(t, 6, colorSpec(), nil)
	ctx := context.Background()

	if err := h.mgr.List(ctx, nil, 2, 5); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := h.mgr.Disable(ctx, 6); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if h.mgr.Page() != 1 || h.mgr.TotalPages() != 1 || len(h.mgr.Items()) != 5 {
		t.Fatalf("expected clamp to page 1 with 5 items, got page=%d pages=%d items=%d",
			h.mgr.Page(), h.mgr.TotalPages(), len(h.mgr.Items()))
	}
}

func TestDisable_FailureIsClassified(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)
	err := h.mgr.Disable(context.Background(), 42)
	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if got := h.notify.failures; len(got) != 1 || got[0] != "disable color: color not found" {
		t.Fatalf("unexpected failure notices %v", got)
	}
}

func TestMutation_MissingTokenIsPreflight(t *testing.T) {
	h := newHarness(t, 1, colorSpec(), nil)
	noSession := errors.New("no active session")
	h.mgr.client = h.mgr.client.WithToken(func(context.Context) (string, error) { return "", noSession })

	err := h.mgr.Disable(context.Background(), 1)
	if !errors.Is(err, noSession) {
		t.Fatalf("expected pre-flight error, got %v", err)
	}
	if len(h.api.reqs()) != 0 {
		t.Fatalf("no request must be sent without a token")
	}
	if got := h.notify.failures; len(got) != 1 || !strings.Contains(got[0], "no active session") {
		t.Fatalf("pre-flight error must reach the failure notice, got %v", got)
	}
}

// -------------------------
// Sub-recursos
// -------------------------

type reloadCounter struct {
	mu sync.Mutex
	n  int
}

func (r *reloadCounter) Reload(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	return nil
}

func TestSubResource_RefreshesParent(t *testing.T) {
	api := newFakeAPI(1)
	ts := httptest.NewServer(api)
	defer ts.Close()
	c, _ := httpclient.NewWithBaseURL(ts.URL, 0)
	defer c.HTTP.CloseIdleConnections()

	spec := colorSpec()
	spec.Endpoints.List = ""
	parent := &reloadCounter{}
	mgr, err := NewManager(spec, Options{Client: c, Confirmer: AlwaysConfirm{}, Parent: parent})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer mgr.Close()

	if err := mgr.Reload(context.Background()); !errors.Is(err, ErrNotListable) {
		t.Fatalf("expected ErrNotListable, got %v", err)
	}
	mgr.ResetForm()
	_ = mgr.Patch(map[string]any{"name": "Brindle"})
	if err := mgr.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mgr.Disable(context.Background(), 1); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if parent.n != 2 {
		t.Fatalf("expected parent reloaded twice, got %d", parent.n)
	}
}

func TestNewManager_DefaultConfirmerDeclines(t *testing.T) {
	api := newFakeAPI(1)
	ts := httptest.NewServer(api)
	defer ts.Close()
	c, _ := httpclient.NewWithBaseURL(ts.URL, 0)

	mgr, err := NewManager(colorSpec(), Options{Client: c})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer mgr.Close()

	if err := mgr.Disable(context.Background(), 1); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if mgr.PageSize() != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", mgr.PageSize())
	}
}

func TestNewManager_RejectsIncompleteSpec(t *testing.T) {
	spec := colorSpec()
	spec.Payload = nil
	if _, err := NewManager(spec, Options{Client: httpclient.New(0)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewManager(colorSpec(), Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without client, got %v", err)
	}
}
