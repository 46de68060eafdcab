package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo  Repository
	table *Table
	log   logger.Logger
	now   func() time.Time
	cost  int

	receiptFont []byte
}

func NewService(repo Repository, table *Table, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		table: table,
		log:   log.With(map[string]any{"component": "records"}),
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
	}
}

func (s *Service) Table() *Table { return s.table }

// SetReceiptFont cambia el TTF de los recibos PDF. nil vuelve al que viene embebido.
func (s *Service) SetReceiptFont(font []byte) error {
	if font != nil {
		if err := checkTTF(font); err != nil {
			return err
		}
	}
	s.receiptFont = font
	return nil
}

// List filtra y pagina. Los deshabilitados no salen salvo que se filtre por status.
func (s *Service) List(ctx context.Context, e Entity, q ListQuery) (Page, error) {
	all, err := s.repo.List(ctx, e.Name)
	if err != nil {
		return Page{}, err
	}

	byStatus := false
	for k := range q.Filters {
		byStatus = byStatus || e.isStatusKey(k)
	}
	visible := make([]Record, 0, len(all))
	for _, r := range all {
		if byStatus || !e.disabled(r.Data) {
			visible = append(visible, r)
		}
	}
	rows, err := s.rows(ctx, e, visible)
	if err != nil {
		return Page{}, err
	}
	matched := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		if matches(e, row, visible[i].Data, q.Filters) {
			matched = append(matched, row)
		}
	}

	page := Page{Page: 1, Limit: q.Limit, Total: len(matched)}
	if q.Limit > 0 {
		if q.Page > 1 {
			page.Page = q.Page
		}
		from := min((page.Page-1)*q.Limit, len(matched))
		to := min(from+q.Limit, len(matched))
		matched = matched[from:to]
	}
	page.Data = matched
	return page, nil
}

// Row arma la fila de un registro tal como sale en el listado.
func (s *Service) Row(ctx context.Context, e Entity, r Record) (map[string]any, error) {
	rows, err := s.rows(ctx, e, []Record{r})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// rows aplica View, resuelve los Joins y embebe los sub-recursos activos.
func (s *Service) rows(ctx context.Context, e Entity, recs []Record) ([]map[string]any, error) {
	refs, err := s.joinIndex(ctx, e)
	if err != nil {
		return nil, err
	}
	children, err := s.children(ctx, e)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		v := e.View(r)
		for _, j := range e.Joins {
			v[j.As] = joined(j, r.Data, refs[j.Entity])
		}
		for embed, byParent := range children {
			kids := byParent[r.ID]
			if kids == nil {
				kids = []map[string]any{}
			}
			v[embed] = kids
		}
		out = append(out, v)
	}
	return out, nil
}

// joinIndex carga una vez cada entidad referida, indexada por id.
func (s *Service) joinIndex(ctx context.Context, e Entity) (map[string]map[int]map[string]any, error) {
	out := map[string]map[int]map[string]any{}
	for _, j := range e.Joins {
		if _, done := out[j.Entity]; done {
			continue
		}
		target, ok := s.table.Entity(j.Entity)
		if !ok {
			return nil, fmt.Errorf("join %s.%s: unknown entity %s", e.Name, j.Key, j.Entity)
		}
		recs, err := s.repo.List(ctx, target.Name)
		if err != nil {
			return nil, err
		}
		byID := make(map[int]map[string]any, len(recs))
		for _, r := range recs {
			byID[r.ID] = target.View(r)
		}
		out[j.Entity] = byID
	}
	return out, nil
}

// joined devuelve nil sin id; con id desconocido la referencia conserva el id.
func joined(j Join, data map[string]any, byID map[int]map[string]any) any {
	id, ok := asInt(data[j.Key])
	if !ok || id <= 0 {
		if j.Flat {
			return ""
		}
		return nil
	}
	var label any = ""
	if t, ok := byID[id]; ok && t[j.field()] != nil {
		label = t[j.field()]
	}
	if j.Flat {
		return asString(label)
	}
	return map[string]any{"id": id, j.field(): label}
}

// matches compara texto por subcadena (sin mayúsculas) y el resto por igualdad.
func matches(e Entity, row, data map[string]any, filters map[string]string) bool {
	for k, want := range filters {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		got, ok := e.lookup(k, row, data)
		if !ok {
			return false
		}
		if s, isText := got.(string); isText && !e.isStatusKey(k) {
			if !strings.Contains(strings.ToLower(s), strings.ToLower(want)) {
				return false
			}
			continue
		}
		if !sameValue(got, want) {
			return false
		}
	}
	return true
}

// sameValue compara números como números ("01" == 1).
func sameValue(got any, want string) bool {
	if asString(got) == want {
		return true
	}
	g, okG := asInt(got)
	w, err := strconv.Atoi(want)
	return okG && err == nil && g == w
}

// children agrupa por id de padre las filas activas de los sub-recursos de parent.
func (s *Service) children(ctx context.Context, parent Entity) (map[string]map[int][]map[string]any, error) {
	kids := s.table.Children(parent.Name)
	if len(kids) == 0 {
		return nil, nil
	}
	out := make(map[string]map[int][]map[string]any, len(kids))
	for _, k := range kids {
		recs, err := s.repo.List(ctx, k.Name)
		if err != nil {
			return nil, err
		}
		active := make([]Record, 0, len(recs))
		for _, r := range recs {
			if !k.disabled(r.Data) {
				active = append(active, r)
			}
		}
		rows, err := s.rows(ctx, k, active)
		if err != nil {
			return nil, err
		}
		byParent := map[int][]map[string]any{}
		for i, r := range active {
			pid, ok := asInt(r.Data[k.ParentKey])
			if !ok {
				continue
			}
			byParent[pid] = append(byParent[pid], rows[i])
		}
		out[k.Embed] = byParent
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, e Entity, id int) (Record, error) {
	if id <= 0 {
		return Record{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, e.Name, id)
}

// Add guarda body como registro nuevo con el status activo por defecto.
func (s *Service) Add(ctx context.Context, e Entity, body map[string]any) (Record, error) {
	data := clean(e, body)
	if e.StatusField != "" && asString(data[e.StatusField]) == "" {
		data[e.StatusField] = e.Active
	}
	if e.Parent != "" {
		pid, ok := asInt(data[e.ParentKey])
		if !ok || pid <= 0 {
			return Record{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, e.ParentKey)
		}
		parent, _ := s.table.Entity(e.Parent)
		if _, err := s.repo.GetByID(ctx, parent.Name, pid); err != nil {
			return Record{}, err
		}
	}
	if e.Secret != "" {
		pw := asString(data[e.Secret])
		if pw == "" {
			return Record{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, e.Secret)
		}
		if err := s.setSecret(e, data, pw); err != nil {
			return Record{}, err
		}
	}
	if err := s.checkUnique(ctx, e, 0, data); err != nil {
		return Record{}, err
	}

	r, err := s.repo.Create(ctx, e.Name, data, s.now())
	if err != nil {
		return Record{}, err
	}
	s.log.Info("record created", map[string]any{"resource": e.Name, "id": r.ID})
	return r, nil
}

// Edit mezcla body sobre el registro. Un valor null borra la clave.
func (s *Service) Edit(ctx context.Context, e Entity, id int, body map[string]any) (Record, error) {
	data := clean(e, body)
	return s.Mutate(ctx, e, id, func(cur map[string]any) error {
		if e.Secret != "" {
			pw := asString(data[e.Secret])
			delete(data, e.Secret)
			if pw != "" {
				if err := s.setSecret(e, cur, pw); err != nil {
					return err
				}
			}
		}
		for k, v := range data {
			if v == nil {
				delete(cur, k)
				continue
			}
			cur[k] = v
		}
		return nil
	})
}

// Disable pasa el registro al status oculto. Nunca se borra.
func (s *Service) Disable(ctx context.Context, e Entity, id int) (Record, error) {
	if e.StatusField == "" {
		return Record{}, fmt.Errorf("%w: %s cannot be disabled", ErrInvalidInput, e.Name)
	}
	return s.Mutate(ctx, e, id, func(cur map[string]any) error {
		cur[e.StatusField] = e.Disabled
		return nil
	})
}

// Mutate aplica fn sobre una copia de Data y la guarda.
func (s *Service) Mutate(ctx context.Context, e Entity, id int, fn func(data map[string]any) error) (Record, error) {
	cur, err := s.Get(ctx, e, id)
	if err != nil {
		return Record{}, err
	}
	next := cur.Clone()
	if err := fn(next.Data); err != nil {
		return Record{}, err
	}
	if err := s.checkUnique(ctx, e, id, next.Data); err != nil {
		return Record{}, err
	}
	next.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, next); err != nil {
		return Record{}, err
	}
	s.log.Info("record updated", map[string]any{"resource": e.Name, "id": id})
	return next, nil
}

func clean(e Entity, body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		if k == "id" || k == e.IDKey || k == secretHashKey {
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Service) setSecret(e Entity, data map[string]any, pw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if err != nil {
		return fmt.Errorf("hash %s: %w", e.Secret, err)
	}
	delete(data, e.Secret)
	data[secretHashKey] = string(hash)
	return nil
}

func (s *Service) checkUnique(ctx context.Context, e Entity, id int, data map[string]any) error {
	if e.Unique == "" {
		return nil
	}
	want := strings.ToLower(strings.TrimSpace(asString(data[e.Unique])))
	if want == "" {
		return nil
	}
	all, err := s.repo.List(ctx, e.Name)
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.ID != id && strings.ToLower(strings.TrimSpace(asString(r.Data[e.Unique]))) == want {
			return fmt.Errorf("%w: %s %q", ErrConflict, e.Unique, want)
		}
	}
	return nil
}

// -------------------------
// Usuarios
// -------------------------

// Login busca un usuario activo por email y compara el hash.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Claims, error) {
	users, ok := s.table.Entity("users")
	if !ok {
		return auth.Claims{}, ErrInvalidCredentials
	}
	all, err := s.repo.List(ctx, users.Name)
	if err != nil {
		return auth.Claims{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, r := range all {
		if strings.ToLower(asString(r.Data["email"])) != email || users.disabled(r.Data) {
			continue
		}
		hash := asString(r.Data[secretHashKey])
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			break
		}
		return auth.Claims{UserID: r.ID, Username: asString(r.Data["name"]), Role: asString(r.Data["role"])}, nil
	}
	s.log.Warn("login rejected", map[string]any{"email": email})
	return auth.Claims{}, ErrInvalidCredentials
}

// SeedAdmin crea el administrador inicial si el email no existe.
func (s *Service) SeedAdmin(ctx context.Context, name, email, password string) error {
	users, ok := s.table.Entity("users")
	if !ok {
		return errors.New("users resource not registered")
	}
	_, err := s.Add(ctx, users, map[string]any{
		"name":     name,
		"email":    email,
		"role":     auth.RoleAdmin,
		"status":   users.Active,
		"password": password,
	})
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// Names de los recursos servidos, para el log de arranque.
func (s *Service) Names() []string {
	return s.table.Names()
}
