package records

import (
	"sort"
	"strings"
	"time"

	"goldendogfarm-admin/internal/domain/breedings"
	"goldendogfarm-admin/internal/domain/care"
	"goldendogfarm-admin/internal/domain/catalog"
	"goldendogfarm-admin/internal/domain/clinics"
	"goldendogfarm-admin/internal/domain/dogs"
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/domain/people"
	"goldendogfarm-admin/internal/domain/reservations"
	"goldendogfarm-admin/internal/resource"
)

// Op es lo que hace una acción del API.
type Op int

const (
	OpList Op = iota
	OpAdd
	OpEdit
	OpDisable
	OpDetail
	OpReceipt
)

// Entity describe cómo el server trata un recurso del cliente.
type Entity struct {
	Name      string
	Endpoints resource.Endpoints

	// IDKey se agrega junto a "id" cuando el cliente usa otra clave (vR_ID, dS_ID).
	IDKey string

	StatusField string
	Active      string
	Disabled    string

	// Sub-recurso embebido en el listado del padre.
	Parent    string
	ParentKey string
	Embed     string

	// Secret se guarda como hash bcrypt y nunca se devuelve.
	Secret string
	Unique string
	// AdminOnly exige rol administrador para mutar.
	AdminOnly bool

	Multipart bool
	Detail    string
	Receipt   string

	// Rename pasa claves guardadas (las del payload) a las que lee el cliente en el listado.
	Rename map[string]string
	Joins  []Join
	// Computed son claves sólo para filtrar, derivadas de Data (year/month de una fecha).
	Computed map[string]func(data map[string]any) any
}

// Join resuelve un id guardado en Key contra otra entidad.
// Flat deja sólo el texto de Field en As; si no, As es {"id": id, Field: texto}.
type Join struct {
	Key    string
	Entity string
	Field  string
	As     string
	Flat   bool
}

func (j Join) field() string {
	if j.Field == "" {
		return "name"
	}
	return j.Field
}

const secretHashKey = "passwordHash"

func (e Entity) disabled(data map[string]any) bool {
	return e.StatusField != "" && asString(data[e.StatusField]) == e.Disabled
}

// View es la forma que recibe el cliente.
func (e Entity) View(r Record) map[string]any {
	out := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		if k == secretHashKey {
			continue
		}
		if to, ok := e.Rename[k]; ok {
			k = to
		}
		out[k] = v
	}
	out["id"] = r.ID
	if e.IDKey != "" {
		out[e.IDKey] = r.ID
	}
	return out
}

// lookup busca k para filtrar: primero derivadas, después la fila y por último lo guardado.
func (e Entity) lookup(k string, row, data map[string]any) (any, bool) {
	if fn, ok := e.Computed[k]; ok {
		return fn(data), true
	}
	if v, ok := row[k]; ok {
		return v, true
	}
	v, ok := data[k]
	return v, ok
}

// isStatusKey vale para el campo de estado guardado y para su nombre en la fila.
func (e Entity) isStatusKey(k string) bool {
	if e.StatusField == "" {
		return false
	}
	return k == e.StatusField || k == e.Rename[e.StatusField]
}

type route struct {
	entity string
	op     Op
}

// Table resuelve /<resource>/<action> a una entidad. Los recursos no distinguen mayúsculas.
type Table struct {
	entities map[string]Entity
	routes   map[string]route
}

func routeKey(res, action string) string {
	return strings.ToLower(res) + "/" + action
}

func NewTable(entities ...Entity) *Table {
	t := &Table{entities: map[string]Entity{}, routes: map[string]route{}}
	for _, e := range entities {
		t.entities[e.Name] = e
		ep := e.Endpoints
		for action, op := range map[string]Op{
			ep.List: OpList, ep.Add: OpAdd, ep.Edit: OpEdit, ep.Disable: OpDisable,
			e.Detail: OpDetail, e.Receipt: OpReceipt,
		} {
			if action == "" {
				continue
			}
			t.routes[routeKey(ep.Resource, action)] = route{entity: e.Name, op: op}
		}
	}
	return t
}

func (t *Table) Route(res, action string) (Entity, Op, bool) {
	rt, ok := t.routes[routeKey(res, action)]
	if !ok {
		return Entity{}, 0, false
	}
	return t.entities[rt.entity], rt.op, true
}

func (t *Table) Entity(name string) (Entity, bool) {
	e, ok := t.entities[name]
	return e, ok
}

// Children son las entidades que se embeben en el listado de parent.
func (t *Table) Children(parent string) []Entity {
	var out []Entity
	for _, e := range t.entities {
		if e.Parent == parent {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *Table) Names() []string {
	out := make([]string, 0, len(t.entities))
	for n := range t.entities {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func active(name string, ep resource.Endpoints) Entity {
	return Entity{
		Name:        name,
		Endpoints:   ep,
		StatusField: "status",
		Active:      kennel.StatusActive,
		Disabled:    kennel.StatusDisabled,
	}
}

func closable(name string, ep resource.Endpoints, field string) Entity {
	return Entity{Name: name, Endpoints: ep, StatusField: field, Active: "1", Disabled: "4"}
}

// dogFields son los campos del formulario de perro y su nombre en el listado.
var dogFields = map[string]string{
	"dog_Name":           "name",
	"dog_CallName":       "callName",
	"dog_Gender":         "gender",
	"dog_Status":         "status",
	"dog_StatusBreeding": "statusBreeding",
	"dog_StatusSale":     "statusSale",
	"dog_StatusDel":      "statusDel",
	"dog_Microchip":      "microchip",
	"dog_RegNo":          "regNo",
	"color_ID":           "colorID",
	"dog_Owner":          "owner",
	"dog_Breeder":        "breeder",
	"dog_K9Url":          "k9Url",
	"dog_Price":          "price",
	"dog_Birthday":       "birthday",
	"breeding_ID":        "breedingID",
	"dog_Dad":            "dadID",
	"dog_Mom":            "momID",
}

// datePart devuelve el año o el mes de una fecha guardada (YYYY-MM-DD, con o sin hora).
func datePart(key string, month bool) func(map[string]any) any {
	return func(data map[string]any) any {
		raw := strings.TrimSpace(asString(data[key]))
		if len(raw) < len(time.DateOnly) {
			return nil
		}
		t, err := time.Parse(time.DateOnly, raw[:len(time.DateOnly)])
		if err != nil {
			return nil
		}
		if month {
			return int(t.Month())
		}
		return t.Year()
	}
}

func nested(key, entity, as string) Join { return Join{Key: key, Entity: entity, As: as} }

func flat(key, entity, as string) Join { return Join{Key: key, Entity: entity, As: as, Flat: true} }

// DefaultTable usa las mismas rutas que las pantallas del cliente.
func DefaultTable() *Table {
	users := active("users", people.Users().Endpoints)
	users.Secret = "password"
	users.Unique = "email"
	users.AdminOnly = true

	vets := active("vets", clinics.Vets().Endpoints)
	vets.Joins = []Join{flat("clinicId", "clinics", "clinic_Name")}

	dog := Entity{
		Name:        "dogs",
		Endpoints:   dogs.Dogs(nil).Endpoints,
		StatusField: "dog_StatusDel",
		Active:      dogs.Active,
		Disabled:    dogs.Removed,
		Multipart:   true,
		Detail:      "getDog",
		Rename:      dogFields,
	}

	positions := active("dog-positions", dogs.Positions(time.Now).Endpoints)
	positions.Joins = []Join{
		flat("dogId", "dogs", "dogName"),
		flat("positionId", "positions", "positionName"),
	}

	breeding := closable("breedings", breedings.Breedings().Endpoints, "status")
	breeding.Joins = []Join{nested("mother_ID", "dogs", "mother")}
	breeding.Computed = map[string]func(map[string]any) any{
		"year":  datePart("dueDate", false),
		"month": datePart("dueDate", true),
	}

	attempts := closable("breeding-attempts", breedings.Attempts(nil).Endpoints, "attempt_Status")
	attempts.Parent, attempts.ParentKey, attempts.Embed = "breedings", "breed_ID", "attempts"
	attempts.Rename = map[string]string{
		"breed_ID":          "breedId",
		"attempt_Date":      "date",
		"attempt_Notes":     "notes",
		"attempt_TypeBreed": "typeBreed",
		"attempt_Status":    "status",
	}
	attempts.Joins = []Join{nested("father_ID", "dogs", "father")}

	vaccinations := closable("vaccinations", care.Vaccinations().Endpoints, "status")
	vaccinations.IDKey = "vR_ID"
	vaccinations.Rename = map[string]string{"status": "vR_Status"}
	vaccinations.Joins = []Join{
		flat("vaccine_ID", "vaccines", "vaccine_Name"),
		flat("dog_ID", "dogs", "dog_Name"),
		flat("user_ID", "users", "user_Name"),
	}

	doses := closable("doses", care.Doses(nil).Endpoints, "dS_Status")
	doses.IDKey = "dS_ID"
	doses.Parent, doses.ParentKey, doses.Embed = "vaccinations", "vR_ID", "doses"
	doses.Joins = []Join{flat("vet_ID", "vets", "vet_Name")}

	treatments := closable("treatment-records", care.TreatmentRecords().Endpoints, "status")
	treatments.Joins = []Join{
		nested("tlId", "treatments", "treatmentList"),
		nested("dogId", "dogs", "dog"),
		flat("dogId", "dogs", "dogName"),
		nested("vetId", "vets", "vet"),
		nested("userId", "users", "user"),
	}

	checks := closable("dog-health-checks", care.DogHealthChecks().Endpoints, "status")
	checks.Joins = []Join{
		nested("dogId", "dogs", "dog"),
		flat("dogId", "dogs", "dogName"),
		nested("hclId", "health-check-list", "healthCheckList"),
		nested("vetId", "vets", "vet"),
	}

	reservation := active("reservations", reservations.Reservations().Endpoints)
	reservation.Receipt = "generatePDF"
	reservation.Joins = []Join{
		{Key: "breedId", Entity: "breedings", Field: "dueDate", As: "breed"},
		nested("dogId", "dogs", "dog"),
		nested("cusId", "customers", "customer"),
		flat("cusId", "customers", "cusName"),
		nested("userId", "users", "user"),
	}

	return NewTable(
		active("colors", catalog.Colors().Endpoints),
		active("positions", catalog.Positions().Endpoints),
		active("vaccines", catalog.Vaccines().Endpoints),
		active("treatments", catalog.Treatments().Endpoints),
		active("health-check-list", catalog.HealthChecks().Endpoints),
		active("clinics", clinics.Clinics().Endpoints),
		vets,
		active("customers", people.Customers().Endpoints),
		users,
		dog,
		positions,
		breeding,
		attempts,
		vaccinations,
		doses,
		treatments,
		checks,
		reservation,
	)
}
