// Package catalog agrupa los catálogos simples del criadero: colores,
// posiciones, vacunas, tratamientos y chequeos de salud.
package catalog

import (
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

// Item es un registro de catálogo. Description sólo existe en algunos.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

type ItemForm struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"oneof=1 2"`
}

type namedPayload struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type describedPayload struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func itemSpec(name, label string, ep resource.Endpoints, described bool) resource.Spec[Item, ItemForm] {
	cols := []string{"id", "name", "status"}
	if described {
		cols = []string{"id", "name", "description", "status"}
	}
	return resource.Spec[Item, ItemForm]{
		Name:      name,
		Label:     label,
		Endpoints: ep,
		NewForm:   func() ItemForm { return ItemForm{Status: kennel.StatusActive} },
		FormFromRecord: func(r Item) ItemForm {
			f := ItemForm{ID: r.ID, Name: r.Name, Status: r.Status}
			if described {
				f.Description = r.Description
			}
			return f
		},
		FormID:   func(f ItemForm) int { return f.ID },
		RecordID: func(r Item) int { return r.ID },
		Payload: func(f ItemForm) (any, error) {
			if described {
				return describedPayload{ID: f.ID, Name: f.Name, Description: f.Description, Status: f.Status}, nil
			}
			return namedPayload{ID: f.ID, Name: f.Name, Status: f.Status}, nil
		},
		Filters:  []string{"name", "status"},
		Columns:  cols,
		Statuses: kennel.ActiveLabels,
	}
}

func Colors() resource.Spec[Item, ItemForm] {
	return itemSpec("colors", "color", resource.Endpoints{
		Resource: "colors", List: "getColor", Add: "addColor", Edit: "editColor", Disable: "disableColor",
	}, false)
}

func Positions() resource.Spec[Item, ItemForm] {
	return itemSpec("positions", "position", resource.Endpoints{
		Resource: "position", List: "getPosition", Add: "addPosition", Edit: "editPosition", Disable: "disablePosition",
	}, false)
}

func Vaccines() resource.Spec[Item, ItemForm] {
	return itemSpec("vaccines", "vaccine", resource.Endpoints{
		Resource: "vaccines", List: "getVaccine", Add: "addVaccine", Edit: "editVaccine", Disable: "disableVaccine",
	}, true)
}

func Treatments() resource.Spec[Item, ItemForm] {
	return itemSpec("treatments", "treatment", resource.Endpoints{
		Resource: "treatmentList", List: "getTreatment", Add: "addTreatment", Edit: "editTreatment", Disable: "disableTreatment",
	}, true)
}

// HealthChecks es la lista de chequeos (hcl) que luego se agendan por perro.
func HealthChecks() resource.Spec[Item, ItemForm] {
	return itemSpec("health-check-list", "health check", resource.Endpoints{
		Resource: "healthCheckList", List: "get_hcl", Add: "add_hcl", Edit: "edit_hcl", Disable: "disable_hcl",
	}, true)
}
