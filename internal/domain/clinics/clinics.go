// Package clinics define las pantallas de clínicas y veterinarios.
package clinics

import (
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

type Clinic struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

type ClinicForm struct {
	ID      int    `json:"id"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  string `json:"status" validate:"oneof=1 2"`
}

func Clinics() resource.Spec[Clinic, ClinicForm] {
	return resource.Spec[Clinic, ClinicForm]{
		Name:  "clinics",
		Label: "clinic",
		Endpoints: resource.Endpoints{
			Resource: "Clinics", List: "getClinic", Add: "addClinic", Edit: "editClinic", Disable: "disableClinic",
		},
		NewForm: func() ClinicForm { return ClinicForm{Status: kennel.StatusActive} },
		FormFromRecord: func(r Clinic) ClinicForm {
			return ClinicForm{ID: r.ID, Name: r.Name, Address: r.Address, Phone: r.Phone, Status: r.Status}
		},
		FormID:   func(f ClinicForm) int { return f.ID },
		RecordID: func(r Clinic) int { return r.ID },
		// el form completo es el payload permitido
		Payload:  func(f ClinicForm) (any, error) { return f, nil },
		Filters:  []string{"name", "status"},
		Columns:  []string{"id", "name", "address", "phone", "status"},
		Statuses: kennel.ActiveLabels,
	}
}

type Vet struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	ClinicID   *int   `json:"clinicId"`
	ClinicName string `json:"clinic_Name"`
	Status     string `json:"status"`
}

type VetForm struct {
	ID       int    `json:"id"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	ClinicID int    `json:"clinicId"`
	Status   string `json:"status" validate:"oneof=1 2"`
}

type vetPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	ClinicID *int   `json:"clinicId"`
	Status   string `json:"status"`
}

func Vets() resource.Spec[Vet, VetForm] {
	return resource.Spec[Vet, VetForm]{
		Name:  "vets",
		Label: "vet",
		Endpoints: resource.Endpoints{
			Resource: "Vets", List: "getVet", Add: "addVet", Edit: "editVet", Disable: "disableVet",
		},
		NewForm: func() VetForm { return VetForm{Status: kennel.StatusActive} },
		FormFromRecord: func(r Vet) VetForm {
			f := VetForm{ID: r.ID, Name: r.Name, Phone: r.Phone, Status: r.Status}
			if r.ClinicID != nil {
				f.ClinicID = *r.ClinicID
			}
			return f
		},
		FormID:   func(f VetForm) int { return f.ID },
		RecordID: func(r Vet) int { return r.ID },
		Payload: func(f VetForm) (any, error) {
			// sin clínica => null
			return vetPayload{ID: f.ID, Name: f.Name, Phone: f.Phone, ClinicID: kennel.NullIfZero(f.ClinicID), Status: f.Status}, nil
		},
		Filters:  []string{"name", "status"},
		Columns:  []string{"id", "name", "phone", "clinic_Name", "status"},
		Statuses: kennel.ActiveLabels,
		Lookups: []resource.Lookup{
			{Name: "clinics", Resource: "clinics", Action: "getClinic"},
		},
	}
}
