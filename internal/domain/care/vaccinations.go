// Package care define el historial clínico de los perros: vacunaciones
// con sus dosis, tratamientos y chequeos agendados.
package care

import (
	"context"
	"fmt"

	"goldendogfarm-admin/internal/resource"
)

var VaccinationLabels = map[string]string{
	"1": "in progress",
	"2": "done",
	"3": "cancelled",
	"4": "deleted",
}

var DoseLabels = map[string]string{
	"1": "scheduled",
	"2": "done",
	"3": "cancelled",
	"4": "deleted",
}

type Vaccination struct {
	VRID        int    `json:"vR_ID"`
	VaccineID   int    `json:"vaccine_ID"`
	DogID       int    `json:"dog_ID"`
	UserID      int    `json:"user_ID"`
	Status      string `json:"vR_Status"`
	VaccineName string `json:"vaccine_Name"`
	DogName     string `json:"dog_Name"`
	UserName    string `json:"user_Name"`
	Doses       []Dose `json:"doses"`
}

type VaccinationForm struct {
	ID        int    `json:"id"`
	VaccineID int    `json:"vaccine_ID" validate:"gt=0"`
	DogID     int    `json:"dog_ID" validate:"gt=0"`
	UserID    int    `json:"user_ID" validate:"gt=0"`
	Status    string `json:"vR_Status" validate:"oneof=1 2 3 4"`
}

type vaccinationPayload struct {
	VaccineID int    `json:"vaccine_ID"`
	DogID     int    `json:"dog_ID"`
	UserID    int    `json:"user_ID"`
	Status    string `json:"status"`
	ID        int    `json:"id"`
}

func Vaccinations() resource.Spec[Vaccination, VaccinationForm] {
	return resource.Spec[Vaccination, VaccinationForm]{
		Name:  "vaccinations",
		Label: "vaccination",
		Endpoints: resource.Endpoints{
			Resource: "vaccinations", List: "getVaccinationRecords", Add: "addVaccinationRecord",
			Edit: "editVaccinationRecord", EditMethod: "PATCH", Disable: "disableVaccinationRecord",
		},
		NewForm: func() VaccinationForm { return VaccinationForm{Status: "1"} },
		FormFromRecord: func(r Vaccination) VaccinationForm {
			return VaccinationForm{ID: r.VRID, VaccineID: r.VaccineID, DogID: r.DogID, UserID: r.UserID, Status: r.Status}
		},
		FormID:   func(f VaccinationForm) int { return f.ID },
		RecordID: func(r Vaccination) int { return r.VRID },
		Payload: func(f VaccinationForm) (any, error) {
			return vaccinationPayload{VaccineID: f.VaccineID, DogID: f.DogID, UserID: f.UserID, Status: f.Status, ID: f.ID}, nil
		},
		Filters:  []string{"dog_Name", "vR_Status"},
		Columns:  []string{"vR_ID", "vaccine_Name", "dog_Name", "user_Name", "vR_Status"},
		Statuses: VaccinationLabels,
		Lookups: []resource.Lookup{
			{Name: "vaccines", Resource: "vaccines", Action: "getVaccine"},
			{Name: "dogs", Resource: "dogs", Action: "getDogs"},
			{Name: "users", Resource: "users", Action: "getUserAll"},
			{Name: "vets", Resource: "vets", Action: "getVet"},
		},
	}
}

type Dose struct {
	ID            int    `json:"dS_ID"`
	VRID          int    `json:"vR_ID,omitempty"`
	VetID         int    `json:"vet_ID,omitempty"`
	Number        int    `json:"dS_Number,omitempty"`
	ScheduledDate string `json:"dS_ScheduledDate"`
	ActualDate    string `json:"dS_ActualDate,omitempty"`
	Notes         string `json:"dS_Notes,omitempty"`
	Status        string `json:"dS_Status"`
	VetName       string `json:"vet_Name,omitempty"`
}

type DoseForm struct {
	ID            int    `json:"dS_ID"`
	VRID          int    `json:"vR_ID" validate:"gt=0"`
	VetID         int    `json:"vet_ID"`
	Number        int    `json:"dS_Number" validate:"gte=0"`
	ScheduledDate string `json:"dS_ScheduledDate" validate:"required"`
	ActualDate    string `json:"dS_ActualDate"`
	Notes         string `json:"dS_Notes"`
	Status        string `json:"dS_Status" validate:"oneof=1 2 3 4"`
}

type dosePayload struct {
	VRID          int    `json:"vR_ID"`
	VetID         int    `json:"vet_ID"`
	Number        int    `json:"dS_Number"`
	ScheduledDate string `json:"dS_ScheduledDate"`
	ActualDate    string `json:"dS_ActualDate"`
	Notes         string `json:"dS_Notes"`
	Status        string `json:"dS_Status"`
}

// Records es lo mínimo que necesita FindDose para recorrer vacunaciones.
type Records interface {
	Each(ctx context.Context, fn func(Vaccination) bool) error
}

// FindDose busca la dosis dentro de las vacunaciones.
func FindDose(ctx context.Context, records Records, id int) (Dose, error) {
	var (
		found Dose
		ok    bool
	)
	err := records.Each(ctx, func(v Vaccination) bool {
		for _, d := range v.Doses {
			if d.ID == id {
				found, ok = d, true
				if found.VRID == 0 {
					found.VRID = v.VRID
				}
				return false
			}
		}
		return true
	})
	if err != nil {
		return Dose{}, err
	}
	if !ok {
		return Dose{}, fmt.Errorf("%w: dose #%d", resource.ErrNotFound, id)
	}
	return found, nil
}

// Doses cuelga de vacunaciones: sin listado propio, edición por PATCH.
func Doses(locate func(ctx context.Context, id int) (Dose, error)) resource.Spec[Dose, DoseForm] {
	return resource.Spec[Dose, DoseForm]{
		Name:  "doses",
		Label: "dose",
		Endpoints: resource.Endpoints{
			Resource: "vaccinations", Add: "addDose", Edit: "editDose", EditMethod: "PATCH", Disable: "disableDose",
		},
		NewForm: func() DoseForm { return DoseForm{Status: "1"} },
		FormFromRecord: func(r Dose) DoseForm {
			return DoseForm{
				ID:            r.ID,
				VRID:          r.VRID,
				VetID:         r.VetID,
				Number:        r.Number,
				ScheduledDate: r.ScheduledDate,
				ActualDate:    r.ActualDate,
				Notes:         r.Notes,
				Status:        r.Status,
			}
		},
		FormID:   func(f DoseForm) int { return f.ID },
		RecordID: func(r Dose) int { return r.ID },
		Payload: func(f DoseForm) (any, error) {
			return dosePayload{
				VRID:          f.VRID,
				VetID:         f.VetID,
				Number:        f.Number,
				ScheduledDate: f.ScheduledDate,
				ActualDate:    f.ActualDate,
				Notes:         f.Notes,
				Status:        f.Status,
			}, nil
		},
		Locate:   locate,
		Columns:  []string{"dS_ID", "vR_ID", "dS_Number", "dS_ScheduledDate", "dS_ActualDate", "vet_Name", "dS_Status"},
		Statuses: DoseLabels,
		Lookups: []resource.Lookup{
			{Name: "vets", Resource: "vets", Action: "getVet"},
		},
	}
}
