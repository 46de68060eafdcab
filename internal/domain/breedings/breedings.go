// Package breedings define las camadas (breedings) y sus intentos de monta.
// Los intentos no tienen listado propio: viven anidados en cada camada.
package breedings

import (
	"context"
	"fmt"

	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

// PageSize por defecto del listado de camadas.
const PageSize = 10

var StatusLabels = map[string]string{
	"1": "in progress",
	"2": "success",
	"3": "failed",
	"4": "disabled",
}

var AttemptStatusLabels = map[string]string{
	"1": "in progress",
	"2": "success",
	"3": "failed",
}

var TypeLabels = map[string]string{
	"1": "artificial",
	"2": "natural",
}

type Breeding struct {
	ID              int        `json:"id"`
	Mother          kennel.Ref `json:"mother"`
	DueDate         string     `json:"dueDate"`
	ActualBirthDate string     `json:"actualBirthDate,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	PuppyCount      int        `json:"puppyCount"`
	Status          string     `json:"status"`
	Attempts        []Attempt  `json:"attempts"`
}

type BreedingForm struct {
	ID              int    `json:"id"`
	MotherID        int    `json:"mother_ID" validate:"gt=0"`
	DueDate         string `json:"dueDate" validate:"required"`
	ActualBirthDate string `json:"actualBirthDate"`
	Notes           string `json:"notes"`
	PuppyCount      int    `json:"puppyCount" validate:"gte=0"`
	Status          string `json:"status" validate:"oneof=1 2 3 4"`
}

type breedingPayload struct {
	MotherID        int    `json:"mother_ID"`
	DueDate         string `json:"dueDate"`
	ActualBirthDate string `json:"actualBirthDate"`
	Notes           string `json:"notes"`
	PuppyCount      int    `json:"puppyCount"`
	Status          string `json:"status"`
}

func Breedings() resource.Spec[Breeding, BreedingForm] {
	return resource.Spec[Breeding, BreedingForm]{
		Name:     "breedings",
		Label:    "breeding",
		PageSize: PageSize,
		Endpoints: resource.Endpoints{
			Resource: "breedings", List: "getBreedings", Add: "addBreeding", Edit: "editBreeding", Disable: "disableBreeding",
		},
		NewForm: func() BreedingForm { return BreedingForm{Status: "1"} },
		FormFromRecord: func(r Breeding) BreedingForm {
			return BreedingForm{
				ID:              r.ID,
				MotherID:        r.Mother.ID,
				DueDate:         r.DueDate,
				ActualBirthDate: r.ActualBirthDate,
				Notes:           r.Notes,
				PuppyCount:      r.PuppyCount,
				Status:          r.Status,
			}
		},
		FormID:   func(f BreedingForm) int { return f.ID },
		RecordID: func(r Breeding) int { return r.ID },
		Payload: func(f BreedingForm) (any, error) {
			return breedingPayload{
				MotherID:        f.MotherID,
				DueDate:         f.DueDate,
				ActualBirthDate: f.ActualBirthDate,
				Notes:           f.Notes,
				PuppyCount:      f.PuppyCount,
				Status:          f.Status,
			}, nil
		},
		Filters:  []string{"status", "year", "month"},
		Columns:  []string{"id", "mother", "dueDate", "actualBirthDate", "puppyCount", "status"},
		Statuses: StatusLabels,
		Lookups: []resource.Lookup{
			{Name: "mothers", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_Gender": "F", "dog_StatusBreeding": "1"}},
			{Name: "fathers", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_Gender": "M", "dog_StatusBreeding": "1"}},
		},
	}
}

type Attempt struct {
	ID        int        `json:"id"`
	BreedID   int        `json:"breedId"`
	Father    kennel.Ref `json:"father"`
	Date      string     `json:"date"`
	Notes     string     `json:"notes,omitempty"`
	TypeBreed string     `json:"typeBreed"`
	Status    string     `json:"status"`
}

type AttemptForm struct {
	ID        int    `json:"id"`
	BreedID   int    `json:"breed_ID" validate:"gt=0"`
	FatherID  int    `json:"father_ID" validate:"gt=0"`
	Date      string `json:"date" validate:"required"`
	Notes     string `json:"notes"`
	TypeBreed string `json:"typeBreed" validate:"oneof=1 2"`
	Status    string `json:"status" validate:"oneof=1 2 3"`
}

type attemptPayload struct {
	BreedID   int    `json:"breed_ID"`
	FatherID  int    `json:"father_ID"`
	Date      string `json:"attempt_Date"`
	Notes     string `json:"attempt_Notes"`
	TypeBreed string `json:"attempt_TypeBreed"`
	Status    string `json:"attempt_Status"`
}

// Breeds es lo mínimo que necesita FindAttempt para recorrer camadas.
type Breeds interface {
	Each(ctx context.Context, fn func(Breeding) bool) error
}

// FindAttempt recorre las camadas hasta dar con el intento.
func FindAttempt(ctx context.Context, breeds Breeds, id int) (Attempt, error) {
	var (
		found Attempt
		ok    bool
	)
	err := breeds.Each(ctx, func(b Breeding) bool {
		for _, a := range b.Attempts {
			if a.ID == id {
				found, ok = a, true
				if found.BreedID == 0 {
					found.BreedID = b.ID
				}
				return false
			}
		}
		return true
	})
	if err != nil {
		return Attempt{}, err
	}
	if !ok {
		return Attempt{}, fmt.Errorf("%w: breeding attempt #%d", resource.ErrNotFound, id)
	}
	return found, nil
}

// Attempts arma la pantalla de intentos; locate resuelve un intento por id.
func Attempts(locate func(ctx context.Context, id int) (Attempt, error)) resource.Spec[Attempt, AttemptForm] {
	return resource.Spec[Attempt, AttemptForm]{
		Name:  "breeding-attempts",
		Label: "breeding attempt",
		Endpoints: resource.Endpoints{
			Resource: "breedingAttempts", Add: "addBreedingAttempt", Edit: "editBreedingAttempt", Disable: "disableBreedingAttempt",
		},
		NewForm: func() AttemptForm { return AttemptForm{Status: "1"} },
		FormFromRecord: func(r Attempt) AttemptForm {
			return AttemptForm{
				ID:        r.ID,
				BreedID:   r.BreedID,
				FatherID:  r.Father.ID,
				Date:      r.Date,
				Notes:     r.Notes,
				TypeBreed: r.TypeBreed,
				Status:    r.Status,
			}
		},
		FormID:   func(f AttemptForm) int { return f.ID },
		RecordID: func(r Attempt) int { return r.ID },
		Payload: func(f AttemptForm) (any, error) {
			return attemptPayload{
				BreedID:   f.BreedID,
				FatherID:  f.FatherID,
				Date:      f.Date,
				Notes:     f.Notes,
				TypeBreed: f.TypeBreed,
				Status:    f.Status,
			}, nil
		},
		Locate:   locate,
		Columns:  []string{"id", "breedId", "father", "date", "typeBreed", "status"},
		Statuses: AttemptStatusLabels,
		Lookups: []resource.Lookup{
			{Name: "fathers", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_Gender": "M", "dog_StatusBreeding": "1"}},
		},
	}
}
