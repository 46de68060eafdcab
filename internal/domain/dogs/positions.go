package dogs

import (
	"time"

	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

// DogPosition es el puesto logrado por un perro en un año.
type DogPosition struct {
	ID           int    `json:"id"`
	DogID        int    `json:"dogId"`
	PositionID   int    `json:"positionId"`
	Year         int    `json:"year"`
	Status       string `json:"status"`
	DogName      string `json:"dogName"`
	PositionName string `json:"positionName"`
}

type DogPositionForm struct {
	ID         int `json:"id"`
	DogID      int `json:"dogId" validate:"gt=0"`
	PositionID int `json:"positionId" validate:"gt=0"`
	Year       int `json:"year" validate:"gte=1900"`
}

type positionPayload struct {
	DogID      int `json:"dogId"`
	PositionID int `json:"positionId"`
	Year       int `json:"year"`
}

// Positions lista por perro: el filtro dogId va en el path (byDog/{dogId}).
func Positions(now func() time.Time) resource.Spec[DogPosition, DogPositionForm] {
	if now == nil {
		now = time.Now
	}
	return resource.Spec[DogPosition, DogPositionForm]{
		Name:  "dog-positions",
		Label: "dog position",
		Endpoints: resource.Endpoints{
			Resource: "dogPositions", List: "byDog", Add: "add", Edit: "edit", Disable: "disable",
			Scope: "dogId",
		},
		NewForm: func() DogPositionForm { return DogPositionForm{Year: now().Year()} },
		FormFromRecord: func(r DogPosition) DogPositionForm {
			return DogPositionForm{ID: r.ID, DogID: r.DogID, PositionID: r.PositionID, Year: r.Year}
		},
		FormID:   func(f DogPositionForm) int { return f.ID },
		RecordID: func(r DogPosition) int { return r.ID },
		Payload: func(f DogPositionForm) (any, error) {
			return positionPayload{DogID: f.DogID, PositionID: f.PositionID, Year: f.Year}, nil
		},
		Filters:  []string{"dogId"},
		Columns:  []string{"id", "dogName", "positionName", "year", "status"},
		Statuses: kennel.ActiveLabels,
		Lookups: []resource.Lookup{
			{Name: "positions", Resource: "position", Action: "getPosition"},
		},
	}
}
