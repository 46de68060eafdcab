package care

import (
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

var CheckLabels = map[string]string{
	"1": "scheduled",
	"2": "done",
	"3": "cancelled",
	"4": "deleted",
}

var ResultLabels = map[string]string{
	"1": "pending",
	"2": "normal",
	"3": "abnormal",
}

type DogHealthCheck struct {
	ID              int        `json:"id"`
	Dog             kennel.Ref `json:"dog"`
	HealthCheckList kennel.Ref `json:"healthCheckList"`
	Vet             kennel.Ref `json:"vet"`
	ScheduledDate   string     `json:"scheduledDate"`
	ActualDate      *string    `json:"actualDate"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
	Result          string     `json:"result"`
}

type DogHealthCheckForm struct {
	ID            int    `json:"id"`
	DogID         int    `json:"dogId" validate:"gt=0"`
	HCLID         int    `json:"hclId" validate:"gt=0"`
	VetID         int    `json:"vetId" validate:"gt=0"`
	ScheduledDate string `json:"scheduledDate" validate:"required"`
	ActualDate    string `json:"actualDate"`
	Notes         string `json:"notes"`
	Status        string `json:"status" validate:"oneof=1 2 3 4"`
	Result        string `json:"result" validate:"oneof=1 2 3"`
}

type checkPayload struct {
	DogID         int     `json:"dogId"`
	HCLID         int     `json:"hclId"`
	VetID         int     `json:"vetId"`
	ScheduledDate string  `json:"scheduledDate"`
	ActualDate    *string `json:"actualDate"`
	Notes         string  `json:"notes"`
	Status        string  `json:"status"`
	Result        string  `json:"result"`
}

func DogHealthChecks() resource.Spec[DogHealthCheck, DogHealthCheckForm] {
	return resource.Spec[DogHealthCheck, DogHealthCheckForm]{
		Name:  "dog-health-checks",
		Label: "dog health check",
		Endpoints: resource.Endpoints{
			Resource: "dogHealthCheck", List: "getDogHealthChecks", Add: "addDogHealthCheck",
			Edit: "updateDogHealthCheck", Disable: "disableDogHealthCheck",
		},
		NewForm: func() DogHealthCheckForm { return DogHealthCheckForm{Status: "1", Result: "1"} },
		FormFromRecord: func(r DogHealthCheck) DogHealthCheckForm {
			return DogHealthCheckForm{
				ID:            r.ID,
				DogID:         r.Dog.ID,
				HCLID:         r.HealthCheckList.ID,
				VetID:         r.Vet.ID,
				ScheduledDate: r.ScheduledDate,
				ActualDate:    kennel.Deref(r.ActualDate),
				Notes:         r.Notes,
				Status:        r.Status,
				Result:        r.Result,
			}
		},
		FormID:   func(f DogHealthCheckForm) int { return f.ID },
		RecordID: func(r DogHealthCheck) int { return r.ID },
		Payload: func(f DogHealthCheckForm) (any, error) {
			return checkPayload{
				DogID:         f.DogID,
				HCLID:         f.HCLID,
				VetID:         f.VetID,
				ScheduledDate: f.ScheduledDate,
				ActualDate:    kennel.NullIfEmpty(f.ActualDate),
				Notes:         f.Notes,
				Status:        f.Status,
				Result:        f.Result,
			}, nil
		},
		Filters:  []string{"dogName", "status", "result"},
		Columns:  []string{"id", "dog", "healthCheckList", "vet", "scheduledDate", "actualDate", "status", "result"},
		Statuses: CheckLabels,
		Lookups: []resource.Lookup{
			{Name: "dogs", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"status": "1"}},
			{Name: "health-checks", Resource: "healthCheckList", Action: "get_hcl"},
			{Name: "vets", Resource: "vets", Action: "getVet"},
		},
	}
}
