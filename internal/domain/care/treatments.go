package care

import (
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"
)

var TreatmentLabels = map[string]string{
	"1": "treating",
	"2": "recovered",
	"3": "died",
	"4": "deleted",
}

// TreatmentRecord llega con referencias anidadas {id, name}.
type TreatmentRecord struct {
	ID            int        `json:"id"`
	TreatmentList kennel.Ref `json:"treatmentList"`
	Dog           kennel.Ref `json:"dog"`
	Vet           kennel.Ref `json:"vet"`
	User          kennel.Ref `json:"user"`
	StartDate     string     `json:"startDate"`
	EndDate       *string    `json:"endDate"`
	Status        string     `json:"status"`
}

type TreatmentRecordForm struct {
	ID        int    `json:"id"`
	TLID      int    `json:"tlId" validate:"gt=0"`
	DogID     int    `json:"dogId" validate:"gt=0"`
	VetID     int    `json:"vetId" validate:"gt=0"`
	UserID    int    `json:"userId" validate:"gt=0"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status" validate:"oneof=1 2 3 4"`
}

type treatmentPayload struct {
	TLID      int     `json:"tlId"`
	DogID     int     `json:"dogId"`
	VetID     int     `json:"vetId"`
	UserID    int     `json:"userId"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Status    string  `json:"status"`
}

func TreatmentRecords() resource.Spec[TreatmentRecord, TreatmentRecordForm] {
	return resource.Spec[TreatmentRecord, TreatmentRecordForm]{
		Name:  "treatment-records",
		Label: "treatment record",
		Endpoints: resource.Endpoints{
			Resource: "treatmentRecord", List: "getTreatmentRecords", Add: "addTreatmentRecord",
			Edit: "updateTreatmentRecord", Disable: "disableTreatmentRecord",
		},
		NewForm: func() TreatmentRecordForm { return TreatmentRecordForm{Status: "1"} },
		FormFromRecord: func(r TreatmentRecord) TreatmentRecordForm {
			return TreatmentRecordForm{
				ID:        r.ID,
				TLID:      r.TreatmentList.ID,
				DogID:     r.Dog.ID,
				VetID:     r.Vet.ID,
				UserID:    r.User.ID,
				StartDate: r.StartDate,
				EndDate:   kennel.Deref(r.EndDate),
				Status:    r.Status,
			}
		},
		FormID:   func(f TreatmentRecordForm) int { return f.ID },
		RecordID: func(r TreatmentRecord) int { return r.ID },
		Payload: func(f TreatmentRecordForm) (any, error) {
			return treatmentPayload{
				TLID:      f.TLID,
				DogID:     f.DogID,
				VetID:     f.VetID,
				UserID:    f.UserID,
				StartDate: f.StartDate,
				EndDate:   kennel.NullIfEmpty(f.EndDate),
				Status:    f.Status,
			}, nil
		},
		Filters:  []string{"dogName", "status"},
		Columns:  []string{"id", "treatmentList", "dog", "vet", "startDate", "endDate", "status"},
		Statuses: TreatmentLabels,
		Lookups: []resource.Lookup{
			{Name: "dogs", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"status": "1"}},
			{Name: "treatments", Resource: "treatmentList", Action: "getTreatment"},
			{Name: "vets", Resource: "vets", Action: "getVet"},
			{Name: "users", Resource: "users", Action: "getUserAll"},
		},
	}
}
