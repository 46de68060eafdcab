package care

import (
	"context"
	"encoding/json"
	"testing"

	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/resource"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeRecords []Vaccination

func (f fakeRecords) Each(_ context.Context, fn func(Vaccination) bool) error {
	for _, v := range f {
		if !fn(v) {
			return nil
		}
	}
	return nil
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestVaccinations_PatchEditAndRenamedStatus(t *testing.T) {
	s := Vaccinations()
	form := s.FormFromRecord(Vaccination{VRID: 6, VaccineID: 2, DogID: 3, UserID: 1, Status: "2", VaccineName: "Rabies"})
	require.Equal(t, VaccinationForm{ID: 6, VaccineID: 2, DogID: 3, UserID: 1, Status: "2"}, form)

	body, _ := s.Payload(form)
	require.JSONEq(t, `{"vaccine_ID":2,"dog_ID":3,"user_ID":1,"status":"2","id":6}`, marshal(t, body))
	require.Equal(t, "PATCH", s.Endpoints.EditMethod)
	require.Equal(t, "/api/v1/vaccinations/editVaccinationRecord/6", s.Endpoints.EditPath(6))
}

func TestFindDose_FillsParentRecord(t *testing.T) {
	records := fakeRecords{
		{VRID: 1, Doses: []Dose{{ID: 10}}},
		{VRID: 2, Doses: []Dose{{ID: 11, Number: 2, ScheduledDate: "2025-02-01", Status: "1"}}},
	}
	d, err := FindDose(context.Background(), records, 11)
	require.NoError(t, err)
	require.Equal(t, 2, d.VRID)

	_, err = FindDose(context.Background(), records, 12)
	require.ErrorIs(t, err, resource.ErrNotFound)

	s := Doses(nil)
	require.False(t, s.Endpoints.Listable())
	form := s.FormFromRecord(d)
	body, _ := s.Payload(form)
	require.JSONEq(t, `{"vR_ID":2,"vet_ID":0,"dS_Number":2,"dS_ScheduledDate":"2025-02-01","dS_ActualDate":"","dS_Notes":"","dS_Status":"1"}`, marshal(t, body))
	require.Equal(t, "/api/v1/vaccinations/editDose/11", s.Endpoints.EditPath(form.ID))
}

func TestTreatmentRecords_FlattensRefsAndNullsEndDate(t *testing.T) {
	s := TreatmentRecords()
	rec := TreatmentRecord{
		ID:            4,
		TreatmentList: kennel.Ref{ID: 1, Name: "Antibiotics"},
		Dog:           kennel.Ref{ID: 2, Name: "Nala"},
		Vet:           kennel.Ref{ID: 3, Name: "Dr. Lee"},
		User:          kennel.Ref{ID: 5, Name: "Mai"},
		StartDate:     "2025-01-01",
		Status:        "1",
	}
	form := s.FormFromRecord(rec)
	want := TreatmentRecordForm{ID: 4, TLID: 1, DogID: 2, VetID: 3, UserID: 5, StartDate: "2025-01-01", Status: "1"}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form (-want +got):\n%s", diff)
	}

	body, _ := s.Payload(form)
	require.JSONEq(t, `{"tlId":1,"dogId":2,"vetId":3,"userId":5,"startDate":"2025-01-01","endDate":null,"status":"1"}`, marshal(t, body))

	end := "2025-01-09"
	rec.EndDate = &end
	require.Equal(t, end, s.FormFromRecord(rec).EndDate)
}

func TestDogHealthChecks_DefaultsAndPayload(t *testing.T) {
	s := DogHealthChecks()
	require.Equal(t, DogHealthCheckForm{Status: "1", Result: "1"}, s.NewForm())

	actual := "2025-03-02"
	form := s.FormFromRecord(DogHealthCheck{
		ID: 9, Dog: kennel.Ref{ID: 2}, HealthCheckList: kennel.Ref{ID: 7}, Vet: kennel.Ref{ID: 3},
		ScheduledDate: "2025-03-01", ActualDate: &actual, Notes: "ok", Status: "2", Result: "2",
	})
	body, _ := s.Payload(form)
	require.JSONEq(t, `{"dogId":2,"hclId":7,"vetId":3,"scheduledDate":"2025-03-01","actualDate":"2025-03-02","notes":"ok","status":"2","result":"2"}`, marshal(t, body))
	require.Equal(t, []string{"dogName", "status", "result"}, s.Filters)
}
