package clinics

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestClinicForm_RoundTrip(t *testing.T) {
	s := Clinics()
	rec := Clinic{ID: 4, Name: "Happy Paws", Address: "12 Main", Phone: "555", Status: "1"}
	form := s.FormFromRecord(rec)
	require.Equal(t, 4, s.FormID(form))

	body, err := s.Payload(form)
	require.NoError(t, err)
	raw, _ := json.Marshal(body)
	var back Clinic
	require.NoError(t, json.Unmarshal(raw, &back))
	if diff := cmp.Diff(rec, back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestVetPayload_NullClinicWhenUnset(t *testing.T) {
	s := Vets()
	body, err := s.Payload(VetForm{Name: "Dr. Lee", Status: "1"})
	require.NoError(t, err)
	raw, _ := json.Marshal(body)
	require.JSONEq(t, `{"id":0,"name":"Dr. Lee","phone":"","clinicId":null,"status":"1"}`, string(raw))

	clinic := 3
	form := s.FormFromRecord(Vet{ID: 8, Name: "Dr. Lee", ClinicID: &clinic, ClinicName: "Happy Paws", Status: "2"})
	require.Equal(t, VetForm{ID: 8, Name: "Dr. Lee", ClinicID: 3, Status: "2"}, form)
	require.Equal(t, "/api/v1/Vets/editVet/8", s.Endpoints.EditPath(form.ID))
}
