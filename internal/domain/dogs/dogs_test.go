package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/resource"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGet_UnwrapsDataEnvelope(t *testing.T) {
	bodies := []string{
		`{"data":{"name":"Nala","gender":"F","colorID":3,"status":"3","dadID":null,"showImages":["a.jpg"]}}`,
		`{"id":7,"name":"Nala","gender":"F","colorID":"3","status":3,"showImages":["a.jpg"]}`,
	}
	for _, body := range bodies {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/dogs/getDog/7", r.URL.Path)
			_, _ = io.WriteString(w, body)
		}))
		c, _ := httpclient.NewWithBaseURL(ts.URL, time.Second)

		d, err := Get(context.Background(), c, 7)
		ts.Close()
		require.NoError(t, err)
		require.Equal(t, 7, d.ID)
		require.Equal(t, "3", d.ColorID.String())
		require.Equal(t, "3", d.Status.String())
		require.Equal(t, []string{"a.jpg"}, d.ShowImages)
	}
}

func TestFormFromDog_FlattensDetail(t *testing.T) {
	d := Dog{ID: 7, Name: "Nala", CallName: "Na", Gender: "F", Status: "3", StatusBreeding: "1", StatusSale: "2",
		ColorID: "3", Price: "15000", DadID: "2", MomID: "4", BreedingID: "9", ShowImages: []string{"a.jpg", "b.jpg"}}

	want := DogForm{ID: 7, Name: "Nala", CallName: "Na", Gender: "F", Status: "3", StatusBreeding: "1", StatusSale: "2",
		StatusDel: "1", ColorID: "3", Price: "15000", Dad: "2", Mom: "4", BreedingID: "9", ShowImages: []string{"a.jpg", "b.jpg"}}
	if diff := cmp.Diff(want, formFromDog(d)); diff != "" {
		t.Fatalf("form (-want +got):\n%s", diff)
	}
}

func TestPayload_CreateSendsEverything(t *testing.T) {
	body, err := payload(newDogForm())
	require.NoError(t, err)
	m := body.(*httpclient.Multipart)

	_, hasOwner := m.Fields["dog_Owner"]
	require.True(t, hasOwner, "add sends empty fields too")
	require.Equal(t, "5", m.Fields.Get("dog_Status"))
	_, hasFlag := m.Fields["delete_profile"]
	require.False(t, hasFlag)
}

func TestPayload_EditSkipsEmptyAndSendsFlags(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "show1.jpg")
	require.NoError(t, os.WriteFile(img, []byte("\xff\xd8\xff\xe0jpeg"), 0o600))

	f := DogForm{ID: 7, Name: "Nala", Gender: "F", Status: "3", DeletePedigree: true,
		DeleteShowIDs: []string{"a.jpg", "b.jpg"}, ShowImages: []string{"a.jpg", "b.jpg", "c.jpg"}, Show: []string{img}}
	body, err := payload(f)
	require.NoError(t, err)
	m := body.(*httpclient.Multipart)

	_, hasOwner := m.Fields["dog_Owner"]
	require.False(t, hasOwner)
	require.Equal(t, "true", m.Fields.Get("delete_pedigree"))
	require.Equal(t, "a.jpg,b.jpg", m.Fields.Get("delete_show_ids"))
	require.Len(t, m.Files, 1)
	require.Equal(t, "show", m.Files[0].Field)
}

func TestPayload_ShowImageCap(t *testing.T) {
	f := DogForm{ID: 7, ShowImages: []string{"a", "b", "c"}, Show: []string{"x.jpg", "y.jpg"}}
	_, err := payload(f)
	require.True(t, errors.Is(err, resource.ErrInvalidInput))

	f.DeleteShowAll = true
	f.Show = nil
	_, err = payload(f)
	require.NoError(t, err)
}

func TestPayload_MissingFileIsInvalidInput(t *testing.T) {
	f := newDogForm()
	f.Profile = filepath.Join(t.TempDir(), "missing.png")
	_, err := payload(f)
	require.ErrorIs(t, err, resource.ErrInvalidInput)
}

func TestPositions_ScopedListAndPayload(t *testing.T) {
	s := Positions(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) })
	require.Equal(t, 2025, s.NewForm().Year)

	_, err := s.Endpoints.ListPath(resource.Filters{})
	require.ErrorIs(t, err, resource.ErrInvalidInput)
	p, err := s.Endpoints.ListPath(resource.Filters{"dogId": "12"})
	require.NoError(t, err)
	require.Equal(t, "/api/v1/dogPositions/byDog/12", p)

	rec := DogPosition{ID: 3, DogID: 12, PositionID: 2, Year: 2024, Status: "1", DogName: "Nala", PositionName: "BIS"}
	form := s.FormFromRecord(rec)
	body, _ := s.Payload(form)
	raw, _ := json.Marshal(body)
	require.JSONEq(t, `{"dogId":12,"positionId":2,"year":2024}`, string(raw))
	require.Equal(t, "/api/v1/dogPositions/edit/3", s.Endpoints.EditPath(form.ID))
}
