package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type petForm struct {
	Name   string `form:"dog_Name"`
	Gender string `form:"dog_Gender"`
	Owner  string `form:"dog_Owner"`
}

func TestNewMultipart_SkipEmpty(t *testing.T) {
	m, err := NewMultipart(petForm{Name: "Nala", Gender: "F"}, true)
	require.NoError(t, err)
	require.Equal(t, "Nala", m.Fields.Get("dog_Name"))
	_, hasOwner := m.Fields["dog_Owner"]
	require.False(t, hasOwner)

	m, err = NewMultipart(petForm{Name: "Nala"}, false)
	require.NoError(t, err)
	_, hasOwner = m.Fields["dog_Owner"]
	require.True(t, hasOwner)
}

func TestMultipart_RoundTripThroughServer(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	var gotName, gotFlag, gotType, gotFile string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotName = r.FormValue("dog_Name")
		gotFlag = r.FormValue("delete_profile")
		f, hdr, err := r.FormFile("profile")
		require.NoError(t, err)
		defer f.Close()
		gotType = hdr.Header.Get("Content-Type")
		gotFile = hdr.Filename
		_, _ = io.Copy(io.Discard, f)
	}))
	defer ts.Close()

	m, err := NewMultipart(petForm{Name: "Nala"}, true)
	require.NoError(t, err)
	m.Set("delete_profile", "true")
	m.Files = append(m.Files, FilePart{Field: "profile", Filename: "nala.png", Data: png})

	c, _ := NewWithBaseURL(ts.URL, 0)
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/v1/dogs/addDog", Body: m}, nil))

	require.Equal(t, "Nala", gotName)
	require.Equal(t, "true", gotFlag)
	require.Equal(t, "image/png", gotType)
	require.Equal(t, "nala.png", gotFile)
}
