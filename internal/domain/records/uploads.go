package records

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"goldendogfarm-admin/internal/domain/dogs"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const maxUpload = 32 << 20

type fileSlot struct {
	key  string
	pdf  bool
	many bool
}

// Campos de archivo del formulario de perro y la clave donde queda la ruta.
var dogFiles = map[string]fileSlot{
	"profile":     {key: "profileImage"},
	"pedigree":    {key: "pedigreePDF", pdf: true},
	"pedigreeImg": {key: "pedigreeImage"},
	"show":        {key: "showImages", many: true},
}

var deleteFlags = map[string]string{
	"delete_profile":     "profileImage",
	"delete_pedigree":    "pedigreePDF",
	"delete_pedigreeImg": "pedigreeImage",
	"delete_show_all":    "showImages",
}

// upload es un formulario multipart ya leído. Los archivos sólo dejan su ruta.
type upload struct {
	fields     map[string]any
	files      map[string][]string
	deletes    map[string]bool
	deleteShow []string
}

func readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return upload{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	form := r.MultipartForm
	u := upload{
		fields:  map[string]any{},
		files:   map[string][]string{},
		deletes: map[string]bool{},
	}
	for k, vals := range form.Value {
		if len(vals) == 0 {
			continue
		}
		switch {
		case k == "delete_show_ids":
			for _, id := range strings.Split(vals[0], ",") {
				if id = strings.TrimSpace(id); id != "" {
					u.deleteShow = append(u.deleteShow, id)
				}
			}
		case deleteFlags[k] != "":
			u.deletes[k] = vals[0] == "true"
		default:
			u.fields[k] = vals[0]
		}
	}
	for field, headers := range form.File {
		slot, ok := dogFiles[field]
		if !ok {
			return upload{}, fmt.Errorf("%w: unexpected file field %q", ErrInvalidInput, field)
		}
		for _, fh := range headers {
			name, err := storedName(fh, slot)
			if err != nil {
				return upload{}, err
			}
			u.files[field] = append(u.files[field], name)
		}
	}
	return u, nil
}

// storedName valida el contenido real del archivo y arma la ruta con la que se guarda.
func storedName(fh *multipart.FileHeader, slot fileSlot) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidInput, fh.Filename, err)
	}
	switch {
	case slot.pdf && !mt.Is("application/pdf"):
		return "", fmt.Errorf("%w: %s must be a PDF, got %s", ErrInvalidInput, fh.Filename, mt.String())
	case !slot.pdf && !strings.HasPrefix(mt.String(), "image/"):
		return "", fmt.Errorf("%w: %s must be an image, got %s", ErrInvalidInput, fh.Filename, mt.String())
	}
	return "uploads/dogs/" + uuid.NewString() + mt.Extension(), nil
}

// apply vuelca el formulario sobre data: primero bajas, después altas.
func (u upload) apply(data map[string]any) error {
	for k, v := range u.fields {
		data[k] = v
	}
	for flag, key := range deleteFlags {
		if u.deletes[flag] {
			delete(data, key)
		}
	}
	if len(u.deleteShow) > 0 {
		kept := slices.DeleteFunc(showImages(data), func(s string) bool {
			return slices.Contains(u.deleteShow, s)
		})
		data["showImages"] = kept
	}
	for field, slot := range dogFiles {
		names := u.files[field]
		if len(names) == 0 {
			continue
		}
		if slot.many {
			data[slot.key] = append(showImages(data), names...)
			continue
		}
		data[slot.key] = names[0]
	}
	if n := len(showImages(data)); n > dogs.MaxShowImages {
		return fmt.Errorf("%w: at most %d show images, got %d", ErrInvalidInput, dogs.MaxShowImages, n)
	}
	return nil
}

// showImages lee la lista tal como quedó guardada ([]string en memoria, []any desde JSON).
func showImages(data map[string]any) []string {
	switch v := data["showImages"].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
