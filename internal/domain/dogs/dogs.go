// Package dogs define la ficha de perros (form multipart con archivos)
// y sus posiciones por año.
package dogs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/resource"
)

// MaxShowImages es el tope de fotos de exposición por perro.
const MaxShowImages = 4

// Códigos de perro.
const (
	StatusPuppy      = "5"
	BreedingNotReady = "2"
	SaleNotForSale   = "2"
	Active           = "1"
	Removed          = "2"
)

var StatusLabels = map[string]string{
	"1": "stud",
	"2": "outside stud",
	"3": "dam",
	"4": "show",
	"5": "puppy",
	"6": "deceased",
}

var BreedingLabels = map[string]string{
	"1": "ready",
	"2": "not ready",
	"3": "awaiting result",
	"4": "pregnant",
	"5": "recovering",
}

var SaleLabels = map[string]string{
	"1": "for sale",
	"2": "not for sale",
	"3": "reserved",
	"4": "sold",
}

var GenderLabels = map[string]string{
	"M": "male",
	"F": "female",
}

// Dog une el registro del listado con la ficha completa de getDog.
type Dog struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	CallName       string            `json:"callName"`
	Gender         string            `json:"gender"`
	Status         kennel.FlexString `json:"status"`
	StatusBreeding kennel.FlexString `json:"statusBreeding"`
	StatusSale     kennel.FlexString `json:"statusSale"`
	StatusDel      kennel.FlexString `json:"statusDel,omitempty"`
	ProfileImage   string            `json:"profileImage,omitempty"`

	Microchip     kennel.FlexString `json:"microchip,omitempty"`
	RegNo         kennel.FlexString `json:"regNo,omitempty"`
	ColorID       kennel.FlexString `json:"colorID,omitempty"`
	Owner         string            `json:"owner,omitempty"`
	Breeder       string            `json:"breeder,omitempty"`
	K9Url         string            `json:"k9Url,omitempty"`
	Price         kennel.FlexString `json:"price,omitempty"`
	Birthday      string            `json:"birthday,omitempty"`
	BreedingID    kennel.FlexString `json:"breedingID,omitempty"`
	DadID         kennel.FlexString `json:"dadID,omitempty"`
	MomID         kennel.FlexString `json:"momID,omitempty"`
	PedigreePDF   string            `json:"pedigreePDF,omitempty"`
	PedigreeImage string            `json:"pedigreeImage,omitempty"`
	ShowImages    []string          `json:"showImages,omitempty"`
}

// DogForm viaja como multipart. Las claves de texto son las del API;
// los archivos son rutas locales que se adjuntan al guardar.
type DogForm struct {
	ID             int    `json:"id" form:"-"`
	Microchip      string `json:"dog_Microchip" form:"dog_Microchip"`
	RegNo          string `json:"dog_RegNo" form:"dog_RegNo"`
	Name           string `json:"dog_Name" form:"dog_Name" validate:"required"`
	CallName       string `json:"dog_CallName" form:"dog_CallName"`
	Gender         string `json:"dog_Gender" form:"dog_Gender" validate:"oneof=M F"`
	ColorID        string `json:"color_ID" form:"color_ID"`
	Status         string `json:"dog_Status" form:"dog_Status" validate:"required"`
	StatusBreeding string `json:"dog_StatusBreeding" form:"dog_StatusBreeding"`
	StatusSale     string `json:"dog_StatusSale" form:"dog_StatusSale"`
	StatusDel      string `json:"dog_StatusDel" form:"dog_StatusDel"`
	Owner          string `json:"dog_Owner" form:"dog_Owner"`
	Breeder        string `json:"dog_Breeder" form:"dog_Breeder"`
	K9Url          string `json:"dog_K9Url" form:"dog_K9Url"`
	Price          string `json:"dog_Price" form:"dog_Price"`
	Birthday       string `json:"dog_Birthday" form:"dog_Birthday"`
	BreedingID     string `json:"breeding_ID" form:"breeding_ID"`
	Dad            string `json:"dog_Dad" form:"dog_Dad"`
	Mom            string `json:"dog_Mom" form:"dog_Mom"`

	Profile     string   `json:"profile" form:"-"`
	Pedigree    string   `json:"pedigree" form:"-"`
	PedigreeImg string   `json:"pedigreeImg" form:"-"`
	Show        []string `json:"show" form:"-"`

	// Sólo en edición.
	DeleteProfile     bool     `json:"delete_profile" form:"-"`
	DeletePedigree    bool     `json:"delete_pedigree" form:"-"`
	DeletePedigreeImg bool     `json:"delete_pedigreeImg" form:"-"`
	DeleteShowAll     bool     `json:"delete_show_all" form:"-"`
	DeleteShowIDs     []string `json:"delete_show_ids" form:"-"`

	// fotos de show ya cargadas (lectura)
	ShowImages []string `json:"-" form:"-"`
}

func newDogForm() DogForm {
	return DogForm{
		Status:         StatusPuppy,
		StatusBreeding: BreedingNotReady,
		StatusSale:     SaleNotForSale,
		StatusDel:      Active,
	}
}

func formFromDog(d Dog) DogForm {
	f := DogForm{
		ID:             d.ID,
		Microchip:      d.Microchip.String(),
		RegNo:          d.RegNo.String(),
		Name:           d.Name,
		CallName:       d.CallName,
		Gender:         d.Gender,
		ColorID:        d.ColorID.String(),
		Status:         d.Status.String(),
		StatusBreeding: d.StatusBreeding.String(),
		StatusSale:     d.StatusSale.String(),
		StatusDel:      d.StatusDel.String(),
		Owner:          d.Owner,
		Breeder:        d.Breeder,
		K9Url:          d.K9Url,
		Price:          d.Price.String(),
		Birthday:       d.Birthday,
		BreedingID:     d.BreedingID.String(),
		Dad:            d.DadID.String(),
		Mom:            d.MomID.String(),
		ShowImages:     append([]string(nil), d.ShowImages...),
	}
	if f.StatusDel == "" {
		f.StatusDel = Active
	}
	return f
}

// keptShowImages cuenta las fotos existentes que sobreviven a los borrados.
func (f DogForm) keptShowImages() int {
	if f.DeleteShowAll {
		return 0
	}
	gone := make(map[string]struct{}, len(f.DeleteShowIDs))
	for _, id := range f.DeleteShowIDs {
		gone[strings.TrimSpace(id)] = struct{}{}
	}
	n := 0
	for _, img := range f.ShowImages {
		if _, ok := gone[img]; !ok {
			n++
		}
	}
	return n
}

// payload arma el multipart: alta manda todos los campos, edición sólo los no vacíos.
func payload(f DogForm) (any, error) {
	update := f.ID > 0
	if kept := f.keptShowImages(); kept+len(f.Show) > MaxShowImages {
		return nil, fmt.Errorf("%w: at most %d show images (%d kept, %d new)",
			resource.ErrInvalidInput, MaxShowImages, kept, len(f.Show))
	}

	m, err := httpclient.NewMultipart(f, update)
	if err != nil {
		return nil, err
	}

	if update {
		flags := []struct {
			key string
			on  bool
		}{
			{"delete_profile", f.DeleteProfile},
			{"delete_pedigree", f.DeletePedigree},
			{"delete_pedigreeImg", f.DeletePedigreeImg},
			{"delete_show_all", f.DeleteShowAll},
		}
		for _, fl := range flags {
			if fl.on {
				m.Set(fl.key, "true")
			}
		}
		if len(f.DeleteShowIDs) > 0 {
			m.Set("delete_show_ids", strings.Join(f.DeleteShowIDs, ","))
		}
	}

	files := []struct{ field, path string }{
		{"profile", f.Profile},
		{"pedigree", f.Pedigree},
		{"pedigreeImg", f.PedigreeImg},
	}
	for _, p := range f.Show {
		files = append(files, struct{ field, path string }{"show", p})
	}
	for _, file := range files {
		if strings.TrimSpace(file.path) == "" {
			continue
		}
		if err := m.AttachFile(file.field, file.path); err != nil {
			return nil, fmt.Errorf("%w: %v", resource.ErrInvalidInput, err)
		}
	}
	return m, nil
}

// Get trae la ficha completa. El API a veces la envuelve en {data: ...}.
func Get(ctx context.Context, c *httpclient.Client, id int) (Dog, error) {
	if id <= 0 {
		return Dog{}, fmt.Errorf("%w: id must be > 0", resource.ErrInvalidInput)
	}
	var raw json.RawMessage
	err := c.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   resource.APIPrefix + "/dogs/getDog/" + strconv.Itoa(id),
	}, &raw)
	if err != nil {
		return Dog{}, err
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
	}
	var d Dog
	if err := json.Unmarshal(raw, &d); err != nil {
		return Dog{}, fmt.Errorf("decode dog: %w", err)
	}
	if d.ID == 0 {
		d.ID = id
	}
	return d, nil
}

// Dogs arma la pantalla de perros. La edición parte de la ficha completa.
func Dogs(c *httpclient.Client) resource.Spec[Dog, DogForm] {
	return resource.Spec[Dog, DogForm]{
		Name:  "dogs",
		Label: "dog",
		Endpoints: resource.Endpoints{
			Resource: "dogs", List: "getDogs", Add: "addDog", Edit: "editDog", Disable: "disableDog",
		},
		NewForm:        newDogForm,
		FormFromRecord: formFromDog,
		FormID:         func(f DogForm) int { return f.ID },
		RecordID:       func(d Dog) int { return d.ID },
		Payload:        payload,
		Locate: func(ctx context.Context, id int) (Dog, error) {
			return Get(ctx, c, id)
		},
		Filters:  []string{"dog_Name", "dog_Status", "dog_StatusBreeding", "dog_StatusSale", "dog_Gender"},
		Columns:  []string{"id", "name", "callName", "gender", "status", "statusBreeding", "statusSale"},
		Statuses: StatusLabels,
		Lookups: []resource.Lookup{
			{Name: "colors", Resource: "colors", Action: "getColor"},
			{Name: "breedings", Resource: "breedings", Action: "getBreedings", Filters: resource.Filters{"status": "2"}, LabelField: "notes"},
			{Name: "dads", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_Gender": "M"}},
			{Name: "moms", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_Gender": "F"}},
		},
	}
}
