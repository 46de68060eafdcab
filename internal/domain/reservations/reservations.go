// Package reservations define las reservas de cachorros y la descarga
// del comprobante en PDF.
package reservations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/resource"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotPDF = errors.New("server did not return a pdf")

var StatusLabels = map[string]string{
	"1": "reserved",
	"2": "cancelled",
	"3": "awaiting refund",
	"4": "sold",
}

var CancelReasonLabels = map[string]string{
	"1": "customer breach",
	"2": "farm issue",
}

var DepositLabels = map[string]string{
	"1": "pending refund",
	"2": "refunded",
	"3": "forfeited",
}

// BreedRef es la camada reservada (se muestra por fecha de parto).
type BreedRef struct {
	ID      int    `json:"id"`
	DueDate string `json:"dueDate"`
}

type Reservation struct {
	ID            int         `json:"id"`
	Breed         *BreedRef   `json:"breed"`
	Dog           *kennel.Ref `json:"dog"`
	Customer      kennel.Ref  `json:"customer"`
	User          kennel.Ref  `json:"user"`
	Date          string      `json:"date"`
	Deposit       float64     `json:"deposit"`
	Status        string      `json:"status"`
	CancelReason  *string     `json:"cancelReason"`
	DepositStatus *string     `json:"depositStatus"`
	CancelDate    *string     `json:"cancelDate"`
	Notes         *string     `json:"notes"`
}

// ReservationForm: reserva una camada o un perro puntual (o ambos).
type ReservationForm struct {
	ID            int     `json:"id"`
	BreedID       int     `json:"breedId"`
	DogID         int     `json:"dogId"`
	CusID         int     `json:"cusId" validate:"gt=0"`
	UserID        int     `json:"userId" validate:"gt=0"`
	Date          string  `json:"date" validate:"required"`
	Deposit       float64 `json:"deposit" validate:"gte=0"`
	Status        string  `json:"status" validate:"oneof=1 2 3 4"`
	CancelReason  string  `json:"cancelReason" validate:"omitempty,oneof=1 2"`
	DepositStatus string  `json:"depositStatus" validate:"omitempty,oneof=1 2 3"`
	CancelDate    string  `json:"cancelDate"`
	Notes         string  `json:"notes"`
}

type reservationPayload struct {
	BreedID       *int    `json:"breedId"`
	DogID         *int    `json:"dogId"`
	CusID         int     `json:"cusId"`
	UserID        int     `json:"userId"`
	Date          string  `json:"date"`
	Deposit       float64 `json:"deposit"`
	Status        string  `json:"status"`
	CancelReason  *string `json:"cancelReason"`
	DepositStatus *string `json:"depositStatus"`
	CancelDate    *string `json:"cancelDate"`
	Notes         *string `json:"notes"`
}

func Reservations() resource.Spec[Reservation, ReservationForm] {
	return resource.Spec[Reservation, ReservationForm]{
		Name:  "reservations",
		Label: "reservation",
		Endpoints: resource.Endpoints{
			Resource: "reservation", List: "getReservations", Add: "addReservation",
			Edit: "updateReservation", Disable: "disableReservation",
		},
		NewForm: func() ReservationForm { return ReservationForm{Status: "1"} },
		FormFromRecord: func(r Reservation) ReservationForm {
			f := ReservationForm{
				ID:            r.ID,
				DogID:         kennel.IDOf(r.Dog),
				CusID:         r.Customer.ID,
				UserID:        r.User.ID,
				Date:          r.Date,
				Deposit:       r.Deposit,
				Status:        r.Status,
				CancelReason:  kennel.Deref(r.CancelReason),
				DepositStatus: kennel.Deref(r.DepositStatus),
				CancelDate:    kennel.Deref(r.CancelDate),
				Notes:         kennel.Deref(r.Notes),
			}
			if r.Breed != nil {
				f.BreedID = r.Breed.ID
			}
			return f
		},
		FormID:   func(f ReservationForm) int { return f.ID },
		RecordID: func(r Reservation) int { return r.ID },
		Payload: func(f ReservationForm) (any, error) {
			if f.BreedID == 0 && f.DogID == 0 {
				return nil, fmt.Errorf("%w: a breeding or a dog is required", resource.ErrInvalidInput)
			}
			return reservationPayload{
				BreedID:       kennel.NullIfZero(f.BreedID),
				DogID:         kennel.NullIfZero(f.DogID),
				CusID:         f.CusID,
				UserID:        f.UserID,
				Date:          f.Date,
				Deposit:       f.Deposit,
				Status:        f.Status,
				CancelReason:  kennel.NullIfEmpty(f.CancelReason),
				DepositStatus: kennel.NullIfEmpty(f.DepositStatus),
				CancelDate:    kennel.NullIfEmpty(f.CancelDate),
				Notes:         kennel.NullIfEmpty(f.Notes),
			}, nil
		},
		Filters:  []string{"cusName", "status", "depositStatus"},
		Columns:  []string{"id", "customer", "dog", "breed", "date", "deposit", "status", "depositStatus"},
		Statuses: StatusLabels,
		Lookups: []resource.Lookup{
			{Name: "breedings", Resource: "breedings", Action: "getBreedings", LabelField: "dueDate"},
			{Name: "dogs", Resource: "dogs", Action: "getDogs", Filters: resource.Filters{"dog_StatusSale": "1"}},
			{Name: "customers", Resource: "customers", Action: "getCustomers"},
			{Name: "users", Resource: "users", Action: "getUserAll"},
		},
	}
}

// PDFName es el nombre con el que se guarda el comprobante.
func PDFName(id int) string { return "reservation_" + strconv.Itoa(id) + ".pdf" }

// DownloadPDF baja el comprobante y lo escribe en dir. Devuelve la ruta final.
func DownloadPDF(ctx context.Context, c *httpclient.Client, id int, dir string) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: id must be > 0", resource.ErrInvalidInput)
	}
	data, _, err := c.Download(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   resource.APIPrefix + "/reservation/generatePDF/" + strconv.Itoa(id),
	})
	if err != nil {
		return "", err
	}
	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return "", fmt.Errorf("%w: got %s", ErrNotPDF, mt.String())
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, PDFName(id))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
