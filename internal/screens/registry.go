// Package screens arma todas las pantallas del panel sobre un mismo cliente.
package screens

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"goldendogfarm-admin/internal/domain/breedings"
	"goldendogfarm-admin/internal/domain/care"
	"goldendogfarm-admin/internal/domain/catalog"
	"goldendogfarm-admin/internal/domain/clinics"
	"goldendogfarm-admin/internal/domain/dogs"
	"goldendogfarm-admin/internal/domain/people"
	"goldendogfarm-admin/internal/domain/reservations"
	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/resource"
)

var ErrUnknownScreen = errors.New("unknown screen")

type Deps struct {
	Client    *httpclient.Client
	Logger    logger.Logger
	Notifier  resource.Notifier
	Confirmer resource.Confirmer
	// PageSize 0 => default de cada pantalla.
	PageSize int
	Now      func() time.Time
}

// Registry guarda las pantallas por nombre. Los campos tipados son los que
// tienen operaciones propias más allá del CRUD genérico.
type Registry struct {
	screens map[string]resource.Screen

	Dogs         *resource.Manager[dogs.Dog, dogs.DogForm]
	Breedings    *resource.Manager[breedings.Breeding, breedings.BreedingForm]
	Vaccinations *resource.Manager[care.Vaccination, care.VaccinationForm]
	Reservations *resource.Manager[reservations.Reservation, reservations.ReservationForm]
}

func register[R any, F any](r *Registry, d Deps, spec resource.Spec[R, F], parent resource.Reloader) (*resource.Manager[R, F], error) {
	if _, dup := r.screens[spec.Name]; dup {
		return nil, fmt.Errorf("screen %q registered twice", spec.Name)
	}
	m, err := resource.NewManager(spec, resource.Options{
		Client:    d.Client,
		Logger:    d.Logger,
		Notifier:  d.Notifier,
		Confirmer: d.Confirmer,
		PageSize:  d.PageSize,
		Parent:    parent,
	})
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", spec.Name, err)
	}
	r.screens[spec.Name] = m
	return m, nil
}

// New construye las pantallas. Los sub-recursos (intentos, dosis) recargan a su padre.
func New(d Deps) (*Registry, error) {
	if d.Client == nil {
		return nil, fmt.Errorf("%w: http client required", resource.ErrInvalidInput)
	}
	r := &Registry{screens: map[string]resource.Screen{}}

	var err error
	fail := func(e error) (*Registry, error) {
		r.Close()
		return nil, e
	}

	for _, spec := range []resource.Spec[catalog.Item, catalog.ItemForm]{
		catalog.Colors(), catalog.Positions(), catalog.Vaccines(), catalog.Treatments(), catalog.HealthChecks(),
	} {
		if _, err = register(r, d, spec, nil); err != nil {
			return fail(err)
		}
	}
	if _, err = register(r, d, clinics.Clinics(), nil); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, clinics.Vets(), nil); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, people.Customers(), nil); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, people.Users(), nil); err != nil {
		return fail(err)
	}

	if r.Dogs, err = register(r, d, dogs.Dogs(d.Client), nil); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, dogs.Positions(d.Now), nil); err != nil {
		return fail(err)
	}

	if r.Breedings, err = register(r, d, breedings.Breedings(), nil); err != nil {
		return fail(err)
	}
	parentBreeds := r.Breedings
	attempts := breedings.Attempts(func(ctx context.Context, id int) (breedings.Attempt, error) {
		return breedings.FindAttempt(ctx, parentBreeds, id)
	})
	if _, err = register(r, d, attempts, parentBreeds); err != nil {
		return fail(err)
	}

	if r.Vaccinations, err = register(r, d, care.Vaccinations(), nil); err != nil {
		return fail(err)
	}
	parentVacc := r.Vaccinations
	doses := care.Doses(func(ctx context.Context, id int) (care.Dose, error) {
		return care.FindDose(ctx, parentVacc, id)
	})
	if _, err = register(r, d, doses, parentVacc); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, care.TreatmentRecords(), nil); err != nil {
		return fail(err)
	}
	if _, err = register(r, d, care.DogHealthChecks(), nil); err != nil {
		return fail(err)
	}

	if r.Reservations, err = register(r, d, reservations.Reservations(), nil); err != nil {
		return fail(err)
	}
	return r, nil
}

// Names en orden alfabético.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.screens))
	for n := range r.screens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Get(name string) (resource.Screen, error) {
	s, ok := r.screens[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}
	return s, nil
}

// Close cancela el trabajo en vuelo de todas las pantallas.
func (r *Registry) Close() {
	for _, s := range r.screens {
		s.Close()
	}
}
