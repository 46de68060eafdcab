package records

import (
	"context"
	"time"
)

// Repository guarda registros por recurso. El id lo asigna el adapter.
type Repository interface {
	Create(ctx context.Context, resource string, data map[string]any, at time.Time) (Record, error)
	Update(ctx context.Context, r Record) error
	GetByID(ctx context.Context, resource string, id int) (Record, error)
	// List devuelve todos los registros del recurso ordenados por id.
	List(ctx context.Context, resource string) ([]Record, error)
}
