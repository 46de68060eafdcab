package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"goldendogfarm-admin/internal/domain/records"
)

// RecordsRepo guarda registros en memoria con ids por recurso.
type RecordsRepo struct {
	mu     sync.RWMutex
	byRes  map[string]map[int]records.Record
	nextID map[string]int
}

func NewRecordsRepo() *RecordsRepo {
	return &RecordsRepo{
		byRes:  make(map[string]map[int]records.Record),
		nextID: make(map[string]int),
	}
}

func (r *RecordsRepo) Create(ctx context.Context, resource string, data map[string]any, at time.Time) (records.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resource = strings.TrimSpace(resource)
	r.nextID[resource]++
	rec := records.Record{
		ID:        r.nextID[resource],
		Resource:  resource,
		Data:      data,
		CreatedAt: at,
		UpdatedAt: at,
	}.Clone()

	if r.byRes[resource] == nil {
		r.byRes[resource] = make(map[int]records.Record)
	}
	r.byRes[resource][rec.ID] = rec
	return rec.Clone(), nil
}

func (r *RecordsRepo) Update(ctx context.Context, rec records.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byRes[rec.Resource]
	if _, exists := rows[rec.ID]; !exists {
		return records.ErrNotFound
	}
	rows[rec.ID] = rec.Clone()
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, resource string, id int) (records.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byRes[resource][id]
	if !ok {
		return records.Record{}, records.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *RecordsRepo) List(ctx context.Context, resource string) ([]records.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.Record, 0, len(r.byRes[resource]))
	for _, rec := range r.byRes[resource] {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ records.Repository = (*RecordsRepo)(nil)
