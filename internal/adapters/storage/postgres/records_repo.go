package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"goldendogfarm-admin/internal/domain/records"

	"github.com/Masterminds/squirrel"
)

type RecordsRepo struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var recordColumns = []string{"id", "resource", "data", "created_at", "updated_at"}

func (r *RecordsRepo) Create(ctx context.Context, resource string, data map[string]any, at time.Time) (records.Record, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return records.Record{}, fmt.Errorf("encode data: %w", err)
	}
	query, args, err := r.qb.Insert("records").
		Columns("resource", "data", "created_at", "updated_at").
		Values(resource, string(raw), at, at).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return records.Record{}, err
	}

	var id int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return records.Record{}, err
	}
	return records.Record{ID: id, Resource: resource, Data: data, CreatedAt: at, UpdatedAt: at}, nil
}

func (r *RecordsRepo) Update(ctx context.Context, rec records.Record) error {
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	query, args, err := r.qb.Update("records").
		Set("data", string(raw)).
		Set("updated_at", rec.UpdatedAt).
		Where(squirrel.Eq{"id": rec.ID, "resource": rec.Resource}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, resource string, id int) (records.Record, error) {
	query, args, err := r.qb.Select(recordColumns...).
		From("records").
		Where(squirrel.Eq{"id": id, "resource": resource}).
		ToSql()
	if err != nil {
		return records.Record{}, err
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return records.Record{}, records.ErrNotFound
	}
	return rec, err
}

func (r *RecordsRepo) List(ctx context.Context, resource string) ([]records.Record, error) {
	query, args, err := r.qb.Select(recordColumns...).
		From("records").
		Where(squirrel.Eq{"resource": resource}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (records.Record, error) {
	var (
		rec records.Record
		raw []byte
	)
	if err := s.Scan(&rec.ID, &rec.Resource, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return records.Record{}, err
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return records.Record{}, fmt.Errorf("decode record %d: %w", rec.ID, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	return rec, nil
}

var _ records.Repository = (*RecordsRepo)(nil)
