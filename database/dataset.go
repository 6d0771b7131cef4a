package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetRow is the input of a histogram, stored so it can be rendered by name.
type DatasetRow struct {
	Name        string
	Title       string
	Values      []string
	Labels      []string
	Intensities []float64
	CreatedAt   time.Time
}

func (d *Database) SaveDataset(ctx context.Context, r DatasetRow) error {
	vals, err := json.Marshal(r.Values)
	if err != nil {
		return fmt.Errorf("encoding dataset values: %w", err)
	}
	labels, err := json.Marshal(r.Labels)
	if err != nil {
		return fmt.Errorf("encoding dataset labels: %w", err)
	}
	intensities, err := json.Marshal(r.Intensities)
	if err != nil {
		return fmt.Errorf("encoding dataset intensities: %w", err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err = d.write.ExecContext(ctx, `
		INSERT INTO dataset (name, title, vals, labels, intensities, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			vals = excluded.vals,
			labels = excluded.labels,
			intensities = excluded.intensities,
			created_at = excluded.created_at`,
		r.Name,
		r.Title,
		string(vals),
		string(labels),
		string(intensities),
		r.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving dataset %s: %w", r.Name, err)
	}
	return nil
}

func (d *Database) GetDataset(ctx context.Context, name string) (DatasetRow, error) {
	row := d.read.QueryRowContext(ctx, `
		SELECT name, title, vals, labels, intensities, created_at
		FROM dataset
		WHERE name = ?`, name)

	r, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DatasetRow{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		d.logger.Error("error when scanning dataset row", slog.String("name", name), slog.Any("error", err))
		return DatasetRow{}, err
	}
	return r, nil
}

func (d *Database) ListDatasets(ctx context.Context) ([]DatasetRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT name, title, vals, labels, intensities, created_at
		FROM dataset
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetching datasets: %w", err)
	}
	defer rows.Close()

	var datasets []DatasetRow
	for rows.Next() {
		r, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset rows: %w", err)
	}

	return datasets, nil
}

func (d *Database) DeleteDataset(ctx context.Context, name string) error {
	res, err := d.write.ExecContext(ctx, `DELETE FROM dataset WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting dataset %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return nil
}

// PurgeDatasets deletes datasets older than retentionDays.
func (d *Database) PurgeDatasets(ctx context.Context, retentionDays int) error {
	d.logger.Debug("purging datasets")
	before := time.Now().Add(-24 * time.Hour * time.Duration(retentionDays))
	res, err := d.write.ExecContext(ctx, `
		DELETE FROM dataset WHERE created_at < ?`,
		before.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("error when purging dataset: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		d.logger.Warn("can't get rows affected by purge", slog.String("table", "dataset"), slog.Any("error", err))
	} else {
		d.logger.Debug(fmt.Sprintf("purged %d rows from dataset", rows))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(s scanner) (DatasetRow, error) {
	var r DatasetRow
	var vals, labels, intensities, createdAt string
	if err := s.Scan(&r.Name, &r.Title, &vals, &labels, &intensities, &createdAt); err != nil {
		return DatasetRow{}, err
	}
	if err := json.Unmarshal([]byte(vals), &r.Values); err != nil {
		return DatasetRow{}, fmt.Errorf("decoding dataset %s values: %w", r.Name, err)
	}
	if err := json.Unmarshal([]byte(labels), &r.Labels); err != nil {
		return DatasetRow{}, fmt.Errorf("decoding dataset %s labels: %w", r.Name, err)
	}
	if err := json.Unmarshal([]byte(intensities), &r.Intensities); err != nil {
		return DatasetRow{}, fmt.Errorf("decoding dataset %s intensities: %w", r.Name, err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return DatasetRow{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	r.CreatedAt = t
	return r, nil
}
