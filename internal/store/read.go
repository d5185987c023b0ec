package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/temporal"
)

// Find returns the observations matching a compiled filter set.
// Results are ordered deterministically: phenomenon_time_start ASC,
// id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Find(ctx context.Context, res *compiler.Result) ([]Observation, error) {
	query, args, err := s.render.Select(res)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	out := []Observation{}
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}

// Count returns the number of observations matching res. A nil res counts
// every stored observation.
func (s *Store) Count(ctx context.Context, res *compiler.Result) (int64, error) {
	query, args, err := s.render.Count(res)
	if err != nil {
		return 0, fmt.Errorf("render count: %w", err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

// scanObservation scans a row in observationColumns order.
func scanObservation(rows *sql.Rows) (Observation, error) {
	var (
		o                    Observation
		phenStart, phenEnd   int64
		resultTime           sql.NullInt64
		validStart, validEnd sql.NullInt64
	)
	err := rows.Scan(
		&o.ID,
		&o.Procedure,
		&o.ObservedProperty,
		&phenStart,
		&phenEnd,
		&resultTime,
		&validStart,
		&validEnd,
		&o.Value,
	)
	if err != nil {
		return Observation{}, fmt.Errorf("scan observation: %w", err)
	}

	o.PhenomenonTime = temporal.Period{Start: decodeTime(phenStart), End: decodeTime(phenEnd)}
	if resultTime.Valid {
		t := decodeTime(resultTime.Int64)
		o.ResultTime = &t
	}
	if validStart.Valid && validEnd.Valid {
		o.ValidTime = &temporal.Period{Start: decodeTime(validStart.Int64), End: decodeTime(validEnd.Int64)}
	}
	return o, nil
}
