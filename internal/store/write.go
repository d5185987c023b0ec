package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Insert writes observations in one transaction and returns their IDs in
// input order. Observations without an ID get one from the store's
// IDGenerator. Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate
// IDs are silently ignored.
func (s *Store) Insert(ctx context.Context, obs ...Observation) ([]string, error) {
	for i, o := range obs {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("insert observation %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations
		(id, procedure, observed_property, phenomenon_time_start, phenomenon_time_end,
		 result_time, valid_time_start, valid_time_end, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, len(obs))
	for i, o := range obs {
		if o.ID == "" {
			o.ID = s.ids.Generate()
		}
		ids[i] = o.ID

		var resultTime, validStart, validEnd sql.NullInt64
		if o.ResultTime != nil {
			resultTime = sql.NullInt64{Int64: o.ResultTime.UnixMilli(), Valid: true}
		}
		if o.ValidTime != nil {
			validStart = sql.NullInt64{Int64: o.ValidTime.Start.UnixMilli(), Valid: true}
			validEnd = sql.NullInt64{Int64: o.ValidTime.End.UnixMilli(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			o.ID,
			o.Procedure,
			o.ObservedProperty,
			o.PhenomenonTime.Start.UnixMilli(),
			o.PhenomenonTime.End.UnixMilli(),
			resultTime,
			validStart,
			validEnd,
			o.Value,
		)
		if err != nil {
			return nil, fmt.Errorf("insert observation %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return ids, nil
}
