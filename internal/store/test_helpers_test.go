package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/temporal"
	"github.com/52North/SOS-sub007/internal/testutil"
)

// createTestStore creates a new store in a temp directory with sequential
// observation IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDs("obs")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func at(d time.Duration) *time.Time {
	t := testutil.At(d)
	return &t
}

func span(from, to time.Duration) temporal.Period {
	return temporal.Period{Start: testutil.At(from), End: testutil.At(to)}
}

// seedObservations stores six observations around the reference hour
// [T0, T1]:
//
//	obs-0001 [-2h, -1h]      result: falls back to -1h
//	obs-0002 [-30m, 0]       result: +2h
//	obs-0003 [+10m, +20m]    result: falls back to +20m
//	obs-0004 [0, +1h]        result: 0, valid [0, +24h]
//	obs-0005 [+30m, +90m]    result: falls back to +90m
//	obs-0006 [+2h, +3h]      result: +30m
func seedObservations(t *testing.T, s *Store) {
	t.Helper()
	valid := span(0, 24*time.Hour)
	obs := []Observation{
		{Procedure: "p1", ObservedProperty: "temp", PhenomenonTime: span(-2*time.Hour, -time.Hour), Value: "1"},
		{Procedure: "p1", ObservedProperty: "temp", PhenomenonTime: span(-30*time.Minute, 0), ResultTime: at(2 * time.Hour), Value: "2"},
		{Procedure: "p1", ObservedProperty: "temp", PhenomenonTime: span(10*time.Minute, 20*time.Minute), Value: "3"},
		{Procedure: "p2", ObservedProperty: "temp", PhenomenonTime: span(0, time.Hour), ResultTime: at(0), ValidTime: &valid, Value: "4"},
		{Procedure: "p2", ObservedProperty: "temp", PhenomenonTime: span(30*time.Minute, 90*time.Minute), Value: "5"},
		{Procedure: "p2", ObservedProperty: "temp", PhenomenonTime: span(2*time.Hour, 3*time.Hour), ResultTime: at(30 * time.Minute), Value: "6"},
	}
	ids, err := s.Insert(context.Background(), obs...)
	require.NoError(t, err)
	require.Len(t, ids, len(obs))
}

// findIDs compiles filters with the default compiler and returns the IDs
// of the matching observations in result order.
func findIDs(t *testing.T, s *Store, filters ...compiler.Filter) []string {
	t.Helper()
	res, err := compiler.Default().Compile(filters)
	require.NoError(t, err)

	found, err := s.Find(context.Background(), res)
	require.NoError(t, err)

	ids := make([]string, len(found))
	for i, o := range found {
		ids[i] = o.ID
	}
	return ids
}
