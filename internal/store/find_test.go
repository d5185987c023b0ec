package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub007/internal/compiler"
	"github.com/52North/SOS-sub007/internal/temporal"
	"github.com/52North/SOS-sub007/internal/testutil"
)

var hour = temporal.Period{Start: testutil.T0, End: testutil.T1}

func TestFind_PhenomenonTime(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	tests := []struct {
		rel  temporal.Relation
		want []string
	}{
		{temporal.During, []string{"obs-0003"}},
		{temporal.After, []string{"obs-0006"}},
		{temporal.Before, []string{"obs-0001"}},
		{temporal.Meets, []string{"obs-0002"}},
		{temporal.Equals, []string{"obs-0004"}},
		{temporal.OverlappedBy, []string{"obs-0005"}},
		{temporal.Contains, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.rel.String(), func(t *testing.T) {
			got := findIDs(t, s, compiler.Filter{Relation: tt.rel, ValueReference: "phenomenonTime", Reference: hour})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_ResultTimeFallsBack(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	// obs-0003 has no result time and falls back to its phenomenon end
	// (+20m); obs-0006 has an explicit result time of +30m.
	got := findIDs(t, s, compiler.Filter{Relation: temporal.During, ValueReference: "om:resultTime", Reference: hour})
	assert.Equal(t, []string{"obs-0003", "obs-0006"}, got)

	got = findIDs(t, s, compiler.Filter{Relation: temporal.After, ValueReference: "resultTime", Reference: hour})
	assert.Equal(t, []string{"obs-0002", "obs-0005"}, got)

	got = findIDs(t, s, compiler.Filter{Relation: temporal.Begins, ValueReference: "resultTime", Reference: hour})
	assert.Equal(t, []string{"obs-0004"}, got)
}

func TestFind_ValidTime(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	got := findIDs(t, s, compiler.Filter{Relation: temporal.BegunBy, ValueReference: "validTime", Reference: hour})
	assert.Equal(t, []string{"obs-0004"}, got)
}

func TestFind_Conjunction(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	wide := temporal.Period{Start: testutil.At(-3 * time.Hour), End: testutil.At(4 * time.Hour)}
	got := findIDs(t, s,
		compiler.Filter{Relation: temporal.During, ValueReference: "phenomenonTime", Reference: wide},
		compiler.Filter{Relation: temporal.Before, ValueReference: "resultTime", Reference: temporal.Instant{At: testutil.T0}},
	)
	assert.Equal(t, []string{"obs-0001"}, got)
}

func TestFind_NoFiltersReturnsAllInTimeOrder(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	got := findIDs(t, s)
	assert.Equal(t, []string{"obs-0001", "obs-0002", "obs-0004", "obs-0003", "obs-0005", "obs-0006"}, got)
}

func TestFind_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)

	res, err := compiler.Default().Compile([]compiler.Filter{
		{Relation: temporal.Equals, ValueReference: "phenomenonTime", Reference: hour},
	})
	require.NoError(t, err)
	found, err := s.Find(context.Background(), res)
	require.NoError(t, err)
	require.Len(t, found, 1)

	o := found[0]
	assert.Equal(t, "p2", o.Procedure)
	assert.Equal(t, "temp", o.ObservedProperty)
	assert.Equal(t, "4", o.Value)
	assert.Equal(t, hour, o.PhenomenonTime)
	require.NotNil(t, o.ResultTime)
	assert.Equal(t, testutil.T0, *o.ResultTime)
	require.NotNil(t, o.ValidTime)
	assert.Equal(t, testutil.At(24*time.Hour), o.ValidTime.End)
}

func TestFind_EmptyStore(t *testing.T) {
	s := createTestStore(t)
	got := findIDs(t, s, compiler.Filter{Relation: temporal.After, ValueReference: "phenomenonTime", Reference: hour})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCount(t *testing.T) {
	s := createTestStore(t)
	seedObservations(t, s)
	ctx := context.Background()

	n, err := s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	res, err := compiler.Default().Compile([]compiler.Filter{
		{Relation: temporal.During, ValueReference: "resultTime", Reference: hour},
	})
	require.NoError(t, err)
	n, err = s.Count(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestInsert_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	o := Observation{ID: "fixed", Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour}

	ids, err := s.Insert(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, []string{"fixed"}, ids)

	_, err = s.Insert(ctx, o)
	require.NoError(t, err)

	n, err := s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInsert_AssignsIDs(t *testing.T) {
	s := createTestStore(t)
	ids, err := s.Insert(context.Background(),
		Observation{Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour},
		Observation{ID: "mine", Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour},
		Observation{Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"obs-0001", "mine", "obs-0002"}, ids)
}

func TestInsert_RandomIDsByDefault(t *testing.T) {
	s, err := Open(t.TempDir() + "/uuid.db")
	require.NoError(t, err)
	defer s.Close()

	ids, err := s.Insert(context.Background(), Observation{Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Len(t, ids[0], 36)
}

func TestInsert_Rejects(t *testing.T) {
	s := createTestStore(t)
	reversed := temporal.Period{Start: testutil.T1, End: testutil.T0}

	tests := []struct {
		name string
		obs  Observation
		want string
	}{
		{"no procedure", Observation{ObservedProperty: "q", PhenomenonTime: hour}, "procedure"},
		{"no property", Observation{Procedure: "p", PhenomenonTime: hour}, "observed property"},
		{"no phenomenon time", Observation{Procedure: "p", ObservedProperty: "q"}, "phenomenon time is required"},
		{"reversed phenomenon time", Observation{Procedure: "p", ObservedProperty: "q", PhenomenonTime: reversed}, "malformed period"},
		{"reversed valid time", Observation{Procedure: "p", ObservedProperty: "q", PhenomenonTime: hour, ValidTime: &reversed}, "valid time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Insert(context.Background(), tt.obs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	n, err := s.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected batches write nothing")
}
