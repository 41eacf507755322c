package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/testutil"
)

func TestNearest(t *testing.T) {
	ix := NewLevenshteinIndex(testutil.ClinicalSchema())

	tests := []struct {
		term  string
		table string
		ok    bool
	}{
		{"referals", "REFERRAL", true},
		{"apointments", "F_SCHED_APPT", true},
		{"Patiens", "PATIENT", true},
		{"zebra", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			m, ok := ix.Nearest(tt.term)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.table, m.Table)
		})
	}
}

func TestNearestPrefersDeclarationOrderOnTies(t *testing.T) {
	schema := ir.NewSchema([]ir.SchemaTable{
		{Name: "A", Aliases: []string{"cart"}},
		{Name: "B", Aliases: []string{"card"}},
	}, nil)

	m, ok := NewLevenshteinIndex(schema).Nearest("carx")
	require.True(t, ok)
	assert.Equal(t, "A", m.Table)
	assert.Equal(t, 1, m.Distance)
}

func TestSchemaLoader(t *testing.T) {
	ix, err := SchemaLoader{Schema: testutil.ClinicalSchema()}.Load(context.Background())
	require.NoError(t, err)
	assert.Positive(t, ix.(*LevenshteinIndex).Len())

	_, err = SchemaLoader{Schema: ir.NewSchema(nil, nil)}.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SchemaLoader{Schema: testutil.ClinicalSchema()}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderFunc(t *testing.T) {
	boom := errors.New("index offline")
	var l Loader = LoaderFunc(func(context.Context) (Index, error) { return nil, boom })

	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
