package engine

import (
	"bytes"
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/queryir"
)

func TestMetrics_OutcomeCounters(t *testing.T) {
	e := newClinicalEngine()
	ctx := context.Background()

	noBindings := plansTotal.WithLabelValues(string(ErrCodeNoBindings))
	ok := plansTotal.WithLabelValues(outcomeOK)
	beforeFail, beforeOK := promtest.ToFloat64(noBindings), promtest.ToFloat64(ok)

	_, err := e.Synthesize(ctx, Request{})
	require.Error(t, err)
	_, err = e.Synthesize(ctx, Request{Tokens: []ir.ConceptToken{tok(ir.TokenEntity, "referrals")}})
	require.NoError(t, err)

	assert.Equal(t, beforeFail+1, promtest.ToFloat64(noBindings))
	assert.Equal(t, beforeOK+1, promtest.ToFloat64(ok))
}

func TestMetrics_BindingCounters(t *testing.T) {
	e := newClinicalEngine()

	entities := bindingsTotal.WithLabelValues("entity")
	negations := bindingsTotal.WithLabelValues("negation")
	beforeEntities, beforeNegations := promtest.ToFloat64(entities), promtest.ToFloat64(negations)

	_, err := e.Synthesize(context.Background(), Request{Tokens: []ir.ConceptToken{
		tok(ir.TokenEntity, "patients"),
		tok(ir.TokenNegation, "no referral"),
	}})
	require.NoError(t, err)

	assert.Equal(t, beforeEntities+1, promtest.ToFloat64(entities))
	assert.Equal(t, beforeNegations+1, promtest.ToFloat64(negations))
}

func TestMetrics_DegradedPathWarning(t *testing.T) {
	cfg := clinicalConfig()
	e := New(cfg, WithLogger(discardLogger()), WithOracle(predicatelessOracle(cfg.Schema)))

	degraded := warningsTotal.WithLabelValues(queryir.WarnPathPlanningDegraded)
	before := promtest.ToFloat64(degraded)

	_, err := e.Synthesize(context.Background(), referralsAndPatients())
	require.NoError(t, err)

	assert.Equal(t, before+1, promtest.ToFloat64(degraded))
}

func TestWriteMetrics(t *testing.T) {
	_, err := newClinicalEngine().Synthesize(context.Background(), Request{})
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "# TYPE aivia_engine_plans_total counter")
	assert.Contains(t, out, `aivia_engine_plans_total{outcome="NO_BINDINGS_FOUND"}`)
	assert.NotContains(t, out, "go_goroutines")
}
