package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/aivia/internal/ir"
	"github.com/roach88/aivia/internal/pathplan"
)

func TestEngine_ConcurrentSynthesis(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := clinicalConfig()
	cached, err := pathplan.NewCachedOracle(pathplan.SchemaOracle{Schema: cfg.Schema}, 16)
	require.NoError(t, err)
	e := New(cfg, WithLogger(discardLogger()), WithOracle(cached))

	req := Request{
		RowGrain: "patient",
		Tokens: []ir.ConceptToken{
			tok(ir.TokenEntity, "patients"),
			tok(ir.TokenCondition, "hypertensive"),
			tok(ir.TokenNegation, "no appointments"),
			lastMonths(12),
		},
	}
	want, err := e.Synthesize(context.Background(), req)
	require.NoError(t, err)
	wantFP, err := want.Fingerprint()
	require.NoError(t, err)

	const workers = 16
	fps := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan, err := e.Synthesize(context.Background(), req)
			if err != nil {
				errs[i] = err
				return
			}
			fps[i], errs[i] = plan.Fingerprint()
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, wantFP, fps[i])
	}
	assert.Equal(t, 2, cached.Len(), "one inner and one left request")
}
