package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/aivia/internal/queryir"
	"github.com/roach88/aivia/internal/resolve"
)

var (
	// plansTotal counts Synthesize calls by outcome.
	// Labels: outcome (ok, NO_BINDINGS_FOUND, PATH_PLANNING_DEGRADED,
	// INCONSISTENT_PLAN, INVALID_REQUEST)
	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aivia",
		Subsystem: "engine",
		Name:      "plans_total",
		Help:      "Plan synthesis attempts by outcome",
	}, []string{"outcome"})

	// bindingsTotal counts resolved bindings by kind.
	// Labels: kind (entity, concept, category, negation, temporal)
	bindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aivia",
		Subsystem: "engine",
		Name:      "bindings_total",
		Help:      "Resolved bindings by kind",
	}, []string{"kind"})

	// warningsTotal counts plan warnings by code.
	warningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aivia",
		Subsystem: "engine",
		Name:      "warnings_total",
		Help:      "Plan warnings by code",
	}, []string{"code"})
)

const (
	outcomeOK     = "ok"
	metricsPrefix = "aivia_"
)

func recordOutcome(err error) {
	if err == nil {
		plansTotal.WithLabelValues(outcomeOK).Inc()
		return
	}
	var pe *PlanError
	if errors.As(err, &pe) {
		plansTotal.WithLabelValues(string(pe.Code)).Inc()
		return
	}
	plansTotal.WithLabelValues("error").Inc()
}

func recordWarnings(ws []queryir.Warning) {
	for _, w := range ws {
		warningsTotal.WithLabelValues(w.Code).Inc()
	}
}

func recordBindings(b resolve.Bindings) {
	bindingsTotal.WithLabelValues("entity").Add(float64(len(b.Entities)))
	for _, v := range b.Values {
		bindingsTotal.WithLabelValues(string(v.Kind)).Inc()
	}
	bindingsTotal.WithLabelValues("negation").Add(float64(len(b.Negations)))
	bindingsTotal.WithLabelValues("temporal").Add(float64(len(b.Temporal)))
}

// WriteMetrics writes the aivia_* families of g in the Prometheus text
// exposition format. A nil g means prometheus.DefaultGatherer.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
