package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DecisionRecorder counts review decisions (approve/reject) for the label dashboard.
type DecisionRecorder struct {
	decisions *prometheus.CounterVec
}

// NewDecisionRecorder registers the decision counter on reg.
func NewDecisionRecorder(reg prometheus.Registerer) (*DecisionRecorder, error) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submission_review_decisions_total",
		Help: "Review decisions recorded, labelled by decision (approve or reject).",
	}, []string{"decision"})
	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &DecisionRecorder{decisions: decisions}, nil
}

// RecordDecision increments the counter for the given decision ("approve" or "reject").
func (r *DecisionRecorder) RecordDecision(decision string) {
	r.decisions.WithLabelValues(decision).Inc()
}

// ActiveArtistRecorder writes the monthly-active row to DynamoDB with a conditional put
// (only if not already present this month); only when the put succeeds does it increment
// the Prometheus counter. No in-memory set — DynamoDB is the source of truth.
type ActiveArtistRecorder struct {
	store   *ActiveArtistStore
	counter prometheus.Counter
}

// NewActiveArtistRecorder creates a recorder that uses the store for persistence and registers its counter on reg.
func NewActiveArtistRecorder(store *ActiveArtistStore, reg prometheus.Registerer) (*ActiveArtistRecorder, error) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "active_artists_seen_total",
		Help: "Unique artists this process has recorded this month (submission created or resubmitted). One increment per first-seen artist per month.",
	})
	if err := reg.Register(counter); err != nil {
		return nil, err
	}
	return &ActiveArtistRecorder{store: store, counter: counter}, nil
}

// RecordActiveArtist records that the artist was active. Inserts a row in DynamoDB only if not already present this month; increments the counter only on insert.
func (r *ActiveArtistRecorder) RecordActiveArtist(ctx context.Context, artistID string) error {
	inserted, err := r.store.RecordActiveMonthIfNew(ctx, artistID)
	if err != nil {
		return err
	}
	if inserted {
		r.counter.Inc()
	}
	return nil
}

// Handler returns an http.Handler that serves the default Prometheus registry (GET /metrics).
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerForRegistry returns an http.Handler that serves the given registry. Use in tests so each test server has its own registry.
func HandlerForRegistry(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
