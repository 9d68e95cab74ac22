package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.OTPRequested()
	m.OTPRequested()
	m.OTPVerified(true)
	m.OTPVerified(false)
	m.VoteCast("yes")
	m.SetTreasuryBalance(1250000)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.otpRequests))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.votes.WithLabelValues("yes")))
	assert.Equal(t, float64(1250000), testutil.ToFloat64(m.treasuryBalance))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OTPRequested()
		m.OTPVerified(true)
		m.ProposalCreated()
		m.VoteCast("no")
		m.SetTreasuryBalance(1)
	})
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/proposals/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	req := httptest.NewRequest("GET", "/proposals/p_1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/proposals/{id}", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "harambee_http_requests_total")
}
