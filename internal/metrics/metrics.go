// Package metrics exposes Prometheus counters for the treasury API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	otpRequests     prometheus.Counter
	logins          *prometheus.CounterVec
	proposals       prometheus.Counter
	votes           *prometheus.CounterVec
	treasuryBalance prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harambee_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		otpRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harambee_otp_requests_total",
			Help: "One-time codes issued.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harambee_otp_verifications_total",
			Help: "OTP verifications by result.",
		}, []string{"result"}),
		proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harambee_proposals_created_total",
			Help: "Funding proposals submitted.",
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harambee_votes_total",
			Help: "Votes recorded by choice.",
		}, []string{"choice"}),
		treasuryBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harambee_treasury_balance",
			Help: "Current treasury balance of the demo group.",
		}),
	}
	m.registry.MustRegister(m.httpRequests, m.otpRequests, m.logins, m.proposals, m.votes, m.treasuryBalance)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

func (m *Metrics) OTPRequested() {
	if m == nil {
		return
	}
	m.otpRequests.Inc()
}

func (m *Metrics) OTPVerified(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.proposals.Inc()
}

func (m *Metrics) VoteCast(choice string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(choice).Inc()
}

func (m *Metrics) SetTreasuryBalance(balance float64) {
	if m == nil {
		return
	}
	m.treasuryBalance.Set(balance)
}
