package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the services.
const (
	OutcomeInvalidFormat = "invalid_format"
	OutcomeValid         = "valid"
	OutcomeRejected      = "rejected"
	OutcomeEmpty         = "empty"
	OutcomeSystemError   = "system_error"
	OutcomeAllowed       = "allowed"
	OutcomeBlocked       = "blocked"
	OutcomeFailOpen      = "fail_open"
	OutcomeOK            = "ok"
	OutcomeFailed        = "failed"
	OutcomePassThrough   = "pass_through"
	OutcomeSigned        = "signed"
	OutcomeSignFailed    = "sign_failed"
	OutcomeDisabled      = "disabled"
	OutcomeDenied        = "denied"
)

// Collector owns a private registry; nothing is registered on the global default.
type Collector struct {
	registry *prometheus.Registry

	codeValidations  *prometheus.CounterVec
	rateLimitChecks  *prometheus.CounterVec
	auditWrites      *prometheus.CounterVec
	urlResolutions   *prometheus.CounterVec
	remoteCallTiming *prometheus.HistogramVec
}

func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		codeValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_validations_total",
			Help:      "Attendance code validations by outcome.",
		}, []string{"outcome"}),
		rateLimitChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_checks_total",
			Help:      "Rate limit checks by outcome.",
		}, []string{"outcome"}),
		auditWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Audit log writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		urlResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "url_resolutions_total",
			Help:      "Storage URL resolutions by outcome.",
		}, []string{"outcome"}),
		remoteCallTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of remote procedure and signing calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call"}),
	}

	c.registry.MustRegister(
		c.codeValidations,
		c.rateLimitChecks,
		c.auditWrites,
		c.urlResolutions,
		c.remoteCallTiming,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// A nil *Collector is valid and records nothing, so tests can skip metrics.

func (c *Collector) CodeValidation(outcome string) {
	if c == nil {
		return
	}
	c.codeValidations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RateLimitCheck(outcome string) {
	if c == nil {
		return
	}
	c.rateLimitChecks.WithLabelValues(outcome).Inc()
}

func (c *Collector) AuditWrite(op, outcome string) {
	if c == nil {
		return
	}
	c.auditWrites.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) URLResolution(outcome string) {
	if c == nil {
		return
	}
	c.urlResolutions.WithLabelValues(outcome).Inc()
}

// ObserveCall records the time elapsed since start for the named remote call.
func (c *Collector) ObserveCall(call string, start time.Time) {
	if c == nil {
		return
	}
	c.remoteCallTiming.WithLabelValues(call).Observe(time.Since(start).Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
