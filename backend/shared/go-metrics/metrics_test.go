package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New("campusforma_test")

	c.CodeValidation(OutcomeValid)
	c.CodeValidation(OutcomeValid)
	c.CodeValidation(OutcomeInvalidFormat)
	c.RateLimitCheck(OutcomeFailOpen)
	c.AuditWrite("attempt", OutcomeFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.codeValidations.WithLabelValues(OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.codeValidations.WithLabelValues(OutcomeInvalidFormat)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimitChecks.WithLabelValues(OutcomeFailOpen)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.auditWrites.WithLabelValues("attempt", OutcomeFailed)))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.CodeValidation(OutcomeValid)
		c.RateLimitCheck(OutcomeAllowed)
		c.AuditWrite("action", OutcomeOK)
		c.URLResolution(OutcomeSigned)
		c.ObserveCall("sign", time.Now())
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	c := New("campusforma_test")
	c.URLResolution(OutcomeSigned)
	c.ObserveCall("sign", time.Now())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `campusforma_test_url_resolutions_total{outcome="signed"} 1`)
	assert.Contains(t, string(body), "campusforma_test_remote_call_duration_seconds_bucket")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := New("svc_a")
	b := New("svc_a")

	a.CodeValidation(OutcomeValid)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.codeValidations.WithLabelValues(OutcomeValid)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.codeValidations.WithLabelValues(OutcomeValid)))
}
