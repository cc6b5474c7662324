package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/services"
	internal_utils "github.com/campusforma/mono-repo/backend/services/attendance-service/internal/utils"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "5b0c8c3e-8d0f-4a5e-9f55-6f1f1f0a9c01"

func TestMain(m *testing.M) {
	utils.Logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type stubValidator struct {
	gotCode string
	result  models.ValidationResult
}

func (s *stubValidator) ValidateCode(_ context.Context, code, _ string) models.ValidationResult {
	s.gotCode = code
	return s.result
}

type stubRateLimiter struct {
	gotIP  string
	status models.RateLimitStatus
}

func (s *stubRateLimiter) CheckRateLimit(_ context.Context, _, ip string) models.RateLimitStatus {
	s.gotIP = ip
	return s.status
}

type stubAudit struct {
	attempts int
	entries  []services.ActionLogEntry
}

func (s *stubAudit) RecordValidationAttempt(context.Context, string, string, bool) {
	s.attempts++
}

func (s *stubAudit) LogAttendanceAction(_ context.Context, e services.ActionLogEntry) {
	s.entries = append(s.entries, e)
}

type controllerFixture struct {
	validator *stubValidator
	limiter   *stubRateLimiter
	audit     *stubAudit
	ctrl      *AttendanceController
}

func newControllerFixture() *controllerFixture {
	f := &controllerFixture{
		validator: &stubValidator{},
		limiter:   &stubRateLimiter{status: models.RateLimitStatus{Allowed: true, RemainingAttempts: 5}},
		audit:     &stubAudit{},
	}
	em := services.NewEmargementService(f.limiter, f.validator, f.audit)
	f.ctrl = NewAttendanceController(em, f.validator, f.limiter, f.audit)
	return f
}

func authed(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	return req.WithContext(ctx)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, target, &buf)
}

func TestValidateCodeHandlerAlwaysAnswers200(t *testing.T) {
	f := newControllerFixture()
	f.validator.result = models.FailedValidation("Code invalide: doit contenir 6 chiffres")

	rec := httptest.NewRecorder()
	f.ctrl.ValidateCodeHandler(rec, authed(jsonRequest(t, http.MethodPost, "/", map[string]string{"code": "12"}), testUserID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", f.validator.gotCode)
	assert.JSONEq(t, `{
		"is_valid": false,
		"sheet_id": null,
		"formation_title": null,
		"error_message": "Code invalide: doit contenir 6 chiffres"
	}`, rec.Body.String())
}

func TestValidateCodeHandlerRejectsBadJSON(t *testing.T) {
	f := newControllerFixture()

	rec := httptest.NewRecorder()
	f.ctrl.ValidateCodeHandler(rec, authed(jsonRequest(t, http.MethodPost, "/", "{not json"), testUserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), utils.ErrCodeInvalidPayload)
}

func TestHandlersRequireUser(t *testing.T) {
	f := newControllerFixture()

	rec := httptest.NewRecorder()
	f.ctrl.RateLimitHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	f.ctrl.RateLimitHandler(rec, authed(httptest.NewRequest(http.MethodGet, "/", nil), "not-a-uuid"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitHandlerPassesClientIP(t *testing.T) {
	f := newControllerFixture()
	req := authed(httptest.NewRequest(http.MethodGet, "/", nil), testUserID)
	req.Header.Set("X-Forwarded-For", "198.51.100.23, 10.0.0.1")

	rec := httptest.NewRecorder()
	f.ctrl.RateLimitHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "198.51.100.23", f.limiter.gotIP)
	assert.JSONEq(t, `{"allowed":true,"remaining_attempts":5,"retry_after_seconds":0}`, rec.Body.String())
}

func TestSubmitCodeHandler(t *testing.T) {
	f := newControllerFixture()
	f.validator.result = models.ValidationResult{IsValid: true, SheetID: utils.Ptr("sheet-1")}

	req := authed(jsonRequest(t, http.MethodPost, "/", map[string]string{"code": "123456", "method": "qr_scan"}), testUserID)
	req.Header.Set("User-Agent", "Firefox")
	rec := httptest.NewRecorder()
	f.ctrl.SubmitCodeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body services.SubmitCodeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Validation.IsValid)
	assert.True(t, body.RateLimit.Allowed)
	assert.Equal(t, 1, f.audit.attempts)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AttendanceActionQRScan, f.audit.entries[0].Action)
	assert.Equal(t, "Firefox", f.audit.entries[0].UserAgent)
}

func TestSubmitCodeHandlerValidatesMethod(t *testing.T) {
	f := newControllerFixture()

	rec := httptest.NewRecorder()
	f.ctrl.SubmitCodeHandler(rec, authed(jsonRequest(t, http.MethodPost, "/", map[string]string{"code": "123456", "method": "signature"}), testUserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_oneof")
}

func TestLogActionHandler(t *testing.T) {
	f := newControllerFixture()
	body := map[string]any{
		"sheet_id": "0d6f1f4e-6a53-4a8f-b4a1-0cf1b0b1a2b3",
		"action":   "signature",
		"metadata": map[string]any{"slot": "matin"},
	}

	rec := httptest.NewRecorder()
	f.ctrl.LogActionHandler(rec, authed(jsonRequest(t, http.MethodPost, "/", body), testUserID))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, rec.Body.String())
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AttendanceActionSignature, f.audit.entries[0].Action)
	assert.Equal(t, "matin", f.audit.entries[0].Metadata["slot"])
	assert.Equal(t, testUserID, f.audit.entries[0].UserID)
}

func TestLogActionHandlerRejectsInvalidSheet(t *testing.T) {
	f := newControllerFixture()

	rec := httptest.NewRecorder()
	f.ctrl.LogActionHandler(rec, authed(jsonRequest(t, http.MethodPost, "/", map[string]string{"sheet_id": "x", "action": "signature"}), testUserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.audit.entries)
}

func TestWeekHandler(t *testing.T) {
	f := newControllerFixture()
	f.ctrl.now = func() time.Time { return time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	f.ctrl.WeekHandler(rec, httptest.NewRequest(http.MethodGet, "/?offset=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var week internal_utils.Week
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Equal(t, "2026-07-13", week.Start)
	assert.True(t, week.Days[1].IsHoliday)

	rec = httptest.NewRecorder()
	f.ctrl.WeekHandler(rec, httptest.NewRequest(http.MethodGet, "/?date=2026-03-04&offset=-1", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Equal(t, "2026-02-23", week.Start)

	for _, target := range []string{"/?date=04/03/2026", "/?offset=abc", "/?offset=100000"} {
		rec = httptest.NewRecorder()
		f.ctrl.WeekHandler(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthCheckHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthController(fakePinger{}).HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthController(fakePinger{err: errors.New("down")}).HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
