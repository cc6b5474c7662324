package services

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-storage"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.Logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type countingSigner struct {
	calls   int
	expires time.Duration
	err     error
}

func (s *countingSigner) SignURL(_ context.Context, obj storage.ObjectRef, expiresIn time.Duration) (string, error) {
	s.calls++
	s.expires = expiresIn
	if s.err != nil {
		return "", s.err
	}
	return "https://signed.example/" + obj.Bucket + "/" + obj.Path + "?token=t", nil
}

const (
	owner      = "u1"
	privateURL = "https://proj.supabase.co/storage/v1/object/coffre-fort/u1/contrat.pdf"
)

var testPolicy = storage.AccessPolicy{
	AllowedHosts:   []string{"proj.supabase.co"},
	AllowedBuckets: []string{"coffre-fort"},
	OwnerPrefix:    true,
}

func TestResolveSignsPrivateObjects(t *testing.T) {
	signer := &countingSigner{}
	svc := NewDocumentURLService(signer, testPolicy, nil, true, 0)

	res := svc.Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner})

	assert.Equal(t, "https://signed.example/coffre-fort/u1/contrat.pdf?token=t", res.URL)
	assert.Empty(t, res.ResolveError)
	assert.Equal(t, storage.DefaultExpiry, signer.expires)
}

func TestResolveRequestExpiryWins(t *testing.T) {
	signer := &countingSigner{}
	svc := NewDocumentURLService(signer, testPolicy, nil, true, 5*time.Minute)

	svc.Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner})
	assert.Equal(t, 5*time.Minute, signer.expires)

	svc.Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner, ExpiresIn: time.Minute})
	assert.Equal(t, time.Minute, signer.expires)
}

func TestResolveDisabled(t *testing.T) {
	signer := &countingSigner{}

	off := false
	res := NewDocumentURLService(signer, testPolicy, nil, true, 0).Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner, Enabled: &off})
	assert.Equal(t, privateURL, res.URL)

	on := true
	res = NewDocumentURLService(signer, testPolicy, nil, false, 0).Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner, Enabled: &on})
	assert.Equal(t, privateURL, res.URL)

	assert.Zero(t, signer.calls)
}

func TestResolveFailureKeepsRawURL(t *testing.T) {
	m := metrics.New("vault_test")
	svc := NewDocumentURLService(&countingSigner{err: errors.New("Object not found")}, testPolicy, m, true, 0)

	res := svc.Resolve(context.Background(), ResolveInput{URL: privateURL, UserID: owner})

	assert.Equal(t, privateURL, res.URL)
	assert.NotEmpty(t, res.ResolveError)
	assert.False(t, res.IsResolving)

	count, err := testutil.GatherAndCount(m.Registry(), "vault_test_url_resolutions_total", "vault_test_remote_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestResolvePassThrough(t *testing.T) {
	signer := &countingSigner{}
	svc := NewDocumentURLService(signer, testPolicy, nil, true, 0)

	for _, raw := range []string{
		"https://proj.supabase.co/storage/v1/object/sign/coffre-fort/a.pdf?token=abc",
		"https://example.com/doc.pdf",
		"not a url",
	} {
		assert.Equal(t, raw, svc.Resolve(context.Background(), ResolveInput{URL: raw}).URL)
	}
	assert.Zero(t, signer.calls)
}

func TestResolveRefusesOtherOwnersHostsAndBuckets(t *testing.T) {
	m := metrics.New("vault_policy_test")
	signer := &countingSigner{}
	svc := NewDocumentURLService(signer, testPolicy, m, true, 0)

	for _, in := range []ResolveInput{
		{URL: "https://attacker.example/storage/v1/object/coffre-fort/u1/contrat.pdf", UserID: owner},
		{URL: "https://proj.supabase.co/storage/v1/object/private-admin-bucket/u1/payslip.pdf", UserID: owner},
		{URL: "https://proj.supabase.co/storage/v1/object/coffre-fort/other-user/payslip.pdf", UserID: owner},
		{URL: privateURL},
	} {
		res := svc.Resolve(context.Background(), in)
		assert.Equal(t, in.URL, res.URL)
		assert.Contains(t, res.ResolveError, storage.ErrAccessDenied.Error())
		assert.Error(t, svc.Check(in))
	}
	assert.Zero(t, signer.calls)
	expected := `
# HELP vault_policy_test_url_resolutions_total Storage URL resolutions by outcome.
# TYPE vault_policy_test_url_resolutions_total counter
vault_policy_test_url_resolutions_total{outcome="denied"} 4
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "vault_policy_test_url_resolutions_total"))
}

func TestCheckIgnoresReferencesThatAreNotSigned(t *testing.T) {
	svc := NewDocumentURLService(&countingSigner{}, testPolicy, nil, true, 0)
	off := false

	assert.NoError(t, svc.Check(ResolveInput{URL: "https://example.com/doc.pdf"}))
	assert.NoError(t, svc.Check(ResolveInput{URL: "https://attacker.example/storage/v1/object/x/y.pdf", Enabled: &off}))
	assert.NoError(t, svc.Check(ResolveInput{URL: privateURL, UserID: owner}))
}
