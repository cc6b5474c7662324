package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicyAuthorize(t *testing.T) {
	policy := AccessPolicy{
		AllowedHosts:   []string{"proj.supabase.co"},
		AllowedBuckets: []string{"coffre-fort"},
		OwnerPrefix:    true,
	}
	const owner = "5b0c7a4e-4f7e-4d8c-9a43-2f1d1e0b8a11"

	cases := []struct {
		name  string
		raw   string
		owner string
		ok    bool
	}{
		{"own document", "https://proj.supabase.co/storage/v1/object/coffre-fort/" + owner + "/contrat.pdf", owner, true},
		{"host is case insensitive", "https://PROJ.supabase.co/storage/v1/object/public/coffre-fort/" + owner + "/a.pdf", owner, true},
		{"foreign host", "https://attacker.example/storage/v1/object/coffre-fort/" + owner + "/contrat.pdf", owner, false},
		{"foreign bucket", "https://proj.supabase.co/storage/v1/object/private-admin-bucket/" + owner + "/payslip.pdf", owner, false},
		{"other user's document", "https://proj.supabase.co/storage/v1/object/coffre-fort/other-user/payslip.pdf", owner, false},
		{"no owner", "https://proj.supabase.co/storage/v1/object/coffre-fort/" + owner + "/contrat.pdf", "", false},
		{"owner folder itself", "https://proj.supabase.co/storage/v1/object/coffre-fort/" + owner, owner, false},
		{"dot-dot escape", "https://proj.supabase.co/storage/v1/object/coffre-fort/" + owner + "/../other-user/payslip.pdf", owner, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := Classify(tc.raw)
			require.Equal(t, KindSignable, ref.Kind)
			err := policy.Authorize(ref, tc.owner)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrAccessDenied)
			}
		})
	}
}

func TestAccessPolicyZeroValueDeniesEverything(t *testing.T) {
	ref := Classify("https://proj.supabase.co/storage/v1/object/docs/a.pdf")
	assert.ErrorIs(t, AccessPolicy{}.Authorize(ref, "u1"), ErrAccessDenied)
	assert.ErrorIs(t, AccessPolicy{AllowedHosts: []string{"x"}}.Authorize(Classify("plain text"), "u1"), ErrAccessDenied)
}

func TestAccessPolicyWithoutOwnerPrefix(t *testing.T) {
	policy := AccessPolicy{AllowedHosts: []string{"proj.supabase.co"}, AllowedBuckets: []string{"docs"}}
	assert.NoError(t, policy.Authorize(Classify("https://proj.supabase.co/storage/v1/object/docs/a.pdf"), ""))
}
