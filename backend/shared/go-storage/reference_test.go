package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		kind   ReferenceKind
		bucket string
		path   string
	}{
		{
			name: "already signed",
			raw:  "https://host/storage/v1/object/sign/mybucket/a/b.pdf?token=xyz",
			kind: KindAlreadyResolvable,
		},
		{
			name: "signed segment without token",
			raw:  "https://host/storage/v1/object/sign/mybucket/a/b.pdf",
			kind: KindAlreadyResolvable,
		},
		{
			name: "token query parameter",
			raw:  "https://cdn.example.com/files/b.pdf?token=abc",
			kind: KindAlreadyResolvable,
		},
		{
			name: "not a URL",
			raw:  "just some text",
			kind: KindAlreadyResolvable,
		},
		{
			name: "relative path",
			raw:  "/storage/v1/object/mybucket/a.pdf",
			kind: KindAlreadyResolvable,
		},
		{
			name: "empty",
			raw:  "",
			kind: KindAlreadyResolvable,
		},
		{
			name:   "public marker",
			raw:    "https://host/storage/v1/object/public/mybucket/a/b.pdf",
			kind:   KindSignable,
			bucket: "mybucket",
			path:   "a/b.pdf",
		},
		{
			name:   "no public marker",
			raw:    "https://host/storage/v1/object/mybucket/a/b.pdf",
			kind:   KindSignable,
			bucket: "mybucket",
			path:   "a/b.pdf",
		},
		{
			name:   "escaped characters are decoded",
			raw:    "https://host/storage/v1/object/coffre-fort/user%201/attestation.pdf",
			kind:   KindSignable,
			bucket: "coffre-fort",
			path:   "user 1/attestation.pdf",
		},
		{
			name: "external URL",
			raw:  "https://example.com/docs/a.pdf",
			kind: KindUnparseable,
		},
		{
			name: "bucket without path",
			raw:  "https://host/storage/v1/object/public/mybucket",
			kind: KindUnparseable,
		},
		{
			name: "nothing after object",
			raw:  "https://host/storage/v1/object/",
			kind: KindUnparseable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := Classify(tc.raw)
			assert.Equal(t, tc.kind, ref.Kind, "kind")
			assert.Equal(t, tc.raw, ref.Raw)
			if tc.kind == KindSignable {
				assert.Equal(t, tc.bucket, ref.Object.Bucket)
				assert.Equal(t, tc.path, ref.Object.Path)
			} else {
				assert.Equal(t, ObjectRef{}, ref.Object)
			}
		})
	}
}
