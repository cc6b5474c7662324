// backend/shared/go-storage/reference.go
package storage

import (
	"net/url"
	"strings"
)

// ReferenceKind tells how a stored file reference must be handled before use.
type ReferenceKind int

const (
	// KindAlreadyResolvable references are used as-is: not a URL, already signed, or carrying a token.
	KindAlreadyResolvable ReferenceKind = iota
	// KindUnparseable references look like storage URLs but no bucket/path could be extracted.
	KindUnparseable
	// KindSignable references point at a private object and must be exchanged for a signed URL.
	KindSignable
)

func (k ReferenceKind) String() string {
	switch k {
	case KindAlreadyResolvable:
		return "already_resolvable"
	case KindUnparseable:
		return "unparseable"
	case KindSignable:
		return "signable"
	default:
		return "unknown"
	}
}

// ObjectRef locates one object inside the storage backend.
type ObjectRef struct {
	Bucket string
	Path   string
}

// Reference is the classification of a raw URL.
type Reference struct {
	Raw    string
	Kind   ReferenceKind
	Host   string    // set only for KindSignable
	Object ObjectRef // set only for KindSignable
}

const (
	signedObjectSegment = "/object/sign/"
	tokenQueryParam     = "token"
	publicMarker        = "public"
)

// Classify decides whether raw needs to be signed. It never touches the network.
func Classify(raw string) Reference {
	ref := Reference{Raw: raw, Kind: KindAlreadyResolvable}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ref
	}
	if strings.Contains(u.Path, signedObjectSegment) {
		return ref
	}
	if u.Query().Has(tokenQueryParam) {
		return ref
	}

	obj, ok := extractObject(u.Path)
	if !ok {
		ref.Kind = KindUnparseable
		return ref
	}
	ref.Kind = KindSignable
	ref.Host = strings.ToLower(u.Host)
	ref.Object = obj
	return ref
}

// extractObject reads .../storage/<version>/object/[public/]<bucket>/<path...>.
func extractObject(p string) (ObjectRef, bool) {
	segments := splitSegments(p)

	storageIdx := indexOf(segments, "storage", 0)
	if storageIdx < 0 {
		return ObjectRef{}, false
	}
	objectIdx := indexOf(segments, "object", storageIdx+1)
	if objectIdx < 0 {
		return ObjectRef{}, false
	}

	start := objectIdx + 1
	if start < len(segments) && segments[start] == publicMarker {
		start++
	}
	if start >= len(segments) {
		return ObjectRef{}, false
	}

	bucket := segments[start]
	objectPath := strings.Join(segments[start+1:], "/")
	if bucket == "" || objectPath == "" {
		return ObjectRef{}, false
	}
	return ObjectRef{Bucket: bucket, Path: objectPath}, true
}

func splitSegments(p string) []string {
	raw := strings.Split(p, "/")
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func indexOf(segments []string, want string, from int) int {
	for i := from; i < len(segments); i++ {
		if segments[i] == want {
			return i
		}
	}
	return -1
}
