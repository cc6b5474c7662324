package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAccessDenied is returned when a caller may not get a signed URL for an object.
var ErrAccessDenied = errors.New("accès refusé")

// AccessPolicy restricts what gets signed on behalf of a caller. Signers hold
// credentials that bypass per-user storage rules, so every signable reference
// coming from a user goes through Authorize first.
type AccessPolicy struct {
	// AllowedHosts lists the storage hosts references may point at. Empty allows none.
	AllowedHosts []string
	// AllowedBuckets lists the buckets that may be signed. Empty allows none.
	AllowedBuckets []string
	// OwnerPrefix requires object paths to start with "<owner>/".
	OwnerPrefix bool
}

// Authorize checks a KindSignable reference for owner. The returned error wraps
// ErrAccessDenied and says which rule failed.
func (p AccessPolicy) Authorize(ref Reference, owner string) error {
	if ref.Kind != KindSignable {
		return fmt.Errorf("%w: reference is not a storage object", ErrAccessDenied)
	}
	if !containsFold(p.AllowedHosts, ref.Host) {
		return fmt.Errorf("%w: host %q is not a storage host", ErrAccessDenied, ref.Host)
	}
	if !contains(p.AllowedBuckets, ref.Object.Bucket) {
		return fmt.Errorf("%w: bucket %q is not allowed", ErrAccessDenied, ref.Object.Bucket)
	}

	segments := strings.Split(ref.Object.Path, "/")
	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return fmt.Errorf("%w: relative segment in %q", ErrAccessDenied, ref.Object.Path)
		}
	}
	if p.OwnerPrefix && (owner == "" || len(segments) < 2 || segments[0] != owner) {
		return fmt.Errorf("%w: %q is not owned by %q", ErrAccessDenied, ref.Object.Path, owner)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
