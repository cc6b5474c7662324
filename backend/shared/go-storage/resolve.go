// backend/shared/go-storage/resolve.go
package storage

import (
	"context"
	"fmt"
	"time"
)

// DefaultExpiry is the lifetime of signed URLs when the caller does not choose one.
const DefaultExpiry = 600 * time.Second

// Options tunes a resolution. The zero value resolves with DefaultExpiry.
type Options struct {
	Disabled  bool
	ExpiresIn time.Duration
}

func (o Options) normalized() Options {
	if o.ExpiresIn <= 0 {
		o.ExpiresIn = DefaultExpiry
	}
	return o
}

// Result is what consumers render: the URL to use and the resolution status.
type Result struct {
	URL          string `json:"url"`
	IsResolving  bool   `json:"is_resolving"`
	ResolveError string `json:"resolve_error,omitempty"`
}

// Resolve classifies raw and, when it points at a private object and resolution is
// enabled, exchanges it for a signed URL. On signing failure the raw URL is kept and
// ResolveError explains why. It never returns an error.
func Resolve(ctx context.Context, signer Signer, raw string, opts Options) Result {
	opts = opts.normalized()
	ref := Classify(raw)
	if opts.Disabled || ref.Kind != KindSignable {
		return Result{URL: raw}
	}
	return sign(ctx, signer, ref, opts)
}

func sign(ctx context.Context, signer Signer, ref Reference, opts Options) Result {
	if signer == nil {
		return failed(ref.Raw, fmt.Errorf("no signer configured"))
	}
	signed, err := signer.SignURL(ctx, ref.Object, opts.ExpiresIn)
	if err != nil {
		return failed(ref.Raw, err)
	}
	if signed == "" {
		return failed(ref.Raw, fmt.Errorf("empty signed URL"))
	}
	return Result{URL: signed}
}

// Failure is the Result of a resolution that could not produce a signed URL.
func Failure(raw string, err error) Result {
	return failed(raw, err)
}

func failed(raw string, err error) Result {
	return Result{
		URL:          raw,
		ResolveError: "Impossible de générer un lien sécurisé: " + err.Error(),
	}
}
