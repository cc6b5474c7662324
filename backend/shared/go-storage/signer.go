// backend/shared/go-storage/signer.go
package storage

import (
	"context"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-supabase"
)

// Signer exchanges an object reference for a time-limited URL.
type Signer interface {
	SignURL(ctx context.Context, obj ObjectRef, expiresIn time.Duration) (string, error)
}

// SignerFunc adapts a plain function to Signer.
type SignerFunc func(ctx context.Context, obj ObjectRef, expiresIn time.Duration) (string, error)

func (f SignerFunc) SignURL(ctx context.Context, obj ObjectRef, expiresIn time.Duration) (string, error) {
	return f(ctx, obj, expiresIn)
}

// SupabaseSigner signs through the storage API of the backend-as-a-service.
type SupabaseSigner struct {
	client *supabase.Client
}

func NewSupabaseSigner(client *supabase.Client) *SupabaseSigner {
	return &SupabaseSigner{client: client}
}

func (s *SupabaseSigner) SignURL(ctx context.Context, obj ObjectRef, expiresIn time.Duration) (string, error) {
	return s.client.CreateSignedURL(ctx, obj.Bucket, obj.Path, expiresIn)
}
