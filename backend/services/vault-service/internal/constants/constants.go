package constants

import "time"

const MetricsNamespace = "vault"

// Storage backends selectable with STORAGE_BACKEND.
const (
	StorageBackendSupabase = "supabase"
	StorageBackendS3       = "s3"
)

// Signed URL expiry bounds for requests.
const (
	MinSignedURLExpiry = 10 * time.Second
	MaxSignedURLExpiry = 7 * 24 * time.Hour
)

const ResolveTimeout = 10 * time.Second

// DefaultVaultBucket holds the trainees' documents, one folder per user id.
const DefaultVaultBucket = "coffre-fort"
