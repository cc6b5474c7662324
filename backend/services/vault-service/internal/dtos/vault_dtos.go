package dtos

type ResolveURLRequest struct {
	URL              string `json:"url" validate:"required"`
	Enabled          *bool  `json:"enabled,omitempty"`
	ExpiresInSeconds int    `json:"expires_in_seconds,omitempty" validate:"omitempty,min=10,max=604800"`
}
