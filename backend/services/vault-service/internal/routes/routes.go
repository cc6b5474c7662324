package routes

const (
	Health       = "/health"
	Metrics      = "/metrics"
	VaultResolve = "/api/v1/vault/resolve"
)
