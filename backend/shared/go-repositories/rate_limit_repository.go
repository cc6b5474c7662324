package repositories

import (
	"context"

	"github.com/campusforma/mono-repo/backend/shared/go-models"
)

type RateLimitRepository interface {
	CheckRateLimit(ctx context.Context, userID, ipAddress string) ([]models.RateLimitStatus, error)
}

type rateLimitRepo struct {
	db DB
}

func NewRateLimitRepository(db DB) RateLimitRepository {
	return &rateLimitRepo{db: db}
}

func (r *rateLimitRepo) CheckRateLimit(ctx context.Context, userID, ipAddress string) ([]models.RateLimitStatus, error) {
	q := `
        SELECT allowed, remaining_attempts, retry_after_seconds
        FROM check_rate_limit($1, $2)
    `
	rows, err := r.db.Query(ctx, q, userID, ipAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.RateLimitStatus
	for rows.Next() {
		var st models.RateLimitStatus
		if err := rows.Scan(&st.Allowed, &st.RemainingAttempts, &st.RetryAfterSeconds); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

type restRateLimitRepo struct {
	client RPCClient
}

func NewRESTRateLimitRepository(client RPCClient) RateLimitRepository {
	return &restRateLimitRepo{client: client}
}

func (r *restRateLimitRepo) CheckRateLimit(ctx context.Context, userID, ipAddress string) ([]models.RateLimitStatus, error) {
	params := map[string]any{
		"p_user_id":    userID,
		"p_ip_address": ipAddress,
	}
	var statuses []models.RateLimitStatus
	if err := r.client.RPC(ctx, fnCheckRateLimit, params, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}
