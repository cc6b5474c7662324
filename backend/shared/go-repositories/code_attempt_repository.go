package repositories

import (
	"context"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-models"
)

type CodeAttemptRepository interface {
	Create(ctx context.Context, attempt *models.CodeValidationAttempt) error
	// DeleteOlderThan removes attempts recorded before cutoff and returns how many went away.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type codeAttemptRepo struct {
	db DB
}

func NewCodeAttemptRepository(db DB) CodeAttemptRepository {
	return &codeAttemptRepo{db: db}
}

// Create lets the database stamp attempted_at.
func (r *codeAttemptRepo) Create(ctx context.Context, attempt *models.CodeValidationAttempt) error {
	q := `
        INSERT INTO attendance_code_attempts (user_id, ip_address, success, attempted_at)
        VALUES ($1, $2, $3, NOW())
    `
	_, err := r.db.Exec(ctx, q, attempt.UserID, inetParam(attempt.IPAddress), attempt.Success)
	return err
}

func (r *codeAttemptRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := `DELETE FROM attendance_code_attempts WHERE attempted_at < $1`
	tag, err := r.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type restCodeAttemptRepo struct {
	client RPCClient
	now    func() time.Time
}

func NewRESTCodeAttemptRepository(client RPCClient) CodeAttemptRepository {
	return &restCodeAttemptRepo{client: client, now: time.Now}
}

// Create stamps attempted_at with the service clock; PostgREST has no NOW() for inserts.
func (r *restCodeAttemptRepo) Create(ctx context.Context, attempt *models.CodeValidationAttempt) error {
	row := *attempt
	row.AttemptedAt = r.now().UTC()
	return r.client.Insert(ctx, tableCodeAttempts, row)
}

func (r *restCodeAttemptRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, ErrNotSupported
}
