package repositories

import (
	"context"

	"github.com/campusforma/mono-repo/backend/shared/go-models"
)

// AttendanceCodeRepository calls the validate-code procedure. Zero rows is not an error.
type AttendanceCodeRepository interface {
	ValidateCode(ctx context.Context, code, userID string) ([]models.ValidationResult, error)
}

type attendanceCodeRepo struct {
	db DB
}

func NewAttendanceCodeRepository(db DB) AttendanceCodeRepository {
	return &attendanceCodeRepo{db: db}
}

func (r *attendanceCodeRepo) ValidateCode(ctx context.Context, code, userID string) ([]models.ValidationResult, error) {
	q := `
        SELECT is_valid, sheet_id::text, formation_title, error_message
        FROM validate_attendance_code($1, $2)
    `
	rows, err := r.db.Query(ctx, q, code, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ValidationResult
	for rows.Next() {
		var res models.ValidationResult
		if err := rows.Scan(
			&res.IsValid,
			&res.SheetID,
			&res.FormationTitle,
			&res.ErrorMessage,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

type restAttendanceCodeRepo struct {
	client RPCClient
}

func NewRESTAttendanceCodeRepository(client RPCClient) AttendanceCodeRepository {
	return &restAttendanceCodeRepo{client: client}
}

func (r *restAttendanceCodeRepo) ValidateCode(ctx context.Context, code, userID string) ([]models.ValidationResult, error) {
	params := map[string]any{
		"p_code":    code,
		"p_user_id": userID,
	}
	var results []models.ValidationResult
	if err := r.client.RPC(ctx, fnValidateAttendanceCode, params, &results); err != nil {
		return nil, err
	}
	return results, nil
}
