package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCodeRejectsMalformedWithoutRemoteCall(t *testing.T) {
	for _, code := range []string{"", "12345", "1234567", "12a456", " 123456", "123456 ", "１２３４５６", "12345\n"} {
		repo := &fakeCodeRepo{}
		svc := NewCodeValidatorService(repo, nil)

		res := svc.ValidateCode(context.Background(), code, "u-1")

		assert.Equal(t, models.FailedValidation(constants.MsgInvalidCodeFormat), res, "code %q", code)
		assert.Nil(t, res.SheetID)
		assert.Nil(t, res.FormationTitle)
		assert.Zero(t, repo.calls, "code %q must not reach the backend", code)
	}
}

func TestValidateCodeSystemError(t *testing.T) {
	svc := NewCodeValidatorService(&fakeCodeRepo{err: errors.New("connection refused")}, nil)

	res := svc.ValidateCode(context.Background(), "123456", "u-1")

	assert.Equal(t, models.ValidationResult{
		IsValid:      false,
		ErrorMessage: utils.Ptr("Erreur système"),
	}, res)
}

func TestValidateCodeNoRows(t *testing.T) {
	svc := NewCodeValidatorService(&fakeCodeRepo{}, nil)

	res := svc.ValidateCode(context.Background(), "123456", "u-1")

	assert.False(t, res.IsValid)
	require.NotNil(t, res.ErrorMessage)
	assert.Equal(t, "Erreur de validation", *res.ErrorMessage)
}

func TestValidateCodeUsesFirstRowAsIs(t *testing.T) {
	first := models.ValidationResult{
		IsValid:        true,
		SheetID:        utils.Ptr("sheet-1"),
		FormationTitle: utils.Ptr("CACES R489"),
	}
	repo := &fakeCodeRepo{results: []models.ValidationResult{
		first,
		{IsValid: false, ErrorMessage: utils.Ptr("ignored")},
	}}
	svc := NewCodeValidatorService(repo, nil)

	res := svc.ValidateCode(context.Background(), "000042", "u-1")

	assert.Equal(t, first, res)
	assert.Equal(t, 1, repo.calls)
}

func TestValidateCodeRejectedRowKeepsBackendMessage(t *testing.T) {
	row := models.ValidationResult{IsValid: false, ErrorMessage: utils.Ptr("Code expiré")}
	svc := NewCodeValidatorService(&fakeCodeRepo{results: []models.ValidationResult{row}}, nil)

	assert.Equal(t, row, svc.ValidateCode(context.Background(), "123456", "u-1"))
}

func TestValidateCodeCountsOutcomes(t *testing.T) {
	m := metrics.New("attendance_test")
	repo := &fakeCodeRepo{results: []models.ValidationResult{{IsValid: true, SheetID: utils.Ptr("s")}}}
	svc := NewCodeValidatorService(repo, m)

	svc.ValidateCode(context.Background(), "bad", "u-1")
	svc.ValidateCode(context.Background(), "123456", "u-1")
	repo.err = errors.New("down")
	svc.ValidateCode(context.Background(), "123456", "u-1")

	count, err := testutil.GatherAndCount(m.Registry(), "attendance_test_code_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
