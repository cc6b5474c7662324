package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/dtos"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/services"
	internal_utils "github.com/campusforma/mono-repo/backend/services/attendance-service/internal/utils"
	shared_dtos "github.com/campusforma/mono-repo/backend/shared/go-dtos"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AttendanceController struct {
	emargement  *services.EmargementService
	validator   services.CodeValidatorService
	rateLimiter services.RateLimitService
	audit       services.AuditLogService
	validate    *validator.Validate
	location    *time.Location
	now         func() time.Time
}

func NewAttendanceController(
	emargement *services.EmargementService,
	v services.CodeValidatorService,
	rl services.RateLimitService,
	audit services.AuditLogService,
) *AttendanceController {
	loc, err := time.LoadLocation(constants.BusinessTimezone)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Unknown timezone %s, weeks are computed in UTC", constants.BusinessTimezone)
		loc = time.UTC
	}
	return &AttendanceController{
		emargement:  emargement,
		validator:   v,
		rateLimiter: rl,
		audit:       audit,
		validate:    validator.New(),
		location:    loc,
		now:         time.Now,
	}
}

func (c *AttendanceController) getUserID(r *http.Request) (string, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return "", &utils.AppError{StatusCode: http.StatusUnauthorized, Code: utils.ErrCodeUnauthorized, Message: "Missing userID in context", Err: utils.ErrUnauthorized}
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeInvalidPayload, Message: "Invalid userID format", Err: err}
	}
	return userID, nil
}

func (c *AttendanceController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := c.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", shared_dtos.FormatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// POST /api/v1/attendance/validate-code
func (c *AttendanceController) ValidateCodeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := c.getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.ValidateCodeRequest
	if !c.decode(w, r, &req) {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, c.validator.ValidateCode(r.Context(), req.Code, userID))
}

// GET /api/v1/attendance/rate-limit
func (c *AttendanceController) RateLimitHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := c.getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	client := utils.GetClientInfo(r)
	utils.RespondWithJSON(w, http.StatusOK, c.rateLimiter.CheckRateLimit(r.Context(), userID, client.IPAddress))
}

// POST /api/v1/attendance/submit
func (c *AttendanceController) SubmitCodeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := c.getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.SubmitCodeRequest
	if !c.decode(w, r, &req) {
		return
	}

	client := utils.GetClientInfo(r)
	res := c.emargement.SubmitCode(r.Context(), services.SubmitCodeInput{
		UserID:    userID,
		Code:      req.Code,
		Method:    models.AttendanceAction(req.Method),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// POST /api/v1/attendance/actions
func (c *AttendanceController) LogActionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := c.getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.LogActionRequest
	if !c.decode(w, r, &req) {
		return
	}

	client := utils.GetClientInfo(r)
	c.audit.LogAttendanceAction(r.Context(), services.ActionLogEntry{
		SheetID:   req.SheetID,
		UserID:    userID,
		Action:    models.AttendanceAction(req.Action),
		Metadata:  req.Metadata,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	utils.RespondWithJSON(w, http.StatusAccepted, dtos.ActionAcceptedResponse{Status: "accepted"})
}

// GET /api/v1/attendance/week?date=YYYY-MM-DD&offset=N
func (c *AttendanceController) WeekHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ref := c.now().In(c.location)
	if raw := q.Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(utils.DateLayout, raw, c.location)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "date must be YYYY-MM-DD", nil, utils.ErrInvalidDate)
			return
		}
		ref = parsed
	}

	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < -constants.MaxWeekOffset || n > constants.MaxWeekOffset {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "offset must be an integer number of weeks", nil, err)
			return
		}
		offset = n
	}

	week := internal_utils.WeekOf(ref, offset)
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		utils.Logger.WithField("userID", userID).Debugf("Week %s requested", week.Start)
	}
	utils.RespondWithJSON(w, http.StatusOK, week)
}
