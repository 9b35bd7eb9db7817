package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/service"
)

type StudyHandler struct {
	svc *service.StudyService
}

func NewStudyHandler(svc *service.StudyService) *StudyHandler {
	return &StudyHandler{svc: svc}
}

func parseID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		writeError(c, apperr.InvalidID(label))
		return 0, false
	}
	return id, true
}

// CreateStudy godoc
// @Summary Create a study group
// @Description The creator becomes the study leader and its first member.
// @Tags studies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateStudyRequest true "Study details"
// @Success 201 {object} model.StudyEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/studies [post]
func (h *StudyHandler) CreateStudy(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	var req model.CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}

	study, err := h.svc.CreateStudy(c.Request.Context(), user.ID, req.Title, req.Description, req.Category, req.MaxMembers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.StudyEnvelope{Study: *study})
}

// JoinStudy godoc
// @Summary Join a study group
// @Tags studies
// @Produce json
// @Security BearerAuth
// @Param studyId path int true "Study ID"
// @Success 201 {object} model.MembershipEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/studies/{studyId}/join [post]
func (h *StudyHandler) JoinStudy(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	studyID, ok := parseID(c, "studyId", "study")
	if !ok {
		return
	}

	member, err := h.svc.JoinStudy(c.Request.Context(), studyID, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.MembershipEnvelope{Membership: *member})
}

// CreateSession godoc
// @Summary Schedule an attendance session
// @Description Leader only.
// @Tags studies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studyId path int true "Study ID"
// @Param request body model.CreateSessionRequest true "Session title and date"
// @Success 201 {object} model.SessionEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/studies/{studyId}/sessions [post]
func (h *StudyHandler) CreateSession(c *gin.Context) {
	studyID, ok := parseID(c, "studyId", "study")
	if !ok {
		return
	}

	var req model.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}
	if req.Title == "" || req.Date == "" {
		writeError(c, apperr.InvalidPayload("title and date are required"))
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(c, apperr.InvalidDate())
		return
	}

	session, err := h.svc.CreateSession(c.Request.Context(), studyID, req.Title, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.SessionEnvelope{Session: *session})
}

// RecordAttendance godoc
// @Summary Record the caller's attendance for a session
// @Description Members only; re-submitting overwrites the previous status.
// @Tags studies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studyId path int true "Study ID"
// @Param sessionId path int true "Session ID"
// @Param request body model.AttendanceRequest true "PRESENT, LATE or ABSENT"
// @Success 201 {object} model.RecordEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/studies/{studyId}/sessions/{sessionId}/attendance [post]
func (h *StudyHandler) RecordAttendance(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	studyID, ok := parseID(c, "studyId", "study")
	if !ok {
		return
	}
	sessionID, ok := parseID(c, "sessionId", "session")
	if !ok {
		return
	}

	var req model.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}

	record, err := h.svc.RecordAttendance(c.Request.Context(), studyID, sessionID, user.ID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.RecordEnvelope{Record: *record})
}

// AttendanceSummary godoc
// @Summary Aggregate attendance counts for a study
// @Description Leader only.
// @Tags studies
// @Produce json
// @Security BearerAuth
// @Param studyId path int true "Study ID"
// @Success 200 {object} model.AttendanceSummary
// @Failure 403 {object} model.ErrorResponse
// @Router /api/studies/{studyId}/attendance/summary [get]
func (h *StudyHandler) AttendanceSummary(c *gin.Context) {
	studyID, ok := parseID(c, "studyId", "study")
	if !ok {
		return
	}

	summary, err := h.svc.AttendanceSummary(c.Request.Context(), studyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
