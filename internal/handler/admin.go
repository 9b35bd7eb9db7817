package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UsersEnvelope
// @Failure 403 {object} model.ErrorResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UsersEnvelope{Users: users})
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.ChangeRoleRequest true "USER or ADMIN"
// @Success 200 {object} model.UserEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req model.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidPayload("invalid request body"))
		return
	}

	profile, err := h.svc.ChangeRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserEnvelope{User: *profile})
}

// Deactivate godoc
// @Summary Deactivate a user account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.UserEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Router /api/admin/users/{id}/deactivate [patch]
func (h *AdminHandler) Deactivate(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	profile, err := h.svc.Deactivate(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserEnvelope{User: *profile})
}

// UserAttendance godoc
// @Summary List a user's attendance records
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.UserAttendanceResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/admin/users/{id}/attendance [get]
func (h *AdminHandler) UserAttendance(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	res, err := h.svc.UserAttendance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Studies godoc
// @Summary Paginated study index with aggregate counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by study status"
// @Param page query int false "1-based page number"
// @Param size query int false "Page size (max 50)"
// @Success 200 {object} model.Page[model.StudyListItem]
// @Failure 403 {object} model.ErrorResponse
// @Router /api/admin/studies [get]
func (h *AdminHandler) Studies(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	res, err := h.svc.Studies(c.Request.Context(), c.Query("status"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StatsOverview godoc
// @Summary Aggregate platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StatsOverview
// @Failure 403 {object} model.ErrorResponse
// @Router /api/admin/stats/overview [get]
func (h *AdminHandler) StatsOverview(c *gin.Context) {
	res, err := h.svc.StatsOverview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
