package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserProfile
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// MyStudies godoc
// @Summary List the current user's study memberships
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by member role (LEADER, MEMBER)"
// @Param status query string false "Filter by membership status (APPROVED, PENDING)"
// @Success 200 {array} model.MembershipWithStudy
// @Failure 401 {object} model.ErrorResponse
// @Router /api/users/me/studies [get]
func (h *UserHandler) MyStudies(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	memberships, err := h.svc.MyStudies(c.Request.Context(), user.ID, c.Query("role"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberships)
}

// MyAttendance godoc
// @Summary List the current user's attendance records
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RecordWithSession
// @Failure 401 {object} model.ErrorResponse
// @Router /api/users/me/attendance [get]
func (h *UserHandler) MyAttendance(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeError(c, apperr.Unauthorized("User is not authorized"))
		return
	}

	records, err := h.svc.MyAttendance(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
