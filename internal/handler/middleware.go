package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/service"
)

const authUserKey = "auth_user"

func writeError(c *gin.Context, err error) {
	appErr := apperr.As(err)
	c.JSON(appErr.Status, model.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
		Status:    appErr.Status,
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
	})
}

func abortError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}

func extractBearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate guards protected routes: bearer extraction, revocation check,
// token verification and a live-user load, in that order. The resolved
// identity lands in the request context for role and ownership checks.
func Authenticate(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		rawToken, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortError(c, apperr.Unauthorized("Authorization header missing"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			abortError(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

// RequireAdmin runs after Authenticate and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil || user.Role != model.RoleAdmin {
			abortError(c, apperr.Forbidden("You do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

// RequireStudyLeader runs after Authenticate and rejects callers who do not
// lead the study named in the route.
func RequireStudyLeader(studies *service.StudyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		studyID, err := strconv.ParseInt(c.Param("studyId"), 10, 64)
		if user == nil || err != nil {
			abortError(c, apperr.InvalidID("study"))
			return
		}

		isLeader, err := studies.IsLeader(c.Request.Context(), studyID, user.ID)
		if err != nil {
			abortError(c, err)
			return
		}
		if !isLeader {
			abortError(c, apperr.Forbidden("Only study leaders can perform this action for the given study"))
			return
		}
		c.Next()
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
