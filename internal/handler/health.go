package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gogo-study/backend/internal/model"
)

// 헬스체크 엔드포인트
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "OK",
		Service:   "GoGoStudy API",
		Timestamp: time.Now().UTC(),
	})
}

// 루트 엔드포인트
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "GoGoStudy API server is running",
	})
}
