package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查
type HealthHandler struct {
	startTime time.Time
	version   string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(startTime time.Time, version string) *HealthHandler {
	return &HealthHandler{startTime: startTime, version: version}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Started       string `json:"started"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HealthCheck 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 健康检查
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		Started:       humanize.Time(h.startTime),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}
