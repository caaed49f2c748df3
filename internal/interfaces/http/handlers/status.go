package handlers

import (
	"net/http"

	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/gin-gonic/gin"
)

// StatusHandler 任务状态查询
type StatusHandler struct {
	pager    *status.Pager
	renderer *status.Renderer
}

// NewStatusHandler 创建状态处理器
func NewStatusHandler(pager *status.Pager, renderer *status.Renderer) *StatusHandler {
	return &StatusHandler{pager: pager, renderer: renderer}
}

// TaskView 单个任务
type TaskView struct {
	GID            string          `json:"gid"`
	Name           string          `json:"name"`
	Status         entities.Status `json:"status"`
	Engine         string          `json:"engine"`
	Size           int64           `json:"size"`
	ProcessedBytes int64           `json:"processed_bytes"`
	Progress       string          `json:"progress"`
	Speed          string          `json:"speed"`
	ETA            string          `json:"eta"`
}

// StatusResponse 状态响应
type StatusResponse struct {
	Page       status.Page       `json:"page"`
	Throughput status.Throughput `json:"throughput"`
	Tasks      []TaskView        `json:"tasks"`
	HTML       string            `json:"html,omitempty"`
}

// GetStatus 当前页的任务状态
// @Summary 任务状态
// @Description 返回状态面板当前页的任务和全局速度, render=true 时附带面板HTML
// @Tags 状态
// @Produce json
// @Param render query bool false "附带面板HTML"
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	tasks, page := h.pager.View()

	resp := StatusResponse{
		Page:       page,
		Throughput: status.AggregateThroughput(tasks),
		Tasks:      make([]TaskView, 0, len(tasks)),
	}
	for _, task := range page.Window(tasks) {
		resp.Tasks = append(resp.Tasks, TaskView{
			GID:            task.GID(),
			Name:           task.Name(),
			Status:         task.Status(),
			Engine:         task.Engine(),
			Size:           task.Size(),
			ProcessedBytes: task.ProcessedBytes(),
			Progress:       task.Progress(),
			Speed:          task.Speed(),
			ETA:            task.ETA(),
		})
	}

	if c.Query("render") == "true" {
		if doc, _ := h.renderer.Render(); doc != nil {
			resp.HTML = doc.Text
		}
	}

	c.JSON(http.StatusOK, resp)
}
