package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/gin-gonic/gin"
)

// StatsHandler 系统统计
type StatsHandler struct {
	probe       status.SystemProbe
	reg         *status.Registry
	renderer    *status.Renderer
	downloadDir string
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(probe status.SystemProbe, reg *status.Registry, renderer *status.Renderer, downloadDir string) *StatsHandler {
	return &StatsHandler{probe: probe, reg: reg, renderer: renderer, downloadDir: downloadDir}
}

// DiskView 磁盘用量
type DiskView struct {
	Path        string  `json:"path"`
	Total       string  `json:"total"`
	Free        string  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// NetView 网卡累计收发
type NetView struct {
	Recv string `json:"recv"`
	Sent string `json:"sent"`
}

// StatsResponse 统计响应
type StatsResponse struct {
	CPUPercent    *float64                `json:"cpu_percent"`
	MemoryPercent *float64                `json:"memory_percent"`
	Disk          *DiskView               `json:"disk,omitempty"`
	Network       *NetView                `json:"network,omitempty"`
	Tasks         map[entities.Status]int `json:"tasks"`
	Summary       string                  `json:"summary"`
}

// GetStats 系统和任务统计
// @Summary 系统统计
// @Description CPU/内存/磁盘用量, 网卡收发和各状态任务数, 取不到的指标为 null
// @Tags 状态
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	resp := StatsResponse{
		Tasks:   h.reg.CountByStatus(),
		Summary: h.renderer.SystemStatsSummary(),
	}

	if h.probe != nil {
		if v, err := h.probe.CPUPercent(); err == nil {
			resp.CPUPercent = &v
		}
		if v, err := h.probe.MemoryPercent(); err == nil {
			resp.MemoryPercent = &v
		}
		if d, err := h.probe.DiskUsage(h.downloadDir); err == nil {
			resp.Disk = &DiskView{
				Path:        d.Path,
				Total:       humanize.IBytes(d.Total),
				Free:        humanize.IBytes(d.Free),
				UsedPercent: d.UsedPercent,
			}
		}
		if n, err := h.probe.NetIO(); err == nil {
			resp.Network = &NetView{
				Recv: humanize.IBytes(n.BytesRecv),
				Sent: humanize.IBytes(n.BytesSent),
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
