package handlers

import (
	"net/http"

	"github.com/easayliu/mirror-status-bot/internal/domain/services/link"
	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/gin-gonic/gin"
)

// ClassifyRequest 链接分类请求
type ClassifyRequest struct {
	Link string `json:"link" binding:"required"`
}

// ClassifyResponse 链接分类结果
type ClassifyResponse struct {
	Kind     link.Kind        `json:"kind"`
	MegaType string           `json:"mega_type,omitempty"`
	Magnet   *link.MagnetInfo `json:"magnet,omitempty"`
}

// ClassifyLink 判断链接类别
// @Summary 链接分类
// @Description 返回链接所属的提供方, 磁力链接附带解析结果
// @Tags 链接
// @Accept json
// @Produce json
// @Param request body ClassifyRequest true "链接"
// @Success 200 {object} ClassifyResponse
// @Failure 400 {object} map[string]interface{}
// @Router /links/classify [post]
func ClassifyLink(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeInvalidRequest, "link is required", err))
		return
	}

	resp := ClassifyResponse{Kind: link.Classify(req.Link)}
	switch resp.Kind {
	case link.KindMega:
		resp.MegaType = link.MegaLinkType(req.Link)
	case link.KindMagnet:
		info, err := link.ParseMagnet(req.Link)
		if err != nil {
			_ = c.Error(apperrors.NewServiceErrorWithCause(apperrors.ErrorCodeInvalidRequest, "malformed magnet link", err))
			return
		}
		resp.Magnet = info
	}

	c.JSON(http.StatusOK, resp)
}
