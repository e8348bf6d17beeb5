package controller

import (
	"context"
	"encoding/json"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/docstore"
	"evaluation_backend/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthController struct {
	Store docstore.Store
}

func NewHealthController(store docstore.Store) *HealthController {
	return &HealthController{Store: store}
}

// @Summary 健康检查
// @Description 检查服务与文档存储状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "文档存储不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	var probe []json.RawMessage
	if err := c.Store.Get(probeCtx, docstore.CollectionEvaluations, &probe); err != nil {
		logger.Log.Warn("Health check: document store unavailable", zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Document store unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"docstore": "up",
		},
	})
}
