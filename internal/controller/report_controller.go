package controller

import (
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Export godoc
// @Summary 导出评估回答
// @Description 生成 Excel 报表并上传到存储，返回下载地址
// @Tags 回答管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 201 {object} util.Response{data=service.ReportResult}
// @Failure 404 {object} util.Response "评估不存在"
// @Router /api/admin/evaluations/{id}/export [post]
func (c *ReportController) Export(ctx *gin.Context) {
	id, ok := parseEvaluationID(ctx)
	if !ok {
		return
	}
	result, err := c.ReportService.Export(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Remove godoc
// @Summary 删除导出的报表
// @Tags 回答管理
// @Produce json
// @Security BearerAuth
// @Param name path string true "报表文件名"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "文件名无效"
// @Failure 404 {object} util.Response "报表不存在"
// @Router /api/admin/reports/{name} [delete]
func (c *ReportController) Remove(ctx *gin.Context) {
	name := ctx.Param("name")
	if err := c.ReportService.Remove(ctx.Request.Context(), name); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"name": name})
}
