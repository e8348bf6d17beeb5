package controller

import (
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// parseMonth 解析 YYYY-MM，缺省为当前月份
func parseMonth(ctx *gin.Context) (time.Time, bool) {
	raw := ctx.Query("month")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	}
	month, err := time.ParseInLocation(util.MonthFormat, raw, time.Local)
	if err != nil {
		util.BadRequest(ctx, "month must be YYYY-MM")
		return time.Time{}, false
	}
	return month, true
}

// Overview godoc
// @Summary 仪表盘概览
// @Description 领导力平均分、授权是/否统计、待完成评估和日历标记
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 YYYY-MM"
// @Success 200 {object} util.Response{data=service.DashboardOverview}
// @Router /api/dashboard [get]
func (c *DashboardController) Overview(ctx *gin.Context) {
	month, ok := parseMonth(ctx)
	if !ok {
		return
	}
	overview, err := c.DashboardService.Overview(ctx.Request.Context(), month)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Tally godoc
// @Summary 是/否统计
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Param question query string true "问题文本"
// @Success 200 {object} util.Response{data=analytics.YesNoTally}
// @Router /api/dashboard/tally [get]
func (c *DashboardController) Tally(ctx *gin.Context) {
	question := ctx.Query("question")
	if question == "" {
		util.BadRequest(ctx, "question is required")
		return
	}
	tally, err := c.DashboardService.Tally(ctx.Request.Context(), question)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tally)
}

// Averages godoc
// @Summary 按作者平均分
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Param question query string true "问题文本"
// @Success 200 {object} util.Response{data=[]analytics.AuthorAverage}
// @Router /api/dashboard/averages [get]
func (c *DashboardController) Averages(ctx *gin.Context) {
	question := ctx.Query("question")
	if question == "" {
		util.BadRequest(ctx, "question is required")
		return
	}
	averages, err := c.DashboardService.Averages(ctx.Request.Context(), question)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, averages)
}

// Calendar godoc
// @Summary 日历
// @Description 传 date 返回当天截止的评估；否则返回 month 中有截止日期的日子
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 YYYY-MM-DD"
// @Param month query string false "月份 YYYY-MM"
// @Success 200 {object} util.Response
// @Router /api/dashboard/calendar [get]
func (c *DashboardController) Calendar(ctx *gin.Context) {
	if raw := ctx.Query("date"); raw != "" {
		date, err := analytics.ParseDate(raw)
		if err != nil {
			util.BadRequest(ctx, "date must be YYYY-MM-DD")
			return
		}
		evaluations, err := c.DashboardService.DueOn(ctx.Request.Context(), date)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"date": analytics.FormatDate(date), "evaluations": evaluations})
		return
	}

	month, ok := parseMonth(ctx)
	if !ok {
		return
	}
	marks, err := c.DashboardService.EvaluationService.MonthMarks(ctx.Request.Context(), month.Year(), month.Month())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"month": month.Format(util.MonthFormat), "marks": marks})
}

// Summary godoc
// @Summary 评估汇总
// @Tags 回答管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=analytics.EvaluationSummary}
// @Failure 404 {object} util.Response "评估不存在"
// @Router /api/admin/evaluations/{id}/summary [get]
func (c *DashboardController) Summary(ctx *gin.Context) {
	id, ok := parseEvaluationID(ctx)
	if !ok {
		return
	}
	summary, err := c.DashboardService.EvaluationSummary(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
