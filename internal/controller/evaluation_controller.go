package controller

import (
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

// CreateEvaluationRequest defines model for evaluation creation
// swagger:model CreateEvaluationRequest
type CreateEvaluationRequest struct {
	Title     string           `json:"title" binding:"required"`
	IsCurrent bool             `json:"isCurrent"`
	DueDate   string           `json:"dueDate"`
	Questions []model.Question `json:"questions"`
}

func parseEvaluationID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid evaluation id")
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary 评估列表
// @Tags 评估
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Evaluation}
// @Router /api/evaluations [get]
func (c *EvaluationController) List(ctx *gin.Context) {
	evaluations, err := c.EvaluationService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, evaluations)
}

// Current godoc
// @Summary 当前评估
// @Tags 评估
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Evaluation}
// @Failure 404 {object} util.Response "没有当前评估"
// @Router /api/evaluations/current [get]
func (c *EvaluationController) Current(ctx *gin.Context) {
	evaluation, err := c.EvaluationService.Current(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, evaluation)
}

// Get godoc
// @Summary 评估详情
// @Tags 评估
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=model.Evaluation}
// @Failure 404 {object} util.Response "评估不存在"
// @Router /api/evaluations/{id} [get]
func (c *EvaluationController) Get(ctx *gin.Context) {
	id, ok := parseEvaluationID(ctx)
	if !ok {
		return
	}
	evaluation, err := c.EvaluationService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, evaluation)
}

// Create godoc
// @Summary 创建评估
// @Description 设置 isCurrent 时其他评估的当前标记会在同一次写入中清除
// @Tags 评估管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEvaluationRequest true "评估定义"
// @Success 201 {object} util.Response{data=model.Evaluation}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/evaluations [post]
func (c *EvaluationController) Create(ctx *gin.Context) {
	var req CreateEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	evaluation, err := c.EvaluationService.Create(ctx.Request.Context(), service.CreateEvaluationInput{
		Title:     req.Title,
		IsCurrent: req.IsCurrent,
		DueDate:   req.DueDate,
		Questions: req.Questions,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, evaluation)
}

// SetCurrent godoc
// @Summary 设为当前评估
// @Tags 评估管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=model.Evaluation}
// @Failure 404 {object} util.Response "评估不存在"
// @Router /api/admin/evaluations/{id}/current [put]
func (c *EvaluationController) SetCurrent(ctx *gin.Context) {
	id, ok := parseEvaluationID(ctx)
	if !ok {
		return
	}
	evaluation, err := c.EvaluationService.SetCurrent(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, evaluation)
}

// Delete godoc
// @Summary 删除评估
// @Tags 评估管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "评估不存在"
// @Router /api/admin/evaluations/{id} [delete]
func (c *EvaluationController) Delete(ctx *gin.Context) {
	id, ok := parseEvaluationID(ctx)
	if !ok {
		return
	}
	if err := c.EvaluationService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
