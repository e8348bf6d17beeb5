package controller

import (
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	AnswerService *service.AnswerService
}

func NewAnswerController(answerService *service.AnswerService) *AnswerController {
	return &AnswerController{AnswerService: answerService}
}

// SubmitAnswersRequest 以问题 ID 为键的回答
// swagger:model SubmitAnswersRequest
type SubmitAnswersRequest struct {
	Responses map[string]string `json:"responses" binding:"required"`
}

// Submit godoc
// @Summary 提交当前评估的回答
// @Description 作者取自登录员工的姓名；评分题存为数字
// @Tags 回答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitAnswersRequest true "回答"
// @Success 201 {object} util.Response{data=model.AnswerRecord}
// @Failure 400 {object} util.Response "回答不完整或无效"
// @Failure 404 {object} util.Response "没有当前评估"
// @Router /api/answers [post]
func (c *AnswerController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	responses := make(map[int64]string, len(req.Responses))
	for key, value := range req.Responses {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid question id: "+key)
			return
		}
		responses[id] = value
	}

	record, err := c.AnswerService.Submit(ctx.Request.Context(), user.DisplayName, responses)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, record)
}

// Mine godoc
// @Summary 我的回答
// @Tags 回答
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.AnswerRecord}
// @Router /api/answers/mine [get]
func (c *AnswerController) Mine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.AnswerService.ListByAuthor(ctx.Request.Context(), user.DisplayName)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// List godoc
// @Summary 全部回答
// @Tags 回答管理
// @Produce json
// @Security BearerAuth
// @Param evaluation query string false "按评估名称过滤"
// @Success 200 {object} util.Response{data=[]model.AnswerRecord}
// @Router /api/admin/answers [get]
func (c *AnswerController) List(ctx *gin.Context) {
	records, err := c.AnswerService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if name := ctx.Query("evaluation"); name != "" {
		records = analytics.FilterByEvaluation(records, name)
	}
	util.Success(ctx, records)
}
