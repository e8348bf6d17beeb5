package controller

import (
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EmployeeController struct {
	EmployeeService *service.EmployeeService
}

func NewEmployeeController(employeeService *service.EmployeeService) *EmployeeController {
	return &EmployeeController{EmployeeService: employeeService}
}

// CreateEmployeeRequest defines model for employee creation
// swagger:model CreateEmployeeRequest
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Position string `json:"position" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// List godoc
// @Summary 员工列表
// @Tags 员工管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.EmployeeView}
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/employees [get]
func (c *EmployeeController) List(ctx *gin.Context) {
	employees, err := c.EmployeeService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, employees)
}

// Create godoc
// @Summary 新增员工
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEmployeeRequest true "员工信息"
// @Success 201 {object} util.Response{data=model.EmployeeView}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已存在"
// @Router /api/admin/employees [post]
func (c *EmployeeController) Create(ctx *gin.Context) {
	var req CreateEmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	employee, err := c.EmployeeService.Create(ctx.Request.Context(), service.CreateEmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
		Username: req.Username,
		Password: req.Password,
		Role:     model.EmployeeRole(req.Role),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, employee)
}

// Delete godoc
// @Summary 删除员工
// @Tags 员工管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "员工ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "不能删除自己"
// @Failure 404 {object} util.Response "员工不存在"
// @Router /api/admin/employees/{id} [delete]
func (c *EmployeeController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid employee id")
		return
	}

	if err := c.EmployeeService.Delete(ctx.Request.Context(), user.EmployeeID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
