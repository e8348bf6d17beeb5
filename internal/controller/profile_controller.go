package controller

import (
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// Get godoc
// @Summary 个人资料
// @Description 当前员工信息及其回答历史
// @Tags 员工
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 404 {object} util.Response "员工不存在"
// @Router /api/profile [get]
func (c *ProfileController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	profile, err := c.ProfileService.Get(ctx.Request.Context(), user.EmployeeID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
