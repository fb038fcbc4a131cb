package controller

import (
	"errors"

	"narada_backend/internal/service"
	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary โปรไฟล์ร้านค้า
// @Description แพ็กเกจ วันหมดทดลองใช้ และจำนวนวันที่เหลือ
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

type UpdateProfileRequest struct {
	ShopName string `json:"shop_name" binding:"required,notblank,min=2"`
}

var profileMessages = util.FieldMessages{
	"ShopName": "ชื่อร้านต้องมีอย่างน้อย 2 ตัวอักษร",
}

// @Summary แก้ไขชื่อร้าน
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpdateProfileRequest true "ชื่อร้าน"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err, profileMessages, util.MsgInvalidBody))
		return
	}

	profile, err := c.UserService.UpdateShopName(claims.UserID, req.ShopName)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
