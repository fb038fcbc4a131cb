package controller

import (
	"errors"

	"narada_backend/internal/service"
	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsService *service.SettingsService
}

func NewSettingsController(settingsService *service.SettingsService) *SettingsController {
	return &SettingsController{SettingsService: settingsService}
}

type SettingsRequest struct {
	Tone               string `json:"tone" binding:"required,oneof=polite friendly professional vendor"`
	ShopName           string `json:"shop_name" binding:"required,notblank,min=2"`
	GreetingMessage    string `json:"greeting_message" binding:"max=200"`
	CustomInstructions string `json:"custom_instructions" binding:"max=500"`
}

var settingsMessages = util.FieldMessages{
	"Tone":               "กรุณาเลือก tone",
	"ShopName":           "ชื่อร้านต้องมีอย่างน้อย 2 ตัวอักษร",
	"GreetingMessage":    "ข้อความต้อนรับต้องไม่เกิน 200 ตัวอักษร",
	"CustomInstructions": "คำแนะนำเพิ่มเติมต้องไม่เกิน 500 ตัวอักษร",
}

// @Summary การตั้งค่าร้าน
// @Description tone ชื่อร้าน ข้อความต้อนรับ และคำแนะนำเพิ่มเติม พร้อมรายการ tone ทั้งหมด
// @Tags settings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.SettingsView}
// @Failure 404 {object} util.Response
// @Router /api/settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.SettingsService.Get(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSettingsNotFound) {
			util.Error(ctx, 404, util.MsgSettingsNotFound)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary บันทึกการตั้งค่าร้าน
// @Tags settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SettingsRequest true "การตั้งค่า"
// @Success 200 {object} util.Response{data=model.Settings}
// @Failure 400 {object} util.Response
// @Router /api/settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err, settingsMessages, util.MsgInvalidBody))
		return
	}

	settings, err := c.SettingsService.Update(claims.UserID, service.SettingsInput{
		Tone:               req.Tone,
		ShopName:           req.ShopName,
		GreetingMessage:    req.GreetingMessage,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, settings)
}

// @Summary รายการ tone
// @Tags settings
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TonePreset}
// @Router /api/tones [get]
func (c *SettingsController) Tones(ctx *gin.Context) {
	util.Success(ctx, service.TonePresets())
}
