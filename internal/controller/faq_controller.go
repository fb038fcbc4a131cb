package controller

import (
	"errors"

	"narada_backend/internal/service"
	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FAQController struct {
	FAQService *service.FAQService
}

func NewFAQController(faqService *service.FAQService) *FAQController {
	return &FAQController{FAQService: faqService}
}

// FAQRequest is the body for creating and updating an FAQ.
type FAQRequest struct {
	Category string `json:"category" binding:"required,notblank"`
	Question string `json:"question" binding:"required,notblank,min=5"`
	Answer   string `json:"answer" binding:"required,notblank,min=10"`
	IsActive *bool  `json:"is_active"`
}

var faqMessages = util.FieldMessages{
	"Category": "กรุณาเลือกหมวดหมู่",
	"Question": "คำถามต้องมีอย่างน้อย 5 ตัวอักษร",
	"Answer":   "คำตอบต้องมีอย่างน้อย 10 ตัวอักษร",
}

func (r FAQRequest) input() service.FAQInput {
	return service.FAQInput{
		Category: r.Category,
		Question: r.Question,
		Answer:   r.Answer,
		IsActive: r.IsActive,
	}
}

// @Summary รายการ FAQ
// @Description FAQ ทั้งหมดของร้าน เรียงจากใหม่ไปเก่า พร้อมจำนวนที่เปิดใช้งาน
// @Tags faqs
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.FAQList}
// @Router /api/faqs [get]
func (c *FAQController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.FAQService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}

// @Summary เพิ่ม FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body FAQRequest true "FAQ"
// @Success 201 {object} util.Response{data=model.FAQ}
// @Failure 400 {object} util.Response
// @Router /api/faqs [post]
func (c *FAQController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err, faqMessages, util.MsgInvalidBody))
		return
	}

	faq, err := c.FAQService.Create(claims.UserID, req.input())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, faq)
}

// @Summary แก้ไข FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "FAQ ID"
// @Param body body FAQRequest true "FAQ"
// @Success 200 {object} util.Response{data=model.FAQ}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/faqs/{id} [put]
func (c *FAQController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err, faqMessages, util.MsgInvalidBody))
		return
	}

	faq, err := c.FAQService.Update(claims.UserID, ctx.Param("id"), req.input())
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, faq)
}

// @Summary เปิด/ปิดการใช้งาน FAQ
// @Tags faqs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "FAQ ID"
// @Success 200 {object} util.Response{data=model.FAQ}
// @Failure 404 {object} util.Response
// @Router /api/faqs/{id}/toggle [patch]
func (c *FAQController) Toggle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	faq, err := c.FAQService.ToggleActive(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, faq)
}

// @Summary ลบ FAQ
// @Tags faqs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "FAQ ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/faqs/{id} [delete]
func (c *FAQController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FAQService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

func (c *FAQController) handleError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrFAQNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}
