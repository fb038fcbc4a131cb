package controller

import (
	"errors"

	"narada_backend/internal/service"
	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ConversationController struct {
	ConversationService *service.ConversationService
}

func NewConversationController(conversationService *service.ConversationService) *ConversationController {
	return &ConversationController{ConversationService: conversationService}
}

type ConversationRequest struct {
	CustomerQuestion string `json:"customer_question" binding:"required,notblank"`
	AIAnswer         string `json:"ai_answer" binding:"required,notblank"`
	WasCopied        bool   `json:"was_copied"`
}

// @Summary ประวัติการตอบ
// @Description 50 รายการล่าสุด
// @Tags conversations
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/conversations [get]
func (c *ConversationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	conversations, err := c.ConversationService.ListRecent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: conversations, Total: int64(len(conversations))})
}

// @Summary บันทึกการตอบ
// @Tags conversations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ConversationRequest true "คำถามและคำตอบ"
// @Success 201 {object} util.Response{data=model.Conversation}
// @Failure 400 {object} util.Response
// @Router /api/conversations [post]
func (c *ConversationController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.MsgInvalidBody)
		return
	}

	conv, err := c.ConversationService.Record(claims.UserID, service.ConversationInput{
		CustomerQuestion: req.CustomerQuestion,
		AIAnswer:         req.AIAnswer,
		WasCopied:        req.WasCopied,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, conv)
}

// @Summary ลบประวัติการตอบ
// @Tags conversations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/conversations/{id} [delete]
func (c *ConversationController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ConversationService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrConversationGone) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}
