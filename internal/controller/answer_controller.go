package controller

import (
	"errors"
	"net/http"

	"narada_backend/internal/service"
	"narada_backend/internal/util"
	"narada_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnswerController serves the merchant answer generator and the public demo
// chat. Both reply with bare {"answer"} / {"error"} bodies.
type AnswerController struct {
	AnswerService *service.AnswerService
}

func NewAnswerController(answerService *service.AnswerService) *AnswerController {
	return &AnswerController{AnswerService: answerService}
}

type QuestionRequest struct {
	Question string `json:"question"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Generate godoc
// @Summary สร้างคำตอบให้ลูกค้า
// @Description ใช้ tone และ FAQ ที่เปิดใช้งานของร้านเพื่อร่างคำตอบ
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuestionRequest true "คำถามของลูกค้า"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/ai/generate [post]
func (c *AnswerController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.PlainError(ctx, http.StatusUnauthorized, util.MsgUserNotFound)
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.PlainError(ctx, http.StatusBadRequest, util.MsgQuestionRequired)
		return
	}

	answer, err := c.AnswerService.GenerateForUser(ctx.Request.Context(), claims.UserID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyQuestion):
			util.PlainError(ctx, http.StatusBadRequest, util.MsgQuestionRequired)
		case errors.Is(err, util.ErrSettingsNotFound):
			util.PlainError(ctx, http.StatusNotFound, util.MsgSettingsNotFound)
		default:
			logger.Log.Error("Error generating response",
				zap.String("user_id", claims.UserID),
				zap.Error(err),
			)
			util.PlainError(ctx, http.StatusInternalServerError, util.MsgGenerateFailed)
		}
		return
	}

	ctx.JSON(http.StatusOK, AnswerResponse{Answer: answer})
}

// DemoChat godoc
// @Summary ทดลองใช้งาน
// @Description แชทตัวอย่างบนหน้าแรก จำกัดจำนวนครั้งต่อผู้ใช้
// @Tags ai
// @Accept json
// @Produce json
// @Param body body QuestionRequest true "คำถาม"
// @Success 200 {object} service.DemoAnswer
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/demo/chat [post]
func (c *AnswerController) DemoChat(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.PlainError(ctx, http.StatusBadRequest, util.MsgDemoQuestionRequired)
		return
	}

	demo, err := c.AnswerService.GenerateDemo(ctx.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestion) {
			util.PlainError(ctx, http.StatusBadRequest, util.MsgDemoQuestionRequired)
			return
		}
		logger.Log.Error("Demo chat error", zap.Error(err))
		util.PlainError(ctx, http.StatusInternalServerError, util.MsgDemoFailed)
		return
	}

	ctx.JSON(http.StatusOK, demo)
}
