package controller

import (
	"errors"
	"net/http"

	"narada_backend/internal/service"
	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	ShopName        string `json:"shopName" binding:"required,notblank,min=2"`
}

var registerMessages = util.FieldMessages{
	"Email":                   "กรุณากรอกอีเมลให้ถูกต้อง",
	"Password":                "รหัสผ่านต้องมีอย่างน้อย 8 ตัวอักษร",
	"ConfirmPassword.eqfield": "รหัสผ่านไม่ตรงกัน",
	"ConfirmPassword":         "กรุณายืนยันรหัสผ่าน",
	"ShopName":                "ชื่อร้านต้องมีอย่างน้อย 2 ตัวอักษร",
}

// Register godoc
// @Summary สมัครสมาชิก
// @Description สร้างบัญชีร้านค้าพร้อมโปรไฟล์ทดลองใช้ 7 วันและการตั้งค่าเริ่มต้น
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "ข้อมูลสมัครสมาชิก"
// @Success 201 {object} util.Response{data=object} "created"
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err, registerMessages, util.MsgInvalidBody))
		return
	}

	user, err := c.AuthService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		ShopName: req.ShopName,
	})
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, util.MsgEmailRegistered)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "email": user.Email})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary เข้าสู่ระบบ
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "อีเมลและรหัสผ่าน"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.MsgInvalidCredential)
		return
	}

	token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredential) {
			util.Error(ctx, http.StatusUnauthorized, util.MsgInvalidCredential)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}
