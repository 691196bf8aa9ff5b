package handler

import (
	"fmt"
	"time"

	"team-server/internal/config"
	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/crypto"
	"team-server/internal/pkg/response"
	"team-server/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册新用户
// 只创建身份记录，组织在引导流程中创建
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var existing model.User
	if err := model.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		response.Conflict(c, "邮箱已被注册")
		return
	}

	user := model.User{
		Email: req.Email,
		Name:  req.Name,
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Create(&user).Error; err != nil {
		response.ServerError(c, "创建用户失败")
		return
	}

	token, err := crypto.GenerateToken(user.ID, user.Email, config.Get().JWT.Secret, config.Get().JWT.ExpireHours)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	limiter := service.GetLoginLimiter()

	// 检查账号是否被锁定
	if locked, remaining := limiter.IsLocked(req.Email); locked {
		response.Error(c, 429, fmt.Sprintf("账号已被临时锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	var user model.User
	if err := model.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		limiter.RecordFailure(req.Email)
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	if !user.CheckPassword(req.Password) {
		locked, lockDuration := limiter.RecordFailure(req.Email)
		if locked {
			response.Error(c, 429, fmt.Sprintf("登录失败次数过多，账号已被锁定 %d 分钟", int(lockDuration.Minutes())))
		} else {
			response.Unauthorized(c, fmt.Sprintf("邮箱或密码错误，还剩 %d 次尝试机会", limiter.GetRemainingAttempts(req.Email)))
		}
		return
	}

	// 登录成功，清除失败记录
	limiter.RecordSuccess(req.Email)

	now := time.Now()
	model.DB.Model(&user).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": c.ClientIP(),
	})

	token, err := crypto.GenerateToken(user.ID, user.Email, config.Get().JWT.Secret, config.Get().JWT.ExpireHours)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"image": user.Image,
		},
	})
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		response.BadRequest(c, "原密码错误")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Save(&user).Error; err != nil {
		response.ServerError(c, "修改密码失败")
		return
	}

	response.SuccessWithMessage(c, "密码修改成功", nil)
}
