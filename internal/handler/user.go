package handler

import (
	"strconv"

	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetCurrent 获取当前用户
func (h *UserHandler) GetCurrent(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"image":         user.Image,
		"created_at":    user.CreatedAt,
		"last_login_at": user.LastLoginAt,
	})
}

// GetByID 按 ID 获取用户概要
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var user model.User
	if err := model.DB.First(&user, "id = ?", id).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, userBrief(&user))
}

// GetByEmail 按邮箱获取用户概要（用于邀请前查重）
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "缺少 email 参数")
		return
	}

	var user model.User
	if err := model.DB.Where("email = ?", email).First(&user).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, userBrief(&user))
}

// Search 按名称搜索用户（用于邀请）
func (h *UserHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	if keyword == "" {
		response.Success(c, []gin.H{})
		return
	}

	var users []model.User
	model.DB.Where("name LIKE ?", "%"+keyword+"%").Limit(limit).Find(&users)

	result := make([]gin.H, 0, len(users))
	for i := range users {
		result = append(result, userBrief(&users[i]))
	}

	response.Success(c, result)
}

// UpdateUserRequest 更新用户资料请求
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Update 更新当前用户资料
func (h *UserHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}

	if len(updates) > 0 {
		if err := model.DB.Model(&user).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新用户失败")
			return
		}
	}

	response.Success(c, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"image": user.Image,
	})
}

// DeleteAccount 注销账号
// 仅移除全部成员资格，身份记录保留；最后一位所有者不可注销
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var memberships []model.Member
	if err := model.DB.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		response.ServerError(c, "查询成员资格失败")
		return
	}

	// 先整体校验，避免删到一半才发现违反最后所有者约束
	for _, m := range memberships {
		if m.Role != model.RoleOwner {
			continue
		}
		var otherOwners int64
		model.DB.Model(&model.Member{}).
			Where("organization_id = ? AND role = ? AND user_id != ?", m.OrganizationID, model.RoleOwner, userID).
			Count(&otherOwners)
		if otherOwners == 0 {
			response.BadRequest(c, "您是某个组织的最后一位所有者，请先转让所有权或删除该组织")
			return
		}
	}

	tx := model.DB.Begin()
	for _, m := range memberships {
		if err := tx.Delete(&model.Member{}, "id = ?", m.ID).Error; err != nil {
			tx.Rollback()
			response.ServerError(c, "注销账号失败")
			return
		}
	}
	tx.Commit()

	response.SuccessWithMessage(c, "账号已注销", nil)
}
