package handler

import (
	"time"

	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"
	"team-server/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct{}

func NewOnboardingHandler() *OnboardingHandler {
	return &OnboardingHandler{}
}

// Status 引导状态，加入过任意组织即视为已完成
func (h *OnboardingHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var count int64
	model.DB.Model(&model.Member{}).Where("user_id = ?", userID).Count(&count)

	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, gin.H{
		"completed":        count > 0,
		"has_profile":      user.Name != "",
		"membership_count": count,
	})
}

// CompleteProfileRequest 完善资料请求
type CompleteProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// CompleteProfile 引导第一步，完善个人资料
func (h *OnboardingHandler) CompleteProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{"name": req.Name}
	if req.Image != "" {
		updates["image"] = req.Image
	}

	if err := model.DB.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		response.ServerError(c, "更新资料失败")
		return
	}

	response.SuccessWithMessage(c, "资料已更新", nil)
}

// CompleteRequest 完成引导请求
type CompleteRequest struct {
	OrganizationName string `json:"organization_name" binding:"required"`
	Slug             string `json:"slug" binding:"required"`
}

// Complete 引导最后一步，创建首个组织
// 约束与组织创建接口一致
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !model.IsValidSlug(req.Slug) {
		response.BadRequest(c, "组织标识只能包含小写字母、数字和连字符")
		return
	}

	var existing model.Organization
	if err := model.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		response.Conflict(c, "该组织标识已被占用")
		return
	}

	org := model.Organization{
		Name:      req.OrganizationName,
		Slug:      req.Slug,
		CreatedBy: userID,
	}

	tx := model.DB.Begin()

	if err := tx.Create(&org).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "创建组织失败")
		return
	}

	member := model.Member{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           model.RoleOwner,
		JoinedAt:       time.Now(),
	}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "创建成员失败")
		return
	}

	tx.Commit()

	response.Success(c, gin.H{
		"organization_id": org.ID,
		"slug":            org.Slug,
	})
}

// GenerateSlug 由组织名生成可用 slug，被占用时追加随机后缀
func (h *OnboardingHandler) GenerateSlug(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.BadRequest(c, "缺少 name 参数")
		return
	}

	slug := utils.Slugify(name)
	if slug == "" {
		slug = "org"
	}

	var count int64
	model.DB.Model(&model.Organization{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		slug = slug + "-" + utils.GenerateRandomString(4)
	}

	response.Success(c, gin.H{"slug": slug})
}
