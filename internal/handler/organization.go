package handler

import (
	"time"

	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct{}

func NewOrganizationHandler() *OrganizationHandler {
	return &OrganizationHandler{}
}

// orgWithRole 组织信息加上调用者在其中的角色
func orgWithRole(org *model.Organization, role model.Role) gin.H {
	return gin.H{
		"id":         org.ID,
		"name":       org.Name,
		"slug":       org.Slug,
		"logo":       org.Logo,
		"created_by": org.CreatedBy,
		"created_at": org.CreatedAt,
		"updated_at": org.UpdatedAt,
		"role":       role,
	}
}

// List 获取当前用户所属的全部组织
// 按加入顺序返回，第一个即默认选中的组织
func (h *OrganizationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var memberships []model.Member
	model.DB.Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships)

	result := make([]gin.H, 0, len(memberships))
	for _, m := range memberships {
		if m.Organization == nil {
			continue
		}
		result = append(result, orgWithRole(m.Organization, m.Role))
	}

	response.Success(c, result)
}

// GetByID 按 ID 获取组织，要求成员资格
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	orgID := c.Param("id")

	member, ok := requireMembership(c, orgID)
	if !ok {
		return
	}

	var org model.Organization
	if err := model.DB.First(&org, "id = ?", orgID).Error; err != nil {
		response.NotFound(c, "组织不存在")
		return
	}

	response.Success(c, orgWithRole(&org, member.Role))
}

// GetBySlug 按 slug 获取组织，要求成员资格
func (h *OrganizationHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var org model.Organization
	if err := model.DB.Where("slug = ?", slug).First(&org).Error; err != nil {
		response.NotFound(c, "组织不存在")
		return
	}

	member, ok := requireMembership(c, org.ID)
	if !ok {
		return
	}

	response.Success(c, orgWithRole(&org, member.Role))
}

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
	Logo string `json:"logo"`
}

// Create 创建组织，创建者自动成为 owner
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateOrganizationRequest
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
		Name:      req.Name,
		Slug:      req.Slug,
		Logo:      req.Logo,
		CreatedBy: userID,
	}

	// 组织与 owner 成员资格在同一事务内写入
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
		"id":   org.ID,
		"slug": org.Slug,
	})
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Update 更新组织信息，要求 owner/admin
func (h *OrganizationHandler) Update(c *gin.Context) {
	orgID := c.Param("id")

	if _, ok := requireOrgAdmin(c, orgID); !ok {
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var org model.Organization
	if err := model.DB.First(&org, "id = ?", orgID).Error; err != nil {
		response.NotFound(c, "组织不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Logo != "" {
		updates["logo"] = req.Logo
	}

	if len(updates) > 0 {
		if err := model.DB.Model(&org).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新组织失败")
			return
		}
	}

	response.Success(c, gin.H{
		"id":         org.ID,
		"name":       org.Name,
		"slug":       org.Slug,
		"logo":       org.Logo,
		"updated_at": org.UpdatedAt,
	})
}

// Remove 删除组织，仅 owner 可操作
// 级联删除成员与邀请，同一事务内完成，不可恢复
func (h *OrganizationHandler) Remove(c *gin.Context) {
	orgID := c.Param("id")

	member, ok := requireMembership(c, orgID)
	if !ok {
		return
	}
	if member.Role != model.RoleOwner {
		response.Forbidden(c, "只有所有者可以删除组织")
		return
	}

	var org model.Organization
	if err := model.DB.First(&org, "id = ?", orgID).Error; err != nil {
		response.NotFound(c, "组织不存在")
		return
	}

	tx := model.DB.Begin()

	if err := tx.Where("organization_id = ?", orgID).Delete(&model.Member{}).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "删除成员失败")
		return
	}

	if err := tx.Where("organization_id = ?", orgID).Delete(&model.Invitation{}).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "删除邀请失败")
		return
	}

	if err := tx.Delete(&org).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "删除组织失败")
		return
	}

	tx.Commit()
	response.SuccessWithMessage(c, "组织已删除", nil)
}
