package handler

import (
	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// requireMembership 获取调用者在组织中的成员资格
// 非成员时写出 403 并返回 false，调用方直接 return
func requireMembership(c *gin.Context, orgID string) (*model.Member, bool) {
	userID := middleware.GetUserID(c)

	var member model.Member
	if err := model.DB.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&member).Error; err != nil {
		response.Forbidden(c, "不是该组织的成员")
		return nil, false
	}

	return &member, true
}

// requireOrgAdmin 在成员资格之上要求 owner/admin 角色
func requireOrgAdmin(c *gin.Context, orgID string) (*model.Member, bool) {
	member, ok := requireMembership(c, orgID)
	if !ok {
		return nil, false
	}

	if !member.Role.HasAtLeast(model.RoleAdmin) {
		response.Forbidden(c, "权限不足")
		return nil, false
	}

	return member, true
}

// logActivity 追加一条操作日志
// 传入事务句柄时与业务写入同一事务提交
func logActivity(db *gorm.DB, orgID, userID, action, entityType, entityID string, meta model.ActivityMetadata) error {
	entry := model.ActivityLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		Metadata:       model.EncodeMetadata(meta),
	}
	return db.Create(&entry).Error
}

// userBrief 日志和成员列表里透出的用户概要
func userBrief(u *model.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"image": u.Image,
	}
}
