package handler

import (
	"fmt"
	"log"
	"strings"
	"time"

	"team-server/internal/config"
	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"
	"team-server/internal/pkg/utils"
	"team-server/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct{}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

func memberBrief(m *model.Member) gin.H {
	return gin.H{
		"id":              m.ID,
		"organization_id": m.OrganizationID,
		"user_id":         m.UserID,
		"role":            m.Role,
		"invited_by":      m.InvitedBy,
		"joined_at":       m.JoinedAt,
		"user":            userBrief(m.User),
	}
}

// List 获取组织成员列表，要求成员资格
func (h *MemberHandler) List(c *gin.Context) {
	orgID := c.Param("id")

	if _, ok := requireMembership(c, orgID); !ok {
		return
	}

	var members []model.Member
	model.DB.Preload("User").
		Where("organization_id = ?", orgID).
		Order("joined_at ASC").
		Find(&members)

	result := make([]gin.H, 0, len(members))
	for i := range members {
		result = append(result, memberBrief(&members[i]))
	}

	response.Success(c, result)
}

// InviteRequest 邀请请求
type InviteRequest struct {
	Email string     `json:"email" binding:"required,email"`
	Role  model.Role `json:"role" binding:"required"`
}

// Invite 邀请新成员，要求 owner/admin
func (h *MemberHandler) Invite(c *gin.Context) {
	orgID := c.Param("id")
	userID := middleware.GetUserID(c)

	if _, ok := requireOrgAdmin(c, orgID); !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !model.IsValidInviteRole(req.Role) {
		response.BadRequest(c, "邀请角色只能是 admin 或 member")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 被邀请人已注册且已是成员时直接拒绝
	var existingUser model.User
	if err := model.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		var count int64
		model.DB.Model(&model.Member{}).
			Where("organization_id = ? AND user_id = ?", orgID, existingUser.ID).
			Count(&count)
		if count > 0 {
			response.Conflict(c, "该用户已是组织成员")
			return
		}
	}

	var pending model.Invitation
	err := model.DB.Where("organization_id = ? AND email = ? AND status = ?",
		orgID, email, model.InviteStatusPending).First(&pending).Error
	if err == nil {
		if !pending.IsExpired() {
			response.Conflict(c, "该邮箱已有待处理的邀请")
			return
		}
		// 过期的待处理邀请惰性标记后允许重发
		model.DB.Model(&pending).Update("status", model.InviteStatusExpired)
	}

	invitation := model.Invitation{
		OrganizationID: orgID,
		Email:          email,
		Role:           req.Role,
		InvitedBy:      userID,
		Token:          utils.GenerateInviteToken(),
		Status:         model.InviteStatusPending,
		ExpiresAt:      time.Now().AddDate(0, 0, model.InviteValidDays),
	}

	tx := model.DB.Begin()

	if err := tx.Create(&invitation).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "创建邀请失败")
		return
	}

	if err := logActivity(tx, orgID, userID, model.ActionMemberInvited, model.EntityInvitation, invitation.ID,
		model.InvitedMetadata{Email: email, Role: req.Role}); err != nil {
		tx.Rollback()
		response.ServerError(c, "记录日志失败")
		return
	}

	tx.Commit()

	// 邮件发送失败不影响邀请本身
	go h.sendInviteEmail(userID, orgID, &invitation)

	response.Success(c, gin.H{
		"invitation_id": invitation.ID,
		"token":         invitation.Token,
		"expires_at":    invitation.ExpiresAt,
	})
}

func (h *MemberHandler) sendInviteEmail(inviterID, orgID string, inv *model.Invitation) {
	cfg := config.Get()
	if !cfg.Email.Enabled {
		return
	}

	var inviter model.User
	var org model.Organization
	if err := model.DB.First(&inviter, "id = ?", inviterID).Error; err != nil {
		return
	}
	if err := model.DB.First(&org, "id = ?", orgID).Error; err != nil {
		return
	}

	err := service.NewEmailService().SendInvitation(inv.Email, service.InviteEmailData{
		InviterName: inviter.Name,
		OrgName:     org.Name,
		Role:        string(inv.Role),
		ExpireAt:    inv.ExpiresAt.Format("2006-01-02 15:04"),
		AcceptURL:   fmt.Sprintf("%s/invite/%s", strings.TrimRight(cfg.Server.BaseURL, "/"), inv.Token),
	})
	if err != nil {
		log.Printf("[EMAIL] 邀请邮件发送失败 %s: %v", utils.MaskEmail(inv.Email), err)
	}
}

// AcceptInvitationRequest 接受邀请请求
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// AcceptInvitation 接受邀请
// 邀请邮箱必须与当前登录账号邮箱一致
func (h *MemberHandler) AcceptInvitation(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var invitation model.Invitation
	if err := model.DB.Where("token = ?", req.Token).First(&invitation).Error; err != nil {
		response.NotFound(c, "邀请不存在")
		return
	}

	if invitation.Status != model.InviteStatusPending {
		response.BadRequest(c, "邀请已被处理")
		return
	}

	if invitation.IsExpired() {
		model.DB.Model(&invitation).Update("status", model.InviteStatusExpired)
		response.BadRequest(c, "邀请已过期")
		return
	}

	if !strings.EqualFold(middleware.GetUserEmail(c), invitation.Email) {
		response.Forbidden(c, "邀请与当前账号邮箱不符")
		return
	}

	var count int64
	model.DB.Model(&model.Member{}).
		Where("organization_id = ? AND user_id = ?", invitation.OrganizationID, userID).
		Count(&count)
	if count > 0 {
		// 已是成员，邀请标记为已接受后拒绝重复加入
		model.DB.Model(&invitation).Update("status", model.InviteStatusAccepted)
		response.Conflict(c, "您已是该组织成员")
		return
	}

	member := model.Member{
		OrganizationID: invitation.OrganizationID,
		UserID:         userID,
		Role:           invitation.Role,
		InvitedBy:      &invitation.InvitedBy,
		JoinedAt:       time.Now(),
	}

	tx := model.DB.Begin()

	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "加入组织失败")
		return
	}

	if err := tx.Model(&invitation).Update("status", model.InviteStatusAccepted).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "更新邀请失败")
		return
	}

	if err := logActivity(tx, invitation.OrganizationID, userID, model.ActionMemberJoined, model.EntityMember, member.ID,
		model.JoinedMetadata{Role: invitation.Role}); err != nil {
		tx.Rollback()
		response.ServerError(c, "记录日志失败")
		return
	}

	tx.Commit()

	response.Success(c, gin.H{
		"organization_id": invitation.OrganizationID,
		"member_id":       member.ID,
		"role":            member.Role,
	})
}

// UpdateRoleRequest 调整角色请求
type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

// UpdateRole 调整成员角色，仅 owner 可操作，不能调整自己
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	memberID := c.Param("id")
	userID := middleware.GetUserID(c)

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !req.Role.IsValid() {
		response.BadRequest(c, "无效的角色")
		return
	}

	var target model.Member
	if err := model.DB.First(&target, "id = ?", memberID).Error; err != nil {
		response.NotFound(c, "成员不存在")
		return
	}

	caller, ok := requireMembership(c, target.OrganizationID)
	if !ok {
		return
	}

	if caller.Role != model.RoleOwner {
		response.Forbidden(c, "只有所有者可以调整角色")
		return
	}

	if target.UserID == userID {
		response.BadRequest(c, "不能修改自己的角色")
		return
	}

	oldRole := target.Role
	target.Role = req.Role

	tx := model.DB.Begin()

	if err := tx.Model(&model.Member{}).Where("id = ?", target.ID).Update("role", req.Role).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "调整角色失败")
		return
	}

	if err := logActivity(tx, target.OrganizationID, userID, model.ActionMemberRoleUpdated, model.EntityMember, target.ID,
		model.RoleChangedMetadata{OldRole: oldRole, NewRole: req.Role, TargetUserID: target.UserID}); err != nil {
		tx.Rollback()
		response.ServerError(c, "记录日志失败")
		return
	}

	tx.Commit()

	model.DB.Preload("User").First(&target, "id = ?", target.ID)
	response.Success(c, memberBrief(&target))
}

// Remove 移除成员或主动退出
// owner/admin 可移除他人，任何成员可移除自己；最后一位所有者不可移除
func (h *MemberHandler) Remove(c *gin.Context) {
	memberID := c.Param("id")
	userID := middleware.GetUserID(c)

	var target model.Member
	if err := model.DB.First(&target, "id = ?", memberID).Error; err != nil {
		response.NotFound(c, "成员不存在")
		return
	}

	caller, ok := requireMembership(c, target.OrganizationID)
	if !ok {
		return
	}

	isSelf := target.UserID == userID
	if !isSelf && !caller.Role.HasAtLeast(model.RoleAdmin) {
		response.Forbidden(c, "权限不足")
		return
	}

	if target.Role == model.RoleOwner {
		var owners int64
		model.DB.Model(&model.Member{}).
			Where("organization_id = ? AND role = ?", target.OrganizationID, model.RoleOwner).
			Count(&owners)
		if owners <= 1 {
			response.BadRequest(c, "不能移除最后一位所有者")
			return
		}
	}

	var targetUser model.User
	model.DB.First(&targetUser, "id = ?", target.UserID)

	action := model.ActionMemberRemoved
	if isSelf {
		action = model.ActionMemberLeft
	}

	tx := model.DB.Begin()

	if err := tx.Delete(&model.Member{}, "id = ?", target.ID).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "移除成员失败")
		return
	}

	if err := logActivity(tx, target.OrganizationID, userID, action, model.EntityMember, target.ID,
		model.RemovedMetadata{TargetUserID: target.UserID, TargetUserEmail: targetUser.Email, Role: target.Role}); err != nil {
		tx.Rollback()
		response.ServerError(c, "记录日志失败")
		return
	}

	tx.Commit()
	response.SuccessWithMessage(c, "成员已移除", nil)
}

// ListInvitations 获取组织待处理邀请，要求 owner/admin
// 读取时惰性将过期邀请标记为 expired
func (h *MemberHandler) ListInvitations(c *gin.Context) {
	orgID := c.Param("id")

	if _, ok := requireOrgAdmin(c, orgID); !ok {
		return
	}

	model.DB.Model(&model.Invitation{}).
		Where("organization_id = ? AND status = ? AND expires_at < ?", orgID, model.InviteStatusPending, time.Now()).
		Update("status", model.InviteStatusExpired)

	var invitations []model.Invitation
	model.DB.Where("organization_id = ? AND status = ?", orgID, model.InviteStatusPending).
		Order("created_at DESC").
		Find(&invitations)

	response.Success(c, invitations)
}

// DeleteInvitation 撤销邀请，要求 owner/admin，物理删除
func (h *MemberHandler) DeleteInvitation(c *gin.Context) {
	invID := c.Param("id")
	userID := middleware.GetUserID(c)

	var invitation model.Invitation
	if err := model.DB.First(&invitation, "id = ?", invID).Error; err != nil {
		response.NotFound(c, "邀请不存在")
		return
	}

	if _, ok := requireOrgAdmin(c, invitation.OrganizationID); !ok {
		return
	}

	tx := model.DB.Begin()

	if err := tx.Delete(&model.Invitation{}, "id = ?", invitation.ID).Error; err != nil {
		tx.Rollback()
		response.ServerError(c, "撤销邀请失败")
		return
	}

	if err := logActivity(tx, invitation.OrganizationID, userID, model.ActionInvitationRevoked, model.EntityInvitation, invitation.ID,
		model.RevokedMetadata{Email: invitation.Email}); err != nil {
		tx.Rollback()
		response.ServerError(c, "记录日志失败")
		return
	}

	tx.Commit()
	response.SuccessWithMessage(c, "邀请已撤销", nil)
}
