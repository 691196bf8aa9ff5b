package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog 操作日志 - 仅追加，不更新不删除
type ActivityLog struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(36);index:idx_org_time;not null" json:"organization_id"`
	UserID         string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Action         string    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType     string    `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID       string    `gorm:"type:varchar(36)" json:"entity_id"`
	Metadata       string    `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_org_time" json:"created_at"`

	// 关联
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate 创建前钩子
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// MetadataJSON 元数据原文，供查询接口透出
func (l *ActivityLog) MetadataJSON() json.RawMessage {
	if l.Metadata == "" {
		return nil
	}
	return json.RawMessage(l.Metadata)
}

// 操作类型常量
const (
	ActionMemberInvited     = "member.invited"
	ActionMemberJoined      = "member.joined"
	ActionMemberRoleUpdated = "member.role_updated"
	ActionMemberRemoved     = "member.removed"
	ActionMemberLeft        = "member.left"
	ActionInvitationRevoked = "invitation.revoked"
)

// 实体类型常量
const (
	EntityMember     = "member"
	EntityInvitation = "invitation"
)

// ActivityMetadata 操作日志元数据，按操作类型封闭枚举
type ActivityMetadata interface {
	isActivityMetadata()
}

// InvitedMetadata member.invited 元数据
type InvitedMetadata struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// JoinedMetadata member.joined 元数据
type JoinedMetadata struct {
	Role Role `json:"role"`
}

// RoleChangedMetadata member.role_updated 元数据
type RoleChangedMetadata struct {
	OldRole      Role   `json:"old_role"`
	NewRole      Role   `json:"new_role"`
	TargetUserID string `json:"target_user_id"`
}

// RemovedMetadata member.removed / member.left 元数据
type RemovedMetadata struct {
	TargetUserID    string `json:"target_user_id"`
	TargetUserEmail string `json:"target_user_email"`
	Role            Role   `json:"role"`
}

// RevokedMetadata invitation.revoked 元数据
type RevokedMetadata struct {
	Email string `json:"email"`
}

func (InvitedMetadata) isActivityMetadata()     {}
func (JoinedMetadata) isActivityMetadata()      {}
func (RoleChangedMetadata) isActivityMetadata() {}
func (RemovedMetadata) isActivityMetadata()     {}
func (RevokedMetadata) isActivityMetadata()     {}

// EncodeMetadata 序列化元数据
func EncodeMetadata(meta ActivityMetadata) string {
	if meta == nil {
		return ""
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(data)
}
