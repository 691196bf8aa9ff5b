package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role 组织成员角色，带显式偏序 Owner > Admin > Member
type Role string

const (
	RoleOwner  Role = "owner"  // 所有者：全部权限，可删除组织、调整角色
	RoleAdmin  Role = "admin"  // 管理员：管理成员和组织信息
	RoleMember Role = "member" // 普通成员：只读参与
)

// roleLevels 角色等级，数值越大权限越高
var roleLevels = map[Role]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleMember: 1,
}

// Level 角色等级
func (r Role) Level() int {
	return roleLevels[r]
}

// HasAtLeast 是否达到指定角色的权限等级
func (r Role) HasAtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

// IsValid 是否为合法角色
func (r Role) IsValid() bool {
	return r.Level() > 0
}

// IsValidInviteRole 邀请只允许 admin/member，owner 仅在创建组织时产生
func IsValidInviteRole(r Role) bool {
	return r == RoleAdmin || r == RoleMember
}

// Member 组织成员 - 用户与组织的关联
// 同一 (组织, 用户) 至多一条记录；移除成员为物理删除，允许再次加入
type Member struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(36);uniqueIndex:idx_org_user;index;not null" json:"organization_id"`
	UserID         string    `gorm:"type:varchar(36);uniqueIndex:idx_org_user;index;not null" json:"user_id"`
	Role           Role      `gorm:"type:varchar(20);not null;default:member" json:"role"`
	InvitedBy      *string   `gorm:"type:varchar(36)" json:"invited_by"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`

	// 关联
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// BeforeCreate 创建前钩子
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
