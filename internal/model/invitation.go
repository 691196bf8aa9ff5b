package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteStatus 邀请状态
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"  // 待接受
	InviteStatusAccepted InviteStatus = "accepted" // 已接受
	InviteStatusExpired  InviteStatus = "expired"  // 已过期（读取时惰性标记）
)

// InviteValidDays 邀请有效期（天）
const InviteValidDays = 7

// Invitation 组织邀请 - 基于 token 的待定成员资格
// 撤销邀请为物理删除，不引入 revoked 状态
type Invitation struct {
	ID             string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string       `gorm:"type:varchar(36);index;not null" json:"organization_id"`
	Email          string       `gorm:"type:varchar(100);index;not null" json:"email"`
	Role           Role         `gorm:"type:varchar(20);not null;default:member" json:"role"`
	InvitedBy      string       `gorm:"type:varchar(36);not null" json:"invited_by"`
	Token          string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	Status         InviteStatus `gorm:"type:varchar(20);default:pending" json:"status"`
	ExpiresAt      time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// BeforeCreate 创建前钩子
func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// IsExpired 是否已过期
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
