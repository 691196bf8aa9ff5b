package model

import "regexp"

// Organization 组织/团队 - 资源隔离的顶层单位
type Organization struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Slug      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"` // URL友好标识，全局唯一
	Logo      string `gorm:"type:varchar(500)" json:"logo"`
	CreatedBy string `gorm:"type:varchar(36);index;not null" json:"created_by"`

	// 关联
	Members []Member `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
}

func (Organization) TableName() string {
	return "organizations"
}

// slug 仅允许小写字母、数字和连字符
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidSlug 校验 slug 格式
func IsValidSlug(slug string) bool {
	return slug != "" && slugPattern.MatchString(slug)
}
