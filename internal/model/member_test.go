package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRoleLevel(t *testing.T) {
	assert.True(t, RoleOwner.HasAtLeast(RoleAdmin))
	assert.True(t, RoleOwner.HasAtLeast(RoleOwner))
	assert.True(t, RoleAdmin.HasAtLeast(RoleMember))
	assert.False(t, RoleAdmin.HasAtLeast(RoleOwner))
	assert.False(t, RoleMember.HasAtLeast(RoleAdmin))
}

func TestMemberGeneratesID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:member_id_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Member{}))

	first := Member{OrganizationID: "org-1", UserID: "user-1", Role: RoleOwner, JoinedAt: time.Now()}
	second := Member{OrganizationID: "org-1", UserID: "user-2", Role: RoleMember, JoinedAt: time.Now()}

	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRoleValidation(t *testing.T) {
	assert.True(t, RoleOwner.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleMember.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())

	// owner 不能通过邀请产生
	assert.True(t, IsValidInviteRole(RoleAdmin))
	assert.True(t, IsValidInviteRole(RoleMember))
	assert.False(t, IsValidInviteRole(RoleOwner))
	assert.False(t, IsValidInviteRole(Role("superuser")))
}
