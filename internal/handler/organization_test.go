package handler

import (
	"testing"

	"team-server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrganization(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	orgID := createOrg(t, r, token, "Acme Inc", "acme")

	// 创建者自动成为 owner
	var member model.Member
	require.NoError(t, model.DB.Where("organization_id = ?", orgID).First(&member).Error)
	assert.Equal(t, model.RoleOwner, member.Role)

	// 组织创建不产生操作日志
	var logs int64
	model.DB.Model(&model.ActivityLog{}).Where("organization_id = ?", orgID).Count(&logs)
	assert.Zero(t, logs)
}

func TestCreateOrganizationSlugValidation(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")

	for _, slug := range []string{"Acme", "acme inc", "acme_inc", "acme!"} {
		w := doJSON(r, "POST", "/api/organizations", token, gin.H{
			"name": "Acme",
			"slug": slug,
		})
		assert.Equal(t, 400, w.Code, "slug %q should be rejected", slug)
	}
}

func TestCreateOrganizationSlugConflict(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	token2 := registerUser(t, r, "bob@example.com", "Bob")

	orgID := createOrg(t, r, token, "Acme Inc", "acme")

	w := doJSON(r, "POST", "/api/organizations", token2, gin.H{
		"name": "Another Acme",
		"slug": "acme",
	})
	assert.Equal(t, 409, w.Code)

	// 冲突不影响已有组织
	var org model.Organization
	require.NoError(t, model.DB.First(&org, "id = ?", orgID).Error)
	assert.Equal(t, "Acme Inc", org.Name)
}

func TestGetOrganizationRequiresMembership(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	outsider := registerUser(t, r, "eve@example.com", "Eve")
	orgID := createOrg(t, r, token, "Acme Inc", "acme")

	w := doJSON(r, "GET", "/api/organizations/"+orgID, token, nil)
	require.Equal(t, 200, w.Code)
	var data struct {
		Role model.Role `json:"role"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, model.RoleOwner, data.Role)

	// 非成员按 slug 或 ID 查询都拒绝
	w = doJSON(r, "GET", "/api/organizations/"+orgID, outsider, nil)
	assert.Equal(t, 403, w.Code)
	w = doJSON(r, "GET", "/api/organizations/slug/acme", outsider, nil)
	assert.Equal(t, 403, w.Code)

	w = doJSON(r, "GET", "/api/organizations/slug/acme", token, nil)
	assert.Equal(t, 200, w.Code)
	w = doJSON(r, "GET", "/api/organizations/slug/no-such-org", token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestListOrganizations(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	createOrg(t, r, token, "First", "first")
	createOrg(t, r, token, "Second", "second")

	w := doJSON(r, "GET", "/api/organizations", token, nil)
	require.Equal(t, 200, w.Code)

	var data []struct {
		Slug string     `json:"slug"`
		Role model.Role `json:"role"`
	}
	decodeData(t, w, &data)
	require.Len(t, data, 2)
	// 按加入顺序返回
	assert.Equal(t, "first", data[0].Slug)
	assert.Equal(t, "second", data[1].Slug)
	assert.Equal(t, model.RoleOwner, data[0].Role)
}

func TestUpdateOrganization(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	memberToken := registerUser(t, r, "bob@example.com", "Bob")
	orgID := createOrg(t, r, token, "Acme Inc", "acme")
	joinOrg(t, r, token, memberToken, orgID, "bob@example.com", model.RoleMember)

	// 普通成员不能修改
	w := doJSON(r, "PUT", "/api/organizations/"+orgID, memberToken, gin.H{"name": "Hacked"})
	assert.Equal(t, 403, w.Code)

	w = doJSON(r, "PUT", "/api/organizations/"+orgID, token, gin.H{"name": "Acme Corp"})
	require.Equal(t, 200, w.Code)

	var org model.Organization
	require.NoError(t, model.DB.First(&org, "id = ?", orgID).Error)
	assert.Equal(t, "Acme Corp", org.Name)
	assert.Equal(t, "acme", org.Slug)
}

func TestDeleteOrganization(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	adminToken := registerUser(t, r, "bob@example.com", "Bob")
	orgID := createOrg(t, r, token, "Acme Inc", "acme")
	joinOrg(t, r, token, adminToken, orgID, "bob@example.com", model.RoleAdmin)

	// admin 也不能删除组织
	w := doJSON(r, "DELETE", "/api/organizations/"+orgID, adminToken, nil)
	assert.Equal(t, 403, w.Code)

	// 留一条待处理邀请验证级联删除
	inviteMember(t, r, token, orgID, "carol@example.com", model.RoleMember)

	w = doJSON(r, "DELETE", "/api/organizations/"+orgID, token, nil)
	require.Equal(t, 200, w.Code)

	var orgs, members, invitations int64
	model.DB.Model(&model.Organization{}).Where("id = ?", orgID).Count(&orgs)
	model.DB.Model(&model.Member{}).Where("organization_id = ?", orgID).Count(&members)
	model.DB.Model(&model.Invitation{}).Where("organization_id = ?", orgID).Count(&invitations)
	assert.Zero(t, orgs)
	assert.Zero(t, members)
	assert.Zero(t, invitations)
}
