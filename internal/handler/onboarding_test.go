package handler

import (
	"testing"

	"team-server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingFlow(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "")

	// 初始状态未完成
	w := doJSON(r, "GET", "/api/onboarding/status", token, nil)
	require.Equal(t, 200, w.Code)
	var status struct {
		Completed  bool `json:"completed"`
		HasProfile bool `json:"has_profile"`
	}
	decodeData(t, w, &status)
	assert.False(t, status.Completed)
	assert.False(t, status.HasProfile)

	// 完善资料
	w = doJSON(r, "POST", "/api/onboarding/profile", token, gin.H{"name": "Alice"})
	require.Equal(t, 200, w.Code)

	// 创建首个组织
	w = doJSON(r, "POST", "/api/onboarding/complete", token, gin.H{
		"organization_name": "Acme Inc",
		"slug":              "acme",
	})
	require.Equal(t, 200, w.Code)
	var data struct {
		OrganizationID string `json:"organization_id"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.OrganizationID)

	// 创建者为 owner
	var member model.Member
	require.NoError(t, model.DB.Where("organization_id = ?", data.OrganizationID).First(&member).Error)
	assert.Equal(t, model.RoleOwner, member.Role)

	w = doJSON(r, "GET", "/api/onboarding/status", token, nil)
	decodeData(t, w, &status)
	assert.True(t, status.Completed)
	assert.True(t, status.HasProfile)
}

func TestOnboardingCompleteSlugConflict(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")
	token2 := registerUser(t, r, "bob@example.com", "Bob")
	createOrg(t, r, token, "Acme Inc", "acme")

	w := doJSON(r, "POST", "/api/onboarding/complete", token2, gin.H{
		"organization_name": "Another",
		"slug":              "acme",
	})
	assert.Equal(t, 409, w.Code)

	w = doJSON(r, "POST", "/api/onboarding/complete", token2, gin.H{
		"organization_name": "Another",
		"slug":              "Bad Slug",
	})
	assert.Equal(t, 400, w.Code)
}

func TestGenerateSlug(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "alice@example.com", "Alice")

	w := doJSON(r, "GET", "/api/onboarding/generate-slug?name=Acme+Inc", token, nil)
	require.Equal(t, 200, w.Code)
	var data struct {
		Slug string `json:"slug"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, "acme-inc", data.Slug)

	// 被占用时追加随机后缀
	createOrg(t, r, token, "Acme Inc", "acme-inc")
	w = doJSON(r, "GET", "/api/onboarding/generate-slug?name=Acme+Inc", token, nil)
	decodeData(t, w, &data)
	assert.NotEqual(t, "acme-inc", data.Slug)
	assert.Contains(t, data.Slug, "acme-inc-")
	assert.True(t, model.IsValidSlug(data.Slug))
}
