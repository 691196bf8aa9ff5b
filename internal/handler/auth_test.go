package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r := setupTestEnv(t)

	registerUser(t, r, "alice@example.com", "Alice")

	// 重复邮箱
	w := doJSON(r, "POST", "/api/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, 409, w.Code)

	// 正确密码登录
	w = doJSON(r, "POST", "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, 200, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &data)
	assert.NotEmpty(t, data.Token)

	// 错误密码
	w = doJSON(r, "POST", "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, 401, w.Code)
}

func TestLoginLockout(t *testing.T) {
	r := setupTestEnv(t)

	registerUser(t, r, "lockme@example.com", "Lock")

	// 连续失败直到触发锁定
	var lastCode int
	for i := 0; i < 5; i++ {
		w := doJSON(r, "POST", "/api/auth/login", "", gin.H{
			"email":    "lockme@example.com",
			"password": "wrong-password",
		})
		lastCode = w.Code
	}
	assert.Equal(t, 429, lastCode)

	// 锁定期间即使密码正确也被拒绝
	w := doJSON(r, "POST", "/api/auth/login", "", gin.H{
		"email":    "lockme@example.com",
		"password": "secret123",
	})
	assert.Equal(t, 429, w.Code)
}

func TestChangePassword(t *testing.T) {
	r := setupTestEnv(t)

	token := registerUser(t, r, "bob@example.com", "Bob")

	// 原密码错误
	w := doJSON(r, "PUT", "/api/auth/password", token, gin.H{
		"old_password": "wrong",
		"new_password": "newsecret",
	})
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, "PUT", "/api/auth/password", token, gin.H{
		"old_password": "secret123",
		"new_password": "newsecret",
	})
	require.Equal(t, 200, w.Code)

	// 新密码可登录
	w = doJSON(r, "POST", "/api/auth/login", "", gin.H{
		"email":    "bob@example.com",
		"password": "newsecret",
	})
	assert.Equal(t, 200, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := setupTestEnv(t)

	w := doJSON(r, "GET", "/api/users/me", "", nil)
	assert.Equal(t, 401, w.Code)

	w = doJSON(r, "GET", "/api/users/me", "not-a-valid-token", nil)
	assert.Equal(t, 401, w.Code)
}
