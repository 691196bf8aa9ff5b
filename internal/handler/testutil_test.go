package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"team-server/internal/config"
	"team-server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testConfigYAML = `
server:
  host: 127.0.0.1
  port: 8080
  mode: test
  base_url: http://localhost:8080
jwt:
  secret: test-secret-test-secret-test-secret-1234
  expire_hours: 24
email:
  enabled: false
security:
  max_login_attempts: 5
  login_lock_minutes: 15
`

// setupTestEnv 启动测试环境：加载测试配置、初始化内存数据库、装配路由
func setupTestEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0644))
	_, err := config.Load(path)
	require.NoError(t, err)

	// 每个测试独立的内存库
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	model.DB = db
	require.NoError(t, model.AutoMigrate())

	r := gin.New()
	SetupRouter(r)
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Message
}

// registerUser 注册用户并返回 token
func registerUser(t *testing.T, r *gin.Engine, email, name string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "secret123",
		"name":     name,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

// createOrg 创建组织并返回组织 ID
func createOrg(t *testing.T, r *gin.Engine, token, name, slug string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/organizations", token, gin.H{
		"name": name,
		"slug": slug,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var data struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.ID)
	return data.ID
}

// inviteMember 邀请成员并返回邀请 token
func inviteMember(t *testing.T, r *gin.Engine, token, orgID, email string, role model.Role) (string, string) {
	t.Helper()
	w := doJSON(r, "POST", "/api/organizations/"+orgID+"/invitations", token, gin.H{
		"email": email,
		"role":  role,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var data struct {
		InvitationID string `json:"invitation_id"`
		Token        string `json:"token"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.InvitationID, data.Token
}

// joinOrg 邀请并接受，让 memberToken 对应的用户加入组织
func joinOrg(t *testing.T, r *gin.Engine, adminToken, memberToken, orgID, email string, role model.Role) {
	t.Helper()
	_, inviteToken := inviteMember(t, r, adminToken, orgID, email, role)
	w := doJSON(r, "POST", "/api/invitations/accept", memberToken, gin.H{"token": inviteToken})
	require.Equal(t, 200, w.Code, w.Body.String())
}

func countActivities(t *testing.T, orgID, action string) int64 {
	t.Helper()
	var count int64
	model.DB.Model(&model.ActivityLog{}).
		Where("organization_id = ? AND action = ?", orgID, action).
		Count(&count)
	return count
}
