package handler

import (
	"strconv"

	"team-server/internal/middleware"
	"team-server/internal/model"
	"team-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct{}

func NewActivityHandler() *ActivityHandler {
	return &ActivityHandler{}
}

func activityBrief(l *model.ActivityLog) gin.H {
	return gin.H{
		"id":              l.ID,
		"organization_id": l.OrganizationID,
		"action":          l.Action,
		"entity_type":     l.EntityType,
		"entity_id":       l.EntityID,
		"metadata":        l.MetadataJSON(),
		"created_at":      l.CreatedAt,
		"user":            userBrief(l.User),
	}
}

// List 获取组织操作日志，按时间倒序，要求成员资格
func (h *ActivityHandler) List(c *gin.Context) {
	orgID := c.Param("id")

	if _, ok := requireMembership(c, orgID); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var logs []model.ActivityLog
	model.DB.Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)

	result := make([]gin.H, 0, len(logs))
	for i := range logs {
		result = append(result, activityBrief(&logs[i]))
	}

	response.Success(c, result)
}

// GetRecent 获取当前用户所有组织的近期动态
func (h *ActivityHandler) GetRecent(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orgIDs []string
	model.DB.Model(&model.Member{}).
		Where("user_id = ?", userID).
		Pluck("organization_id", &orgIDs)

	if len(orgIDs) == 0 {
		response.Success(c, []gin.H{})
		return
	}

	var logs []model.ActivityLog
	model.DB.Preload("User").Preload("Organization").
		Where("organization_id IN ?", orgIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)

	result := make([]gin.H, 0, len(logs))
	for i := range logs {
		entry := activityBrief(&logs[i])
		if logs[i].Organization != nil {
			entry["organization"] = gin.H{
				"id":   logs[i].Organization.ID,
				"name": logs[i].Organization.Name,
				"slug": logs[i].Organization.Slug,
			}
		}
		result = append(result, entry)
	}

	response.Success(c, result)
}
