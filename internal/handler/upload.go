package handler

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"team-server/internal/pkg/response"
	"team-server/internal/pkg/utils"
	"team-server/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// 各上传类型的大小上限（字节）
var uploadSizeLimits = map[string]int64{
	"avatar":   5 << 20,
	"logo":     5 << 20,
	"document": 10 << 20,
}

// 头像和 Logo 只接受图片
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var documentContentTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Upload 上传文件到对象存储
// type 取值 avatar/logo/document，返回公开访问 URL
func (h *UploadHandler) Upload(c *gin.Context) {
	uploadType := c.PostForm("type")
	limit, ok := uploadSizeLimits[uploadType]
	if !ok {
		response.BadRequest(c, "type 只能是 avatar、logo 或 document")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "缺少文件")
		return
	}

	if file.Size > limit {
		response.BadRequest(c, fmt.Sprintf("文件大小不能超过 %dMB", limit>>20))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if uploadType == "document" {
		if !documentContentTypes[contentType] {
			response.BadRequest(c, "只支持 PDF、TXT、Word 格式的文档")
			return
		}
	} else if !imageContentTypes[contentType] {
		response.BadRequest(c, "只支持 JPEG、PNG、GIF、WebP 格式的图片")
		return
	}

	storage, err := service.GetStorageService()
	if err != nil {
		response.ServerError(c, "对象存储不可用")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ServerError(c, "读取文件失败")
		return
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("%s/%d-%s%s", uploadType, time.Now().UnixMilli(), utils.GenerateRandomString(8), ext)

	url, err := storage.Upload(c.Request.Context(), key, src, file.Size, contentType)
	if err != nil {
		response.ServerError(c, "上传文件失败")
		return
	}

	response.Success(c, gin.H{
		"url":       url,
		"file_name": file.Filename,
		"key":       key,
		"size":      file.Size,
	})
}
