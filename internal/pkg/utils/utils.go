package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateRandomString 生成随机字符串
func GenerateRandomString(length int) string {
	bytes := make([]byte, length/2+1)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:length]
}

// GenerateInviteToken 生成邀请 Token
func GenerateInviteToken() string {
	return GenerateRandomString(32)
}

// Slugify 由名称生成 URL 友好的 slug
// 转小写，空白转连字符，去掉非 [a-z0-9-]，折叠并修剪连字符
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	lastHyphen := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// MaskEmail 隐藏邮箱中间部分
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	name := parts[0]
	if len(name) <= 2 {
		return email
	}
	return name[0:1] + "***" + name[len(name)-1:] + "@" + parts[1]
}
