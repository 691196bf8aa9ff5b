package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"team-server/internal/config"
)

// EmailService 邮件服务
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	enabled  bool
}

// NewEmailService 创建邮件服务
func NewEmailService() *EmailService {
	cfg := config.Get()
	return &EmailService{
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		username: cfg.Email.Username,
		password: cfg.Email.Password,
		from:     cfg.Email.From,
		enabled:  cfg.Email.Enabled,
	}
}

// SendEmail 发送邮件
func (s *EmailService) SendEmail(to, subject, body string) error {
	if !s.enabled || s.host == "" {
		return fmt.Errorf("邮件服务未配置")
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

// 邀请邮件模板
const inviteTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1890ff; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { padding: 20px; text-align: center; color: #999; font-size: 12px; }
        .btn { display: inline-block; padding: 10px 20px; background: #1890ff; color: white; text-decoration: none; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>团队邀请</h1>
        </div>
        <div class="content">
            <p>您好：</p>
            <p><strong>{{.InviterName}}</strong> 邀请您以 <strong>{{.Role}}</strong> 身份加入组织 <strong>{{.OrgName}}</strong>。</p>
            <p>邀请将在 {{.ExpireAt}} 过期，请及时处理。</p>
            <p style="text-align: center; margin-top: 30px;">
                <a href="{{.AcceptURL}}" class="btn">接受邀请</a>
            </p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复。</p>
        </div>
    </div>
</body>
</html>
`

// InviteEmailData 邀请邮件数据
type InviteEmailData struct {
	InviterName string
	OrgName     string
	Role        string
	ExpireAt    string
	AcceptURL   string
}

// SendInvitation 发送邀请邮件
func (s *EmailService) SendInvitation(to string, data InviteEmailData) error {
	tmpl, err := template.New("invite").Parse(inviteTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	subject := fmt.Sprintf("【团队邀请】%s 邀请您加入 %s", data.InviterName, data.OrgName)
	return s.SendEmail(to, subject, buf.String())
}
