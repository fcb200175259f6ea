package notify

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeTaskAssigned: {
		file:    "task_assigned_email.html",
		subject: "设备维护系统 - 新的维护任务",
	},
	domain.MailTypeScheduleTaskAssigned: {
		file:    "schedule_task_assigned_email.html",
		subject: "设备维护系统 - 维护计划任务指派",
	},
}

// Templates 保存每种邮件类型解析好的模板
type Templates struct {
	from   string
	byType map[string]*template.Template
}

// LoadTemplates 在启动时解析 dir 下所有的邮件模板，缺少任何一个都会返回错误
func LoadTemplates(dir, from string) (*Templates, error) {
	t := &Templates{
		from:   from,
		byType: make(map[string]*template.Template, len(mailTemplates)),
	}
	for mailType, mt := range mailTemplates {
		tmpl, err := template.ParseFiles(filepath.Join(dir, mt.file))
		if err != nil {
			return nil, fmt.Errorf("无法解析邮件模板 %s: %w", mt.file, err)
		}
		t.byType[mailType] = tmpl
	}
	return t, nil
}

// Build 根据消息类型构建邮件
func (t *Templates) Build(m domain.MailMessage) (*mail.Msg, error) {
	tmpl, ok := t.byType[m.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型 %q", m.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(t.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, m.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(mailTemplates[m.Type].subject)

	return msg, nil
}
