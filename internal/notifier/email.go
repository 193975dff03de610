package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"agent-directory/internal/model"
)

// EmailConfig 邮件配置。
type EmailConfig struct {
	Host     string   `yaml:"host" env:"SMTP_HOST"`
	Port     int      `yaml:"port" env:"SMTP_PORT"`
	Username string   `yaml:"username" env:"SMTP_USERNAME"`
	Password string   `yaml:"password" env:"SMTP_PASSWORD"`
	From     string   `yaml:"from" env:"SMTP_FROM"`
	To       []string `yaml:"to" env:"SMTP_TO" envSeparator:","`
	Subject  string   `yaml:"subject" env:"SMTP_SUBJECT"`
}

// Complete 判断配置是否足以发送邮件。
func (c EmailConfig) Complete() bool {
	return c.Host != "" && c.Port != 0 && c.From != "" && len(c.To) > 0
}

// EmailMessage 表示一封邮件。
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender 抽象发送接口，便于测试替换。
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPClient 封装 SMTP 发送。
type SMTPClient struct {
	addr string
	auth smtp.Auth
}

func NewSMTPClient(cfg EmailConfig) *SMTPClient {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{addr: addr, auth: auth}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := buildEmailData(msg)
	return smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(data))
}

// EmailNotifier 把新提交发邮件给审核人。
type EmailNotifier struct {
	cfg    EmailConfig
	sender EmailSender
}

// NewEmailNotifier 创建 EmailNotifier。
func NewEmailNotifier(cfg EmailConfig, sender EmailSender) *EmailNotifier {
	if sender == nil {
		sender = NewSMTPClient(cfg)
	}
	if cfg.Subject == "" {
		cfg.Subject = "Nuevas solicitudes de agentes"
	}
	return &EmailNotifier{cfg: cfg, sender: sender}
}

// Notify 发送提交摘要，列表为空则跳过。
func (n EmailNotifier) Notify(ctx context.Context, subs []model.AgentSubmission) error {
	if len(subs) == 0 {
		return nil
	}

	msg := EmailMessage{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: n.cfg.Subject,
		Body:    buildBody(subs),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func buildBody(subs []model.AgentSubmission) string {
	var b strings.Builder
	b.WriteString("Solicitudes pendientes de revisión:\n")
	for _, s := range subs {
		b.WriteString(fmt.Sprintf("- %s (%s) id=%s\n", s.Nombre, s.Slug, s.ID))
	}
	return b.String()
}

func buildEmailData(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
