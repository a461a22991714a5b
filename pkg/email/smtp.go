package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"reviseai-backend/config"
)

type SMTPClient struct {
	config *config.SMTPConfig
}

func NewSMTPClient(cfg *config.SMTPConfig) *SMTPClient {
	return &SMTPClient{
		config: cfg,
	}
}

type EmailData struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

func (c *SMTPClient) SendEmail(data EmailData) error {
	var auth smtp.Auth
	if c.config.Username != "" || c.config.Password != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}

	msg := c.buildMessage(data)

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	err := smtp.SendMail(addr, auth, c.config.From, []string{data.To}, []byte(msg))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (c *SMTPClient) buildMessage(data EmailData) string {
	msg := fmt.Sprintf("From: %s\r\n", c.config.From)
	msg += fmt.Sprintf("To: %s\r\n", data.To)
	if data.ReplyTo != "" {
		msg += fmt.Sprintf("Reply-To: %s\r\n", data.ReplyTo)
	}
	msg += fmt.Sprintf("Subject: %s\r\n", data.Subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += data.Body

	return msg
}

func (c *SMTPClient) SendContactMessage(to, name, fromEmail, message string) error {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .highlight { color: #007bff; font-weight: bold; }
        .message { background: #f8f9fa; padding: 15px; border-radius: 4px; white-space: pre-wrap; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>ReviseAI - Contact Form Message</h2>
        <p>From: <span class="highlight">{{.Name}}</span> ({{.Email}})</p>
        <div class="message">{{.Message}}</div>
        <div class="footer">
            <p>This message was submitted through the ReviseAI contact form.</p>
        </div>
    </div>
</body>
</html>
`

	t, err := template.New("contact_message").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	data := map[string]string{
		"Name":    name,
		"Email":   fromEmail,
		"Message": message,
	}
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return c.SendEmail(EmailData{
		To:      to,
		ReplyTo: fromEmail,
		Subject: fmt.Sprintf("Contact form message from %s", name),
		Body:    body.String(),
	})
}
