package notifier

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"
)

type MailService struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPass     string
	mailFrom     string
	mailFromName string
	appBaseURL   string
}

func NewMailService(host, port, user, pass, from, fromName, appBaseURL string) *MailService {
	if port == "" {
		port = "587"
	}
	return &MailService{
		smtpHost:     host,
		smtpPort:     port,
		smtpUser:     user,
		smtpPass:     pass,
		mailFrom:     from,
		mailFromName: fromName,
		appBaseURL:   strings.TrimRight(appBaseURL, "/"),
	}
}

var verifyTmpl = template.Must(template.New("verify").Parse(
	`<p>Halo {{.Name}},</p><p>Klik link berikut untuk verifikasi email akun beasiswa Anda:</p><p><a href="{{.Link}}">{{.Link}}</a></p>`))

var resetTmpl = template.Must(template.New("reset").Parse(
	`<p>Halo {{.Name}},</p><p>Klik link berikut untuk reset password Anda:</p><p><a href="{{.Link}}">{{.Link}}</a></p><p>Abaikan email ini jika Anda tidak meminta reset.</p>`))

var replyTmpl = template.Must(template.New("reply").Parse(
	`<p>Halo {{.Name}},</p><p>Ada balasan baru pada percakapan "<b>{{.Subject}}</b>". Silakan buka aplikasi untuk membacanya.</p>`))

// HandleMessage mengimplementasikan ConsumerHandler.
func (s *MailService) HandleMessage(raw string) error {
	evt, err := UnmarshalEvent(raw)
	if err != nil {
		return fmt.Errorf("event tidak valid: %w", err)
	}

	switch evt.Type {
	case EventVerifyEmail:
		link := fmt.Sprintf("%s/verify-email?token=%s", s.appBaseURL, url.QueryEscape(evt.Token))
		return s.send(evt.Email, "Verifikasi Email", verifyTmpl, map[string]string{"Name": evt.Name, "Link": link})
	case EventResetPassword:
		link := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, url.QueryEscape(evt.Token))
		return s.send(evt.Email, "Reset Password", resetTmpl, map[string]string{"Name": evt.Name, "Link": link})
	case EventThreadReply:
		return s.send(evt.Email, "Balasan Baru", replyTmpl, map[string]string{"Name": evt.Name, "Subject": evt.Subject})
	default:
		log.Printf("[MAIL] event type tidak dikenal: %s", evt.Type)
		return nil
	}
}

func (s *MailService) send(to, subject string, tmpl *template.Template, data map[string]string) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	log.Printf("[MAIL] sending to=%s via=%s:%s", to, s.smtpHost, s.smtpPort)
	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}
	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.smtpHost, s.smtpPort)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline menyeluruh supaya koneksi tidak menggantung
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.smtpHost}); err != nil {
			return err
		}
	}
	if s.smtpUser != "" {
		auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
