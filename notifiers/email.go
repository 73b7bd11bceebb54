package notifiers

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/models"
)

//go:embed templates/weekly_plan.txt
var emailTemplates embed.FS

var planTemplate = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.txt"))

const (
	dialTimeout    = 30 * time.Second
	sessionTimeout = 60 * time.Second
)

type Mailer struct {
	logger *slog.Logger
	cfg    config.MailConfig
	now    func() time.Time
}

func NewMailer(logger *slog.Logger, cfg config.MailConfig) *Mailer {
	return &Mailer{
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WeeklyPlanEmail wraps the generated suggestions in an email dated today.
func (m *Mailer) WeeklyPlanEmail(body string) (models.Email, error) {
	if strings.TrimSpace(body) == "" {
		return models.Email{}, errors.New("weekly plan email: empty body")
	}

	subject := fmt.Sprintf("%s — %s", m.cfg.SubjectPrefix, m.now().Format("2006-01-02"))

	return models.Email{
		To:      m.cfg.To,
		Subject: subject,
		Body:    body,
	}, nil
}

// Send delivers mail over SMTP with STARTTLS. Credentials are checked before
// any connection is opened. There is no retry.
func (m *Mailer) Send(ctx context.Context, mail models.Email) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	message, err := m.render(mail)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.SMTPHost)
	err = deliver(ctx, m.cfg.SMTPHost, m.cfg.SMTPPort, auth, m.cfg.User, []string{mail.To}, message)
	if err != nil {
		m.logger.Error("Failed to send email", "error", err)
		return errors.Wrap(err, "send email")
	}

	m.logger.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}

func (m *Mailer) render(mail models.Email) ([]byte, error) {
	var buf bytes.Buffer
	tmplData := struct {
		From      string
		To        string
		Subject   string
		Date      string
		MessageID string
		Body      string
	}{
		From:      m.cfg.User,
		To:        mail.To,
		Subject:   mime.QEncoding.Encode("UTF-8", mail.Subject),
		Date:      m.now().Format(time.RFC1123Z),
		MessageID: messageID(m.cfg.User),
		Body:      mail.Body,
	}
	if err := planTemplate.ExecuteTemplate(&buf, "weekly_plan.txt", tmplData); err != nil {
		return nil, errors.Wrap(err, "render weekly plan template")
	}
	return buf.Bytes(), nil
}

func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return uuid.NewString() + "@" + domain
}

// deliver and dialSMTP are swapped out in tests.
var (
	deliver  = sendStartTLS
	dialSMTP = func(ctx context.Context, addr string) (net.Conn, error) {
		dialer := net.Dialer{Timeout: dialTimeout}
		return dialer.DialContext(ctx, "tcp", addr)
	}
)

func sendStartTLS(ctx context.Context, host string, port int, auth smtp.Auth, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := dialSMTP(ctx, addr)
	if err != nil {
		return errors.Wrapf(err, "smtp: dial %s", addr)
	}
	if err := conn.SetDeadline(time.Now().Add(sessionTimeout)); err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "smtp: set deadline")
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "smtp: greeting")
	}
	defer c.Close()

	if err := c.Hello(localName()); err != nil {
		return errors.Wrap(err, "smtp: ehlo")
	}
	if ok, _ := c.Extension("STARTTLS"); !ok {
		return errors.Errorf("smtp: %s does not support STARTTLS", addr)
	}
	if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return errors.Wrap(err, "smtp: starttls")
	}
	if err := c.Auth(auth); err != nil {
		return errors.Wrap(err, "smtp: auth")
	}
	if err := c.Mail(from); err != nil {
		return errors.Wrap(err, "smtp: mail from")
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "smtp: rcpt to %s", rcpt)
		}
	}
	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "smtp: data")
	}
	if _, err := w.Write(msg); err != nil {
		return errors.Wrap(err, "smtp: write message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "smtp: end data")
	}
	return c.Quit()
}

func localName() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}
