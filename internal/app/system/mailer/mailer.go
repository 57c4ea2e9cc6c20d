// internal/app/system/mailer/mailer.go
package mailer

import (
	"crypto/tls"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings. With Enabled false the mailer logs each
// message instead of dialing, which is what dev environments want.
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Email is one outbound message. Headers carries extra headers such as
// the announcement message id.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// Mailer delivers email over SMTP.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) dialer() *gomail.Dialer {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d
}

func (m *Mailer) message(e Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetAddressHeader("To", e.To, e.ToName)
	msg.SetHeader("Subject", e.Subject)
	for k, v := range e.Headers {
		msg.SetHeader(k, v)
	}
	msg.SetBody("text/plain", e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternative("text/html", e.HTMLBody)
	}
	return msg
}

// Send delivers one message. When the mailer is disabled it logs the
// message and reports success.
func (m *Mailer) Send(e Email) error {
	if !m.cfg.Enabled {
		m.log.Info("mailer disabled, skipping send",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}
	return m.dialer().DialAndSend(m.message(e))
}

// SendBatch delivers a batch over one SMTP connection and reports how
// many messages were delivered and how many failed. Individual failures
// are logged and do not stop the batch.
func (m *Mailer) SendBatch(emails []Email) (delivered, failed int) {
	if len(emails) == 0 {
		return 0, 0
	}
	if !m.cfg.Enabled {
		m.log.Info("mailer disabled, skipping batch send",
			zap.Int("count", len(emails)))
		return len(emails), 0
	}

	sender, err := m.dialer().Dial()
	if err != nil {
		m.log.Error("smtp dial failed", zap.Error(err))
		return 0, len(emails)
	}
	defer sender.Close()

	for _, e := range emails {
		if err := gomail.Send(sender, m.message(e)); err != nil {
			m.log.Warn("email send failed",
				zap.String("to", e.To),
				zap.Error(err))
			failed++
			continue
		}
		delivered++
	}
	return delivered, failed
}
