package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/config"
)

// Mailer delivers a single plain text message
type Mailer interface {
	Send(to, subject, body string) error
}

// smtpMailer sends over implicit TLS (port 465 style)
type smtpMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a mailer for cfg
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	msg := buildMessage(m.cfg.From, to, subject, body)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Quit()

	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := m.cfg.From
	if i := strings.LastIndex(from, "<"); i >= 0 {
		from = strings.TrimSuffix(from[i+1:], ">")
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}

// buildMessage renders the headers and body. The subject is Q-encoded when it
// holds anything beyond printable ASCII, so it always stays on one header line.
func buildMessage(from, to, subject, body string) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n" + body + "\r\n")
	return msg.String()
}

// NotificationService sends account and order e-mails.
// Every Notify method is fire-and-forget: failures are logged, never returned.
type NotificationService struct {
	mailer  Mailer
	appURL  string
	enabled bool
	async   bool
}

// NewNotificationService creates a notification service. A nil mailer only logs messages.
func NewNotificationService(mailer Mailer, appURL string) *NotificationService {
	return &NotificationService{
		mailer:  mailer,
		appURL:  appURL,
		enabled: mailer != nil,
		async:   true,
	}
}

// IsEnabled checks if e-mail delivery is configured
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// send delivers in the background so callers never wait on SMTP
func (s *NotificationService) send(to, subject, body string) {
	if !s.enabled {
		log.Printf("📧 [mail disabled] to=%s subject=%q\n%s", to, subject, body)
		return
	}

	deliver := func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			log.Printf("❌ Mail to %s failed: %v", to, err)
		}
	}
	if s.async {
		go deliver()
		return
	}
	deliver()
}

// VerificationLink builds the link embedded in the verification mail
func (s *NotificationService) VerificationLink(token string) string {
	return fmt.Sprintf("%s/verify/%s", s.appURL, token)
}

// NotifyVerification sends the account verification link
func (s *NotificationService) NotifyVerification(email, token string) {
	body := fmt.Sprintf(`Halo,

Terima kasih telah mendaftar di GadgetHub.
Klik tautan berikut untuk verifikasi akun Anda:

%s

Tautan berlaku 24 jam.`, s.VerificationLink(token))

	s.send(email, "Verifikasi Akun GadgetHub", body)
}

// NotifyOrderCreated tells the seller a buyer booked their listing
func (s *NotificationService) NotifyOrderCreated(order *models.Order, listingTitle, sellerEmail string) {
	body := fmt.Sprintf(`🛒 Pesanan baru

Ref: %s
Barang: %s
Metode: %s
Total: Rp %d
Cabang: %s`,
		order.Reference,
		listingTitle,
		order.Method,
		order.TotalPrice,
		order.Branch,
	)

	s.send(sellerEmail, "Pesanan baru untuk "+listingTitle, body)
}

// NotifyStatusChanged tells both parties about an applied transition
func (s *NotificationService) NotifyStatusChanged(order *models.Order) {
	body := fmt.Sprintf(`📦 Status pesanan berubah

Ref: %s
Status: %s
Total: Rp %d`,
		order.Reference,
		order.Status,
		order.TotalPrice,
	)
	subject := fmt.Sprintf("Pesanan %s: %s", order.Reference, order.Status)

	if order.Buyer != nil {
		s.send(order.Buyer.Email, subject, body)
	}
	if order.Seller != nil {
		s.send(order.Seller.Email, subject, body)
	}
}
