package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var _ Sender = (*SMTPSender)(nil)

// SMTPSender delivers mail through an SMTP relay using STARTTLS when the
// server offers it, or implicit TLS on port 465.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPSender returns a sender for host:port. Auth is skipped when
// username is empty.
func NewSMTPSender(host string, port int, username, password string, timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
	}
}

func (s *SMTPSender) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Send implements Sender.Send.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.dial(ctx)
	if err != nil {
		return deliveryErr(msg.To, err)
	}
	defer c.Close()

	if err := s.deliver(c, msg); err != nil {
		return deliveryErr(msg.To, err)
	}
	return nil
}

// Health dials the relay and says hello.
func (s *SMTPSender) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer c.Close()

	return c.Quit()
}

func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	d := &net.Dialer{}

	var (
		conn net.Conn
		err  error
	)
	if s.port == 465 {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: s.host}}
		conn, err = td.DialContext(ctx, "tcp", s.addr())
	} else {
		conn, err = d.DialContext(ctx, "tcp", s.addr())
	}
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", s.addr(), err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	return c, nil
}

func (s *SMTPSender) deliver(c *smtp.Client, msg Message) error {
	if s.port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if s.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.username, s.password, s.host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(compose(msg, time.Now())); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end DATA: %w", err)
	}

	return c.Quit()
}

// compose renders headers and a CRLF-normalized UTF-8 text body.
func compose(msg Message, now time.Time) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return b.Bytes()
}
