package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

var _ Sender = (*ConsoleSender)(nil)

// ConsoleSender writes messages to the log instead of delivering them.
type ConsoleSender struct {
	log logrus.FieldLogger
}

func NewConsoleSender(log logrus.FieldLogger) *ConsoleSender {
	return &ConsoleSender{log: log.WithField("component", "mail.console")}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}

func (s *ConsoleSender) Health(ctx context.Context) error { return nil }
