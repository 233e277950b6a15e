// Package notify renders and sends the emails triggered by contact and
// call-schedule records, and hands those sends to the background queue.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/mail"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/sirupsen/logrus"
)

// Addresses configures who sends and who receives operator notifications.
type Addresses struct {
	From  string
	Admin string
	Owner Owner
}

// Notifier sends the two emails for each new record: one to the operator
// and a confirmation to the submitter. It also sends call reminders.
//
// The operator email decides the job outcome; a failed confirmation is
// only logged.
type Notifier struct {
	sender    mail.Sender
	contacts  contact.Repository
	schedules schedule.Repository
	addr      Addresses
	log       logrus.FieldLogger
}

func NewNotifier(
	sender mail.Sender,
	contacts contact.Repository,
	schedules schedule.Repository,
	addr Addresses,
	log logrus.FieldLogger,
) *Notifier {
	return &Notifier{
		sender:    sender,
		contacts:  contacts,
		schedules: schedules,
		addr:      addr,
		log:       log.WithField("component", "notify"),
	}
}

// Register installs the job handlers on m.
func (n *Notifier) Register(m *queue.Mux) {
	m.Register(queue.KindContactCreated, queue.HandlerFunc(n.HandleContactCreated))
	m.Register(queue.KindScheduleCreated, queue.HandlerFunc(n.HandleScheduleCreated))
}

// HandleContactCreated notifies about a new contact message.
func (n *Notifier) HandleContactCreated(ctx context.Context, job queue.Job) queue.Result {
	msg, err := n.contacts.GetByID(ctx, job.RecordID)
	if errors.Is(err, contact.ErrNotFound) {
		return queue.Fatal(err)
	}
	if err != nil {
		return queue.Retry(fmt.Errorf("load contact message: %w", err))
	}

	data := templateData{Record: msg, Owner: n.addr.Owner}
	return n.sendPair(ctx, job, data, tplContactAdmin, tplContactConfirmation, msg.Email)
}

// HandleScheduleCreated notifies about a new call schedule.
func (n *Notifier) HandleScheduleCreated(ctx context.Context, job queue.Job) queue.Result {
	c, err := n.schedules.GetByID(ctx, job.RecordID)
	if errors.Is(err, schedule.ErrNotFound) {
		return queue.Fatal(err)
	}
	if err != nil {
		return queue.Retry(fmt.Errorf("load call schedule: %w", err))
	}

	data := templateData{Record: c, Owner: n.addr.Owner}
	return n.sendPair(ctx, job, data, tplScheduleAdmin, tplScheduleConfirmation, c.Email)
}

func (n *Notifier) sendPair(
	ctx context.Context,
	job queue.Job,
	data templateData,
	adminTpl, confirmTpl, submitter string,
) queue.Result {
	log := n.log.WithFields(logrus.Fields{
		"kind":      string(job.Kind),
		"record_id": job.RecordID.String(),
	})

	admin, err := render(adminTpl, data, n.addr.From, n.addr.Admin)
	if err != nil {
		return queue.Fatal(err)
	}
	if err := n.sender.Send(ctx, admin); err != nil {
		return queue.Retry(fmt.Errorf("send operator notification: %w", err))
	}

	confirm, err := render(confirmTpl, data, n.addr.From, submitter)
	if err != nil {
		log.WithError(err).Error("confirmation email not rendered")
		return queue.OK()
	}
	if err := n.sender.Send(ctx, confirm); err != nil {
		log.WithError(err).Warn("confirmation email not delivered")
	}

	return queue.OK()
}

// SendReminder emails the submitter of c about the upcoming call. Calls
// that are no longer pending or confirmed are skipped.
func (n *Notifier) SendReminder(ctx context.Context, c *schedule.CallSchedule) error {
	if !c.Status.Open() {
		n.log.WithFields(logrus.Fields{
			"record_id": c.ID.String(),
			"status":    string(c.Status),
		}).Debug("reminder skipped")
		return nil
	}

	msg, err := render(tplScheduleReminder, templateData{Record: c, Owner: n.addr.Owner}, n.addr.From, c.Email)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}
