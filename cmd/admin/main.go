// Command admin performs back-office operations on stored records.
//
//	admin contact list [-unread] [-limit N]
//	admin contact mark-read|mark-unread <id>...
//	admin schedule list [-status pending,confirmed] [-limit N]
//	admin schedule confirm|complete|cancel|reopen <id>...
//	admin remind-now
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/app"
	"github.com/oggyb/portfolio-backend/internal/config"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/sirupsen/logrus"
)

var statusCommands = map[string]schedule.Status{
	"reopen":   schedule.StatusPending,
	"confirm":  schedule.StatusConfirmed,
	"complete": schedule.StatusCompleted,
	"cancel":   schedule.StatusCancelled,
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  admin contact list [-unread] [-limit N]
  admin contact mark-read|mark-unread <id>...
  admin schedule list [-status pending,confirmed] [-limit N]
  admin schedule confirm|complete|cancel|reopen <id>...
  admin remind-now`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.New()
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("startup failed")
	}
	defer a.Close()

	switch os.Args[1] {
	case "contact":
		err = runContact(ctx, a, os.Args[2:])
	case "schedule":
		err = runSchedule(ctx, a, os.Args[2:])
	case "remind-now":
		runCtx, cancel := context.WithTimeout(ctx, cfg.Reminder.BatchTimeout)
		err = a.ReminderService.ProcessBatch(runCtx)
		cancel()
	default:
		usage()
	}
	if err != nil {
		a.Log.WithError(err).Fatal("admin command failed")
	}
}

func runContact(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		usage()
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("contact list", flag.ExitOnError)
		unread := fs.Bool("unread", false, "only unread messages")
		limit := fs.Int("limit", 50, "maximum rows")
		_ = fs.Parse(args[1:])

		f := contact.ListFilter{Limit: *limit}
		if *unread {
			f.IsRead = new(bool)
		}
		msgs, err := a.ContactService.List(ctx, f)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tREAD\tNAME\tEMAIL\tPROJECT")
		for _, m := range msgs {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
				m.ID, m.CreatedAt.Format(time.DateTime), m.IsRead, m.Name, m.Email, m.Project)
		}
		return w.Flush()

	case "mark-read", "mark-unread":
		read := args[0] == "mark-read"
		return eachID(args[1:], func(id uuid.UUID) error {
			m, err := a.ContactService.SetRead(ctx, id, read)
			if err != nil {
				return err
			}
			a.Log.WithFields(logrus.Fields{"id": m.ID, "is_read": m.IsRead}).Info("contact message updated")
			return nil
		})

	default:
		usage()
		return nil
	}
}

func runSchedule(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		usage()
	}

	if st, ok := statusCommands[args[0]]; ok {
		return eachID(args[1:], func(id uuid.UUID) error {
			c, err := a.ScheduleService.UpdateStatus(ctx, id, st)
			if err != nil {
				return err
			}
			if args[0] == "reopen" {
				if err := a.ReminderService.Forget(ctx, id); err != nil {
					return err
				}
			}
			a.Log.WithFields(logrus.Fields{"id": c.ID, "status": c.Status}).Info("call schedule updated")
			return nil
		})
	}
	if args[0] != "list" {
		usage()
	}

	fs := flag.NewFlagSet("schedule list", flag.ExitOnError)
	statuses := fs.String("status", "", "comma-separated statuses")
	limit := fs.Int("limit", 50, "maximum rows")
	_ = fs.Parse(args[1:])

	f := schedule.ListFilter{Limit: *limit}
	if *statuses != "" {
		for _, s := range strings.Split(*statuses, ",") {
			st, err := schedule.ParseStatus(s)
			if err != nil {
				return err
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	calls, err := a.ScheduleService.List(ctx, f)
	if err != nil {
		return err
	}

	now := a.ScheduleService.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tTIMEZONE\tSTATUS\tUPCOMING\tNAME\tTOPIC")
	for _, c := range calls {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
			c.ID, c.PreferredDate.Format(schedule.DateLayout), c.PreferredTime, c.Timezone,
			c.Status, c.IsUpcoming(now), c.Name, c.Topic)
	}
	return w.Flush()
}

func eachID(raw []string, fn func(uuid.UUID) error) error {
	if len(raw) == 0 {
		return fmt.Errorf("at least one id is required")
	}
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", s, err)
		}
		if err := fn(id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}
