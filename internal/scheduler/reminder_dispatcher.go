package scheduler

import (
	"time"

	"olivemind_backend/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReminderDispatcher periodically drains due reminders through the reminder
// service. The dispatcher only moves data; deciding what is due and what the
// message says stays in the service.
type ReminderDispatcher struct {
	cronEngine      *cron.Cron
	reminderService services.ReminderService
	cronSpec        string
}

// NewReminderDispatcher creates a dispatcher that checks for due reminders on
// the given cron spec, e.g. "*/5 * * * *" for every 5 minutes.
func NewReminderDispatcher(rs services.ReminderService, cronSpec string) *ReminderDispatcher {
	return &ReminderDispatcher{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		reminderService: rs,
		cronSpec:        cronSpec,
	}
}

// Start registers the dispatch job and starts the cron engine.
func (d *ReminderDispatcher) Start() error {
	_, err := d.cronEngine.AddFunc(d.cronSpec, d.dispatchDue)
	if err != nil {
		return err
	}
	d.cronEngine.Start()
	log.Info().Str("cron_spec", d.cronSpec).Msg("Reminder dispatcher started")
	return nil
}

func (d *ReminderDispatcher) dispatchDue() {
	sent, failed, err := d.reminderService.ProcessDueReminders(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Reminder dispatch run failed")
		return
	}
	if sent > 0 || failed > 0 {
		log.Info().Int("sent", sent).Int("failed", failed).Msg("Reminder dispatch run completed")
	}
}

// Stop halts the cron engine and waits for a running dispatch to finish.
func (d *ReminderDispatcher) Stop() {
	ctx := d.cronEngine.Stop()
	<-ctx.Done()
	log.Info().Msg("Reminder dispatcher stopped")
}

// LogSender is a MessageSender that writes the reminder to the application
// log. It stands in until the WhatsApp gateway integration lands.
type LogSender struct{}

func (LogSender) SendMessage(workerID int64, message string) error {
	log.Info().Int64("worker_id", workerID).Str("message", message).Msg("Reminder delivered")
	return nil
}
