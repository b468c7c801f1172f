package logic

import (
	"time"

	"innerbloom-backend/internal/store"
)

// Reminder sweep runs once a day in the evening, local time.
const (
	reminderHour   = 20
	reminderMinute = 30
)

// RunReminderSweep checks every known user and delivers a reminder to
// those with notifications enabled who have not checked in today.
// Delivery failures are logged, never fatal.
func (app *App) RunReminderSweep() {
	app.Log.Info("checking users for check-in reminders")

	names, err := app.Users.Usernames()
	if err != nil {
		app.Log.Error("list users for reminder sweep", "err", err)
		return
	}

	reminded := 0
	delivered := 0
	for _, name := range names {
		settings, err := store.Read(app.Store, name, keyUserSettings, defaultSettings())
		if err != nil {
			app.Log.Warn("read settings for reminder", "user", name, "err", err)
		}
		if !settings.NotificationsEnabled {
			continue
		}
		if app.Ledger.CompletedToday(name) {
			continue
		}

		reminded++
		if app.WebhookURL == "" {
			app.Log.Info("reminder due but no webhook configured", "user", name)
			continue
		}
		if err := SendCheckinReminder(app.WebhookURL, name); err != nil {
			app.Log.Error("deliver reminder", "user", name, "err", err)
			continue
		}
		delivered++
	}

	app.Log.Info("reminder sweep complete", "due", reminded, "delivered", delivered)
}

// StartScheduler runs the daily reminder sweep at the fixed local time.
func StartScheduler(app *App) {
	app.Log.Info("starting reminder scheduler")

	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), reminderHour, reminderMinute, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}

			sleep := next.Sub(now)
			app.Log.Info("next reminder sweep scheduled", "at", next.Format("2006-01-02 15:04:05"), "in", sleep)
			time.Sleep(sleep)

			app.RunReminderSweep()
		}
	}()
}
