// Package scheduler fires the two weekday announcement triggers. Exact
// minutes come from configuration; a missed or failed trigger is logged and
// lost, never retried.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"menubot/internal/config"
	"menubot/internal/domain"
	"menubot/internal/metrics"
	"menubot/internal/notify"
)

// postTimeout bounds one trigger's store lookup plus webhook delivery.
const postTimeout = time.Minute

// Start registers the lunch and dinner cron jobs in the anchored timezone
// and starts the scheduler. The caller shuts it down.
func Start(cfg config.ScheduleConfig, loc *time.Location, composer *notify.Composer, logger *slog.Logger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	jobs := []struct {
		meal domain.Meal
		cron string
	}{
		{domain.MealLunch, cfg.LunchCron},
		{domain.MealDinner, cfg.DinnerCron},
	}
	for _, job := range jobs {
		meal := job.meal
		_, err := s.NewJob(
			gocron.CronJob(job.cron, false),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
				defer cancel()

				if err := composer.Post(ctx, meal); err != nil {
					metrics.DeliveryFailures.Inc()
					logger.Error("scheduled announcement failed", "meal", meal, "err", err)
					return
				}
				metrics.NotificationsTotal.Inc()
			}),
		)
		if err != nil {
			return nil, err
		}
		logger.Info("announcement scheduled", "meal", meal, "cron", job.cron, "tz", loc.String())
	}

	s.Start()
	return s, nil
}
