package app

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cn-data/internal/batch"
	"cn-data/internal/fetch"
)

// RunFlow orchestrates crawl loop: trigger → run → done → wait → trigger.
// With daemon false it returns after the first run completes.
func RunFlow(cfg *Config, client *fetch.Client, daemon bool) {
	progressUpdates := make(chan batch.ProgressUpdate, 256)
	go batch.RunProgressWriter(cfg.ProgressPath(), progressUpdates)

	shutdown := make(chan struct{})
	trigger := make(chan batch.Cmd, 1)
	done := make(chan batch.Done, 1)

	go func() {
		for range trigger {
			batch.RunOneCrawl(
				client,
				cfg.Venues,
				cfg.SaveBaseDir(),
				cfg.ProgressPath(),
				cfg.CrawlDays,
				cfg.BufferCapacity,
				cfg.CrawlWorkers,
				progressUpdates,
				done,
				shutdown,
			)
		}
	}()

	trigger <- batch.Cmd{}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-done:
			if !daemon {
				return
			}
			slog.Info("done, wait until next run")
			nextRun := nextRunAfter(time.Now().UTC(), cfg.CrawlRunHour, cfg.CrawlRunMinute)
			waitDur := time.Until(nextRun)
			if waitDur <= 0 {
				slog.Info("next run passed, running now", "next_run", nextRun.Format("2006-01-02 15:04"))
			} else {
				slog.Info("timer waiting", "hours", waitDur.Hours(), "until", nextRun.Format("2006-01-02 15:04"))
				timer := time.NewTimer(waitDur)
				select {
				case <-timer.C:
				case sig := <-signals:
					slog.Info("received signal, stopping", "sig", sig, "restart_at", nextRun.Format("2006-01-02 15:04"))
					timer.Stop()
					return
				}
			}
			trigger <- batch.Cmd{}
		case sig := <-signals:
			slog.Info("received signal, graceful shutdown", "sig", sig)
			close(shutdown)
			<-done
			return
		}
	}
}

// nextRunAfter returns the next HH:MM UTC mark strictly after now.
func nextRunAfter(now time.Time, hour, min int) time.Time {
	targetToday := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, time.UTC)
	if now.Before(targetToday) {
		return targetToday
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, min, 0, 0, time.UTC)
}
