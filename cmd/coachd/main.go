package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/interviewcoach/coach/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	log := application.Log
	log.Info("coachd starting", "scheduler_cron", application.Config.SchedulerCron)

	c := cron.New()
	_, err = c.AddFunc(application.Config.SchedulerCron, func() {
		ctx := context.Background()
		swept, err := application.Orchestrator.DailySweepAll(ctx)
		if err != nil {
			log.Error("daily sweep run failed", "error", err)
			return
		}
		log.Info("daily sweep run complete", "users_swept", swept)
	})
	if err != nil {
		log.Error("invalid scheduler cron expression", "cron", application.Config.SchedulerCron, "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	log.Info("coachd ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("coachd shutting down")
}
