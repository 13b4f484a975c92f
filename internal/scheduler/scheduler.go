package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

// Scheduler periodically refreshes the stored tables for the configured
// datasets. The portal feed is fetched as-is; the buoy feed is fetched over a
// trailing window and aggregated to daily summaries.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	service    *sst.Service
	interval   time.Duration
	windowDays int
}

// New creates a new Scheduler. windowDays is the length of the trailing date
// window used for buoy fetches.
func New(interval time.Duration, windowDays int, service *sst.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		service:    service,
		interval:   interval,
		windowDays: windowDays,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running sst refresh job")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.service.FetchAndStore(ctx, sst.DatasetPortal, sst.GranularityDaily, "", ""); err != nil {
			log.Printf("scheduler: portal refresh failed: %v", err)
		}

		end := time.Now().UTC()
		begin := end.AddDate(0, 0, -s.windowDays)
		err := s.service.FetchAndStore(ctx, sst.DatasetBuoy, sst.GranularityDaily,
			begin.Format(sst.DateLayout), end.Format(sst.DateLayout))
		if err != nil {
			log.Printf("scheduler: buoy refresh failed: %v", err)
		}

		log.Println("scheduler: completed sst refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
