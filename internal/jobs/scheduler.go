package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler owns the gocron instance so main only starts and stops it.
type Scheduler struct {
	scheduler gocron.Scheduler
}

func NewScheduler(digest *DigestService, interval time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := digest.Run(context.Background()); err != nil {
				log.Printf("low stock digest failed: %v", err)
			}
		}),
		gocron.WithName("low-stock-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: scheduler}, nil
}

func (s *Scheduler) Start() {
	log.Printf("starting job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("stopping job scheduler")
	return s.scheduler.Shutdown()
}
