package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/artventure/travel-planner-backend/internal/travels/service"
)

const sweepTimeout = 5 * time.Minute

// Scheduler runs the nightly completion reconciliation sweep.
type Scheduler struct {
	svc *service.Service
}

func NewScheduler(svc *service.Service) *Scheduler {
	return &Scheduler{svc: svc}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// nightly at 3:00 AM
	_, err := c.AddFunc("0 0 3 * * *", func() {
		s.runSweep()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (completion sweep nightly at 3:00AM)")
	c.Start()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	fixed, err := s.svc.ReconcileCompletion(ctx)
	if err != nil {
		log.Printf("Completion sweep failed: %v", err)
		return
	}
	log.Printf("Completion sweep done, corrected=%d", fixed)
}
